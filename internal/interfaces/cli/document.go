package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newDocumentCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "document",
		Aliases: []string{"doc"},
		Short:   "Manage stored documents",
	}
	cmd.AddCommand(
		newDocumentUploadCommand(opts),
		newDocumentGetCommand(opts),
		newDocumentContentCommand(opts),
		newDocumentListCommand(opts),
	)
	return cmd
}

func newDocumentUploadCommand(opts *rootOptions) *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a document for later analysis",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			content, err := readText(cmd, args, "")
			if err != nil {
				return err
			}
			if title == "" && args[0] != "-" {
				title = filepath.Base(args[0])
			}
			api, err := opts.newAPIClient()
			if err != nil {
				return err
			}
			doc, err := api.Documents().Upload(cmd.Context(), title, content)
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}
			if doc.Duplicate {
				fmt.Fprintf(cmd.OutOrStdout(), "already stored as %s\n", doc.ID)
				return nil
			}
			return printResult(cmd, opts, doc)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "document title (defaults to the file name)")
	return cmd
}

func newDocumentGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <document-id>",
		Short: "Fetch document metadata",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.newAPIClient()
			if err != nil {
				return err
			}
			doc, err := api.Documents().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch document: %w", err)
			}
			return printResult(cmd, opts, doc)
		},
	}
}

func newDocumentContentCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "content <document-id>",
		Short: "Print a document's stored text",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.newAPIClient()
			if err != nil {
				return err
			}
			content, err := api.Documents().GetContent(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch content: %w", err)
			}
			fmt.Fprint(cmd.OutOrStdout(), content)
			return nil
		},
	}
}

func newDocumentListCommand(opts *rootOptions) *cobra.Command {
	var page, pageSize int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List stored documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.newAPIClient()
			if err != nil {
				return err
			}
			result, err := api.Documents().List(cmd.Context(), page, pageSize)
			if err != nil {
				return fmt.Errorf("failed to list documents: %w", err)
			}
			if opts.Output == "text" {
				for _, d := range result.Documents {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %8d bytes  %s\n", d.ID, d.SizeBytes, d.Title)
				}
				return nil
			}
			return printResult(cmd, opts, result)
		},
	}

	cmd.Flags().IntVar(&page, "page", 0, "page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 0, "results per page")
	return cmd
}
