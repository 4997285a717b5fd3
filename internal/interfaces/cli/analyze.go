package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/turtacn/LexBridge-Intelligence/pkg/client"
)

func newAnalyzeCommand(opts *rootOptions) *cobra.Command {
	var (
		text        string
		documentID  string
		analysisType string
		hint        string
		indianState string
		usState     string
		async       bool
		force       bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [file]",
		Short: "Run a legal analysis over contract text",
		Long: "Runs the full pipeline by default: jurisdiction detection, routing to the\n" +
			"Indian, US or cross-border engine, and risk assessment. Use --type to run a\n" +
			"single engine, --async to queue the run, --document-id to analyze a stored\n" +
			"document instead of local text.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &client.RunAnalysisRequest{
				DocumentID:  documentID,
				Type:        analysisType,
				Hint:        hint,
				IndianState: indianState,
				USState:     usState,
				Async:       async,
				Force:       force,
			}
			if documentID == "" {
				input, err := readText(cmd, args, text)
				if err != nil {
					return err
				}
				req.Text = input
			}
			api, err := opts.newAPIClient()
			if err != nil {
				return err
			}
			result, err := api.Analyses().Run(cmd.Context(), req)
			if err != nil {
				return fmt.Errorf("analysis failed: %w", err)
			}
			if async {
				fmt.Fprintf(cmd.OutOrStdout(), "queued analysis %s\n", result.ID)
				return nil
			}
			return printResult(cmd, opts, result)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&text, "text", "", "inline text instead of a file or stdin")
	flags.StringVar(&documentID, "document-id", "", "analyze a previously uploaded document")
	flags.StringVar(&analysisType, "type", "", "analysis type: full, detect, india, us, cross_border")
	flags.StringVar(&hint, "hint", "", "jurisdiction hint: india, usa or cross_border")
	flags.StringVar(&indianState, "indian-state", "", "Indian state for stamp duty rules")
	flags.StringVar(&usState, "us-state", "", "US state for state law rules")
	flags.BoolVar(&async, "async", false, "queue the run and return immediately")
	flags.BoolVar(&force, "force", false, "rerun even when an identical analysis exists")
	return cmd
}

func newGetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <analysis-id>",
		Short: "Fetch one analysis by ID",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.newAPIClient()
			if err != nil {
				return err
			}
			result, err := api.Analyses().Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("failed to fetch analysis: %w", err)
			}
			return printResult(cmd, opts, result)
		},
	}
}

func newListCommand(opts *rootOptions) *cobra.Command {
	listOpts := &client.ListAnalysesOptions{}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List analyses",
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.newAPIClient()
			if err != nil {
				return err
			}
			result, err := api.Analyses().List(cmd.Context(), listOpts)
			if err != nil {
				return fmt.Errorf("failed to list analyses: %w", err)
			}
			if opts.Output == "text" {
				for _, a := range result.Analyses {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %-10s %-12s %s\n",
						a.ID, a.Status, a.Jurisdiction, a.Summary)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "page %d of %d total\n",
					result.Page.Page, result.Page.Total)
				return nil
			}
			return printResult(cmd, opts, result)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&listOpts.Status, "status", "", "filter by status")
	flags.StringVar(&listOpts.Type, "type", "", "filter by analysis type")
	flags.StringVar(&listOpts.Jurisdiction, "jurisdiction", "", "filter by jurisdiction")
	flags.StringVar(&listOpts.DocumentID, "document-id", "", "filter by document")
	flags.IntVar(&listOpts.Page, "page", 0, "page number")
	flags.IntVar(&listOpts.PageSize, "page-size", 0, "results per page")
	return cmd
}

func newSearchCommand(opts *rootOptions) *cobra.Command {
	searchOpts := &client.SearchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Full-text search over completed analyses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := opts.newAPIClient()
			if err != nil {
				return err
			}
			result, err := api.Analyses().Search(cmd.Context(), args[0], searchOpts)
			if err != nil {
				return fmt.Errorf("search failed: %w", err)
			}
			return printResult(cmd, opts, result)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&searchOpts.Jurisdiction, "jurisdiction", "", "filter by jurisdiction")
	flags.StringVar(&searchOpts.RiskLevel, "risk-level", "", "filter by risk level")
	flags.StringVar(&searchOpts.Type, "type", "", "filter by analysis type")
	flags.IntVar(&searchOpts.Page, "page", 0, "page number")
	flags.IntVar(&searchOpts.PageSize, "page-size", 0, "results per page")
	return cmd
}
