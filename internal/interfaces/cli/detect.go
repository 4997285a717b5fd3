package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDetectCommand(opts *rootOptions) *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "detect [file]",
		Short: "Detect the governing jurisdiction of contract text",
		Long: "Reads contract text from a file, stdin (\"-\" or no argument), or --text,\n" +
			"and reports the detected jurisdiction with a confidence score.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := readText(cmd, args, text)
			if err != nil {
				return err
			}
			api, err := opts.newAPIClient()
			if err != nil {
				return err
			}
			result, err := api.Analyses().Detect(cmd.Context(), input)
			if err != nil {
				return fmt.Errorf("detection failed: %w", err)
			}
			return printResult(cmd, opts, result)
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "inline text instead of a file or stdin")
	return cmd
}
