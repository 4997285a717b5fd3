// Package cli implements the lexbridge command line tool. Every
// command is a thin caller of the HTTP API through the SDK client;
// the engines never run in-process here.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/turtacn/LexBridge-Intelligence/pkg/client"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// rootOptions carries the persistent flags shared by every command.
type rootOptions struct {
	ServerAddr string
	APIKey     string
	Timeout    time.Duration
	Output     string
}

func (o *rootOptions) validate() error {
	switch o.Output {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("unknown output format %q (want json or text)", o.Output)
	}
}

// newAPIClient builds the SDK client from the persistent flags.
func (o *rootOptions) newAPIClient() (*client.Client, error) {
	opts := []client.Option{client.WithTimeout(o.Timeout)}
	if o.APIKey != "" {
		opts = append(opts, client.WithAPIKey(o.APIKey))
	}
	return client.NewClient(o.ServerAddr, opts...)
}

// NewRootCommand assembles the full command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "lexbridge",
		Short: "Jurisdiction detection and comparative legal analysis for India/US contracts",
		Long: "lexbridge talks to a LexBridge-Intelligence server to detect the governing\n" +
			"jurisdiction of contract text, run Indian, US and cross-border legal\n" +
			"analyses, and manage stored documents.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.validate()
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.ServerAddr, "server", envOr("LEXBRIDGE_SERVER", "http://localhost:8080"), "API server base URL")
	flags.StringVar(&opts.APIKey, "api-key", os.Getenv("LEXBRIDGE_API_KEY"), "bearer token for deployments behind a gateway")
	flags.DurationVar(&opts.Timeout, "timeout", 60*time.Second, "per-request timeout")
	flags.StringVarP(&opts.Output, "output", "o", "json", "output format: json or text")

	root.AddCommand(
		newDetectCommand(opts),
		newAnalyzeCommand(opts),
		newGetCommand(opts),
		newListCommand(opts),
		newSearchCommand(opts),
		newDocumentCommand(opts),
		newVersionCommand(),
	)
	return root
}

// Execute runs the CLI.
func Execute() error {
	return NewRootCommand().Execute()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// readText resolves command input: an explicit --text flag wins, then
// a file argument, then "-" or no argument reads stdin.
func readText(cmd *cobra.Command, args []string, textFlag string) (string, error) {
	if textFlag != "" {
		return textFlag, nil
	}
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	return string(data), nil
}

// printResult renders v per the output flag. Text mode prints a flat
// key: value listing for quick terminal reading.
func printResult(cmd *cobra.Command, opts *rootOptions, v interface{}) error {
	out := cmd.OutOrStdout()
	if opts.Output == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return printText(out, v)
}

func printText(out io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	var flat map[string]interface{}
	if err := json.Unmarshal(data, &flat); err != nil {
		// Not an object (e.g. a list); fall back to compact JSON.
		_, err = fmt.Fprintln(out, string(data))
		return err
	}
	for key, value := range flat {
		switch value.(type) {
		case map[string]interface{}, []interface{}:
			nested, _ := json.Marshal(value)
			fmt.Fprintf(out, "%s: %s\n", key, truncateLine(string(nested), 120))
		default:
			fmt.Fprintf(out, "%s: %v\n", key, value)
		}
	}
	return nil
}

func truncateLine(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit] + "..."
}
