package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strrl/chatpulse/internal/output"
	"github.com/strrl/chatpulse/internal/table"
)

var (
	analyzeUser   string
	analyzeFormat string
	analyzeOut    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze FILE",
	Short: "Analyze a chat export",
	Long: `Analyze a chat export for the whole conversation or one participant.
Prints the report to stdout, or writes chatpulse-<participant>.<ext> into
the directory given with --out. Use "-" to read the export from stdin.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().StringVarP(&analyzeUser, "user", "u", table.Overall, "Participant to analyze")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "markdown", "Output format (markdown, json)")
	analyzeCmd.Flags().StringVarP(&analyzeOut, "out", "o", "", "Directory to write the report into (default: stdout)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(analyzeFormat)
	if err != nil {
		return err
	}

	analyzer, loaded, err := loadExport(cmd, args[0])
	if err != nil {
		return err
	}

	report, err := analyzer.AnalyzeLoaded(cmd.Context(), loaded, analyzeUser)
	if err != nil {
		return err
	}

	if analyzeOut == "" {
		return output.Render(cmd.OutOrStdout(), report, format)
	}

	path, err := output.NewGenerator(analyzeOut).Generate(report, format)
	if err != nil {
		return fmt.Errorf("failed to generate output: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report written to %s\n", path)
	return nil
}
