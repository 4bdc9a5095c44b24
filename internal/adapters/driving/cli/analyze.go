package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

var analyzeJSON bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file...]",
	Short: "Analyse one or more chat exports",
	Long: `Parses WhatsApp chat exports and prints participant activity,
hourly and weekday distributions, top words, emoji usage and sentiment.

Several files are analysed as one conversation: their messages are
concatenated in the order given and a per-file breakdown is shown.

Files are not stored. Use 'chatlens import' to keep them.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeJSON, "json", false, "output analysis as JSON")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	c, err := parseFiles(cmd, args)
	if err != nil {
		return err
	}

	res := analysisService.Analyze(c.Messages)
	if analyzeJSON {
		return outputJSON(cmd, newAnalysisReport(c, res))
	}
	printAnalysis(cmd, c, res)
	return nil
}
