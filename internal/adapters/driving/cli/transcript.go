package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

var (
	transcriptJSON        bool
	transcriptShowLimit   int
	transcriptSearchMode  string
	transcriptSearchLimit int
	transcriptSearchJSON  bool
	transcriptSearchIDs   []string
)

var transcriptCmd = &cobra.Command{
	Use:     "transcript",
	Aliases: []string{"transcripts"},
	Short:   "Manage imported transcripts",
	Long:    `List, inspect, analyse, search and delete transcripts stored with 'chatlens import'.`,
}

var transcriptListCmd = &cobra.Command{
	Use:   "list",
	Short: "List imported transcripts",
	Args:  cobra.NoArgs,
	RunE:  runTranscriptList,
}

var transcriptShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show the messages of a transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscriptShow,
}

var transcriptDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a transcript",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscriptDelete,
}

var transcriptAnalyzeCmd = &cobra.Command{
	Use:   "analyze [id...]",
	Short: "Analyse one or more imported transcripts",
	Long: `Analyses imported transcripts. Several IDs are analysed as one
conversation, in the order given.`,
	Args: cobra.MinimumNArgs(1),
	RunE:  runTranscriptAnalyze,
}

var transcriptSearchCmd = &cobra.Command{
	Use:   "search [id] [query]",
	Short: "Search one or more imported transcripts",
	Long: `Searches imported transcripts. Name several with --id to search them as
one conversation; every argument is then part of the query.
See 'chatlens search --help' for modes.`,
	Args: cobra.MinimumNArgs(1),
	RunE:  runTranscriptSearch,
}

func init() {
	transcriptListCmd.Flags().BoolVar(&transcriptJSON, "json", false, "output as JSON")
	transcriptShowCmd.Flags().BoolVar(&transcriptJSON, "json", false, "output as JSON")
	transcriptShowCmd.Flags().IntVarP(&transcriptShowLimit, "limit", "n", 50, "maximum number of messages to show (0 = all)")
	transcriptAnalyzeCmd.Flags().BoolVar(&transcriptJSON, "json", false, "output analysis as JSON")
	addSearchFlags(transcriptSearchCmd, &transcriptSearchMode, &transcriptSearchLimit, &transcriptSearchJSON)
	transcriptSearchCmd.Flags().StringArrayVar(&transcriptSearchIDs, "id", nil,
		"transcript to search; repeat to combine transcripts in order")

	transcriptCmd.AddCommand(transcriptListCmd)
	transcriptCmd.AddCommand(transcriptShowCmd)
	transcriptCmd.AddCommand(transcriptDeleteCmd)
	transcriptCmd.AddCommand(transcriptAnalyzeCmd)
	transcriptCmd.AddCommand(transcriptSearchCmd)
	rootCmd.AddCommand(transcriptCmd)
}

func runTranscriptList(cmd *cobra.Command, _ []string) error {
	if transcriptService == nil {
		return errTranscriptServiceNotConfigured
	}

	list, err := transcriptService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list transcripts: %w", err)
	}

	if transcriptJSON {
		return outputJSON(cmd, list)
	}
	printTranscripts(cmd, list)
	return nil
}

func runTranscriptShow(cmd *cobra.Command, args []string) error {
	t, err := storedTranscript(cmd, args[0])
	if err != nil {
		return err
	}

	if transcriptJSON {
		return outputJSON(cmd, t)
	}

	st := newStyles(cmd.OutOrStdout(), nil)
	sum := t.Summary()
	cmd.Println(st.Title.Render(t.Name))
	cmd.Println(st.Muted.Render(fmt.Sprintf("%s | %s | %d messages, %d participants",
		t.ID, t.Format, sum.MessageCount, sum.ParticipantCount)))
	cmd.Println()

	messages := t.Messages
	if transcriptShowLimit > 0 && len(messages) > transcriptShowLimit {
		messages = messages[:transcriptShowLimit]
	}
	for i := range messages {
		printMessage(cmd, st, i+1, messages[i])
	}
	if len(messages) < len(t.Messages) {
		cmd.Println(st.Muted.Render(fmt.Sprintf("... %d more (use --limit 0 to show all)",
			len(t.Messages)-len(messages))))
	}
	printAnomalies(cmd, st, domain.Combine(t).Anomalies, false)
	return nil
}

func runTranscriptDelete(cmd *cobra.Command, args []string) error {
	if transcriptService == nil {
		return errTranscriptServiceNotConfigured
	}

	if err := transcriptService.Delete(cmd.Context(), args[0]); err != nil {
		return explain("delete failed", err)
	}
	cmd.Printf("Transcript %s deleted.\n", args[0])
	return nil
}

func runTranscriptAnalyze(cmd *cobra.Command, args []string) error {
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	c, err := storedTranscripts(cmd, args)
	if err != nil {
		return err
	}

	res := analysisService.Analyze(c.Messages)
	if transcriptJSON {
		return outputJSON(cmd, newAnalysisReport(c, res))
	}
	printAnalysis(cmd, c, res)
	return nil
}

func runTranscriptSearch(cmd *cobra.Command, args []string) error {
	ids, query, err := splitSourcesAndQuery(transcriptSearchIDs, args)
	if err != nil {
		return err
	}
	c, err := storedTranscripts(cmd, ids)
	if err != nil {
		return err
	}
	return searchMessages(cmd, c.Messages, query,
		transcriptSearchMode, transcriptSearchLimit, transcriptSearchJSON)
}
