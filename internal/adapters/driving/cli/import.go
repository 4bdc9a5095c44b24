package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var importCmd = &cobra.Command{
	Use:   "import [file...]",
	Short: "Import chat exports into the transcript store",
	Long: `Parses one or more chat exports and stores them so they can be
analysed and searched later with 'chatlens transcript'.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)
}

func runImport(cmd *cobra.Command, args []string) error {
	if transcriptService == nil {
		return errTranscriptServiceNotConfigured
	}

	for _, path := range args {
		raw, err := readExport(path)
		if err != nil {
			return err
		}
		t, err := transcriptService.Import(cmd.Context(), raw)
		if err != nil {
			return explain(fmt.Sprintf("import %s", path), err)
		}
		sum := t.Summary()
		cmd.Printf("Imported %s as %s (%d messages, %d participants", t.Name, t.ID,
			sum.MessageCount, sum.ParticipantCount)
		if sum.AnomalyCount > 0 {
			cmd.Printf(", %d skipped %s", sum.AnomalyCount, plural(sum.AnomalyCount, "line"))
		}
		cmd.Println(")")
	}
	return nil
}
