package cli

import (
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatlens/internal/logger"
	"github.com/custodia-labs/chatlens/internal/watcher"
)

var (
	watchImport   bool
	watchDebounce time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [dir]",
	Short: "Analyse chat exports as they appear in a directory",
	Long: `Watches a directory and analyses every chat export that is created or
changed in it. Hidden files and unsupported extensions are ignored.

With --import each export is also stored in the transcript store.
Press Ctrl+C to stop.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().BoolVar(&watchImport, "import", false, "store each export in the transcript store")
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", watcher.DefaultDebounce,
		"quiet period before a changed file is analysed")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if transcriptService == nil {
		return errTranscriptServiceNotConfigured
	}
	if analysisService == nil {
		return errors.New("analysis service not configured")
	}

	w, err := watcher.New(args[0], transcriptService.SupportedExtensions())
	if err != nil {
		return fmt.Errorf("watch failed: %w", err)
	}
	w.SetDebounce(watchDebounce)

	ctx := cmd.Context()
	go w.Start(ctx)

	st := newStyles(cmd.OutOrStdout(), nil)
	cmd.Println(st.Muted.Render(fmt.Sprintf("Watching %s for chat exports...", w.Dir())))

	for ev := range w.Events {
		switch ev.Kind {
		case watcher.Removed:
			logger.Debug("Export removed: %s", ev.Path)
		case watcher.Changed:
			if err := handleWatchedExport(cmd, ev.Path); err != nil {
				cmd.Println(st.Warning.Render(fmt.Sprintf("%s: %v", filepath.Base(ev.Path), err)))
			}
		}
	}
	return nil
}

// handleWatchedExport parses, optionally stores and summarises one export.
func handleWatchedExport(cmd *cobra.Command, path string) error {
	raw, err := readExport(path)
	if err != nil {
		return err
	}

	parse := transcriptService.Parse
	if watchImport {
		parse = transcriptService.Import
	}
	t, err := parse(cmd.Context(), raw)
	if err != nil {
		return explain("parse failed", err)
	}

	res := analysisService.Analyze(t.Messages)
	st := newStyles(cmd.OutOrStdout(), nil)
	line := fmt.Sprintf("%s: %d messages, %d participants, %d days, average sentiment %+.3f",
		t.Name, res.TotalMessages, len(res.Participants), res.TotalDays, res.AverageSentiment)
	if watchImport {
		line += " (imported as " + t.ID + ")"
	}
	cmd.Println(st.Title.Render(line))
	return nil
}
