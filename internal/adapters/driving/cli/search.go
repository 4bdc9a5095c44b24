package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

var (
	searchMode  string
	searchLimit int
	searchJSON  bool
	searchFiles []string
)

var searchCmd = &cobra.Command{
	Use:   "search [file] [query]",
	Short: "Search one or more chat exports",
	Long: `Searches the messages of WhatsApp chat exports.

To search several files as one conversation, name each with --file;
every argument is then part of the query:
  chatlens search -f march.txt -f april.txt rent deposit

Modes:
  keyword    - Messages containing any query term (case-insensitive)
  sentiment  - Positive or negative messages; the query picks the polarity
  financial  - Money-related messages ranked by weighted patterns
  semantic   - AI summary of the chat answering the query; falls back to
               keyword search when no summarizer is configured

Without --mode the default from 'chatlens settings' is used.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	addSearchFlags(searchCmd, &searchMode, &searchLimit, &searchJSON)
	searchCmd.Flags().StringArrayVarP(&searchFiles, "file", "f", nil,
		"export to search; repeat to combine files in order")
	rootCmd.AddCommand(searchCmd)
}

func addSearchFlags(cmd *cobra.Command, mode *string, limit *int, asJSON *bool) {
	cmd.Flags().StringVarP(mode, "mode", "m", "", "search mode: "+modeNames())
	cmd.Flags().IntVarP(limit, "limit", "n", 0, "maximum number of messages to show (0 = mode default)")
	cmd.Flags().BoolVar(asJSON, "json", false, "output results as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	paths, query, err := splitSourcesAndQuery(searchFiles, args)
	if err != nil {
		return err
	}
	c, err := parseFiles(cmd, paths)
	if err != nil {
		return err
	}
	return searchMessages(cmd, c.Messages, query, searchMode, searchLimit, searchJSON)
}

func searchMessages(
	cmd *cobra.Command, messages []domain.Message, query, modeFlag string, limit int, asJSON bool,
) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	mode, err := resolveMode(modeFlag)
	if err != nil {
		return err
	}

	res, err := searchService.Search(cmd.Context(), messages, query, mode, domain.SearchOptions{Limit: limit})
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if asJSON {
		return outputJSON(cmd, res)
	}
	printSearchResult(cmd, res)
	return nil
}
