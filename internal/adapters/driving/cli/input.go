package cli

import (
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

var errTranscriptServiceNotConfigured = errors.New("transcript service not configured")

// readExport loads a chat export from disk.
func readExport(path string) (*domain.RawFile, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return domain.NewRawFile(path, mime.TypeByExtension(filepath.Ext(path)), content), nil
}

// parseFile reads and parses an export without storing it.
func parseFile(cmd *cobra.Command, path string) (*domain.Transcript, error) {
	if transcriptService == nil {
		return nil, errTranscriptServiceNotConfigured
	}
	raw, err := readExport(path)
	if err != nil {
		return nil, err
	}
	t, err := transcriptService.Parse(cmd.Context(), raw)
	if err != nil {
		return nil, explain("parse failed", err)
	}
	return t, nil
}

// storedTranscript loads an imported transcript.
func storedTranscript(cmd *cobra.Command, id string) (*domain.Transcript, error) {
	if transcriptService == nil {
		return nil, errTranscriptServiceNotConfigured
	}
	t, err := transcriptService.Get(cmd.Context(), id)
	if err != nil {
		return nil, explain("load transcript", err)
	}
	return t, nil
}

// parseFiles parses several exports and combines them in argument order.
func parseFiles(cmd *cobra.Command, paths []string) (*domain.Combined, error) {
	transcripts := make([]*domain.Transcript, 0, len(paths))
	for _, p := range paths {
		t, err := parseFile(cmd, p)
		if err != nil {
			return nil, err
		}
		transcripts = append(transcripts, t)
	}
	return domain.Combine(transcripts...), nil
}

// storedTranscripts loads several imported transcripts and combines them
// in argument order.
func storedTranscripts(cmd *cobra.Command, ids []string) (*domain.Combined, error) {
	transcripts := make([]*domain.Transcript, 0, len(ids))
	for _, id := range ids {
		t, err := storedTranscript(cmd, id)
		if err != nil {
			return nil, err
		}
		transcripts = append(transcripts, t)
	}
	return domain.Combine(transcripts...), nil
}

// splitSourcesAndQuery separates message sources from the search query.
// When sources were named by flag every argument is query text; otherwise
// the first argument is the only source.
func splitSourcesAndQuery(named, args []string) ([]string, string, error) {
	sources, terms := named, args
	if len(named) == 0 {
		if len(args) == 0 {
			return nil, "", errors.New("no source given")
		}
		sources, terms = args[:1], args[1:]
	}
	query := strings.TrimSpace(strings.Join(terms, " "))
	if query == "" {
		return nil, "", errors.New("missing search query")
	}
	return sources, query, nil
}

// resolveMode turns the --mode flag into a search mode. An empty flag
// selects the configured default.
func resolveMode(flag string) (domain.SearchMode, error) {
	flag = strings.ToLower(strings.TrimSpace(flag))
	if flag == "" {
		if settingsService != nil {
			if settings, err := settingsService.Get(); err == nil && settings.Search.DefaultMode.IsValid() {
				return settings.Search.DefaultMode, nil
			}
		}
		return domain.SearchModeKeyword, nil
	}

	mode := domain.SearchMode(flag)
	if !mode.IsValid() {
		return "", fmt.Errorf("%w: %q (choose from %s)", domain.ErrInvalidMode, flag, modeNames())
	}
	return mode, nil
}

func modeNames() string {
	modes := domain.AllSearchModes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = m.String()
	}
	return strings.Join(names, ", ")
}

// explain adds a hint to errors the user can act on.
func explain(action string, err error) error {
	switch {
	case errors.Is(err, domain.ErrUnsupportedFormat) && transcriptService != nil:
		return fmt.Errorf("%s: %w (supported: %s)", action, err,
			strings.Join(transcriptService.SupportedExtensions(), ", "))
	case errors.Is(err, domain.ErrNotFound):
		return fmt.Errorf("%s: %w (run 'chatlens transcript list' to see IDs)", action, err)
	default:
		return fmt.Errorf("%s: %w", action, err)
	}
}
