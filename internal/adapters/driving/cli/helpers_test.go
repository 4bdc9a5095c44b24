package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatlens/internal/adapters/driven/sentiment/afinn"
	"github.com/custodia-labs/chatlens/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/services"
	"github.com/custodia-labs/chatlens/internal/normalisers/plaintext"
	"github.com/custodia-labs/chatlens/internal/postprocessors"
	"github.com/custodia-labs/chatlens/internal/postprocessors/ids"
	"github.com/custodia-labs/chatlens/internal/postprocessors/sentiment"
)

const sampleChat = "[15/01/2025, 10:30:00] Alice: Good morning everyone! 😀\n" +
	"[15/01/2025, 10:31:00] Bob: I paid $50 for the dinner\n" +
	"[15/01/2025, 10:32:00] Bob: <Media omitted>\n" +
	"[16/01/2025, 21:05:00] Carol: This is terrible news\n" +
	"[00/01/2025, 10:00:00] Dave: message with a broken date\n"

// setupTestServices wires real services over in-memory stores and returns
// a function restoring the previous ones.
func setupTestServices() func() {
	oldTranscript := transcriptService
	oldAnalysis := analysisService
	oldSearch := searchService
	oldSettings := settingsService
	oldMetrics := metricsHandler

	pipeline := postprocessors.NewPipeline(sentiment.New(afinn.New()), ids.New())
	SetServices(Services{
		Transcript: services.NewTranscriptService(
			services.NewNormaliserRegistry(plaintext.New()), pipeline, memory.NewTranscriptStore()),
		Analysis: services.NewAnalysisService(domain.DefaultAnalysisOptions()),
		Search:   services.NewSearchService(nil, domain.DefaultAppSettings().Search),
		Settings: services.NewSettingsService(memory.NewConfigStore(), nil),
	})

	return func() {
		transcriptService = oldTranscript
		analysisService = oldAnalysis
		searchService = oldSearch
		settingsService = oldSettings
		metricsHandler = oldMetrics
	}
}

// executeCommand runs the root command with args and returns its output.
func executeCommand(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		resetFlags()
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags() {
	analyzeJSON = false
	searchMode = ""
	searchLimit = 0
	searchJSON = false
	searchFiles = nil
	transcriptJSON = false
	transcriptShowLimit = 50
	transcriptSearchMode = ""
	transcriptSearchLimit = 0
	transcriptSearchJSON = false
	transcriptSearchIDs = nil
	analysisTopWords = 0
	analysisMinWordLength = 0
	analysisTopEmoji = 0
	watchImport = false
}

func writeExport(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
