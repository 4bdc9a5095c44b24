package cli

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [file] [query]", searchCmd.Use)
}

func TestSearchCmd_Flags(t *testing.T) {
	mode := searchCmd.Flags().Lookup("mode")
	require.NotNil(t, mode)
	assert.Equal(t, "m", mode.Shorthand)
	assert.Empty(t, mode.DefValue)

	limit := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, limit)
	assert.Equal(t, "n", limit.Shorthand)
	assert.Equal(t, "0", limit.DefValue)

	assert.NotNil(t, searchCmd.Flags().Lookup("json"))

	file := searchCmd.Flags().Lookup("file")
	require.NotNil(t, file)
	assert.Equal(t, "f", file.Shorthand)
	assert.Equal(t, "stringArray", file.Value.Type())
}

func TestSearchCmd_RequiresFileAndQuery(t *testing.T) {
	_, err := executeCommand(t, "", "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")

	_, err = executeCommand(t, "", "search", "chat.txt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing search query")
}

func TestSearchCmd_Keyword(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeExport(t, "family.txt", sampleChat)

	out, err := executeCommand(t, "", "search", path, "DINNER", "morning")

	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 messages matching any of: dinner, morning")
	assert.Contains(t, out, "Alice: Good morning everyone!")
	assert.Contains(t, out, "Bob: I paid $50 for the dinner")
	assert.NotContains(t, out, "Carol")
}

func TestSearchCmd_MultipleFiles(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	first := writeExport(t, "family.txt", sampleChat)
	second := writeExport(t, "rent.txt", laterChat)

	out, err := executeCommand(t, "", "search", "-f", second, "--file", first, "dinner", "rent")

	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 messages matching any of: dinner, rent")
	rent := strings.Index(out, "Bob: Rent is due on Friday")
	dinner := strings.Index(out, "Bob: I paid $50 for the dinner")
	require.GreaterOrEqual(t, rent, 0)
	require.GreaterOrEqual(t, dinner, 0)
	assert.Less(t, rent, dinner, "messages keep flag order")
}

func TestSearchCmd_MultipleFilesWithoutQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	first := writeExport(t, "family.txt", sampleChat)
	second := writeExport(t, "rent.txt", laterChat)

	_, err := executeCommand(t, "", "search", "-f", first, "-f", second)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing search query")
}

func TestSearchCmd_FileFlagTakesAllArgsAsQuery(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeExport(t, "family.txt", sampleChat)

	out, err := executeCommand(t, "", "search", "-f", path, "terrible", "morning")

	require.NoError(t, err)
	assert.Contains(t, out, "Found 2 messages matching any of: terrible, morning")
}

func TestSearchCmd_NoResults(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeExport(t, "family.txt", sampleChat)

	out, err := executeCommand(t, "", "search", path, "holiday")

	require.NoError(t, err)
	assert.Contains(t, out, "Found 0 messages")
	assert.Contains(t, out, "No results found.")
}

func TestSearchCmd_Financial(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeExport(t, "family.txt", sampleChat)

	out, err := executeCommand(t, "", "search", "--mode", "financial", path, "money")

	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 financial mention")
	assert.Contains(t, out, "Bob: I paid $50 for the dinner")
	assert.Contains(t, out, "$50")
}

func TestSearchCmd_Sentiment(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeExport(t, "family.txt", sampleChat)

	out, err := executeCommand(t, "", "search", "-m", "sentiment", path, "negative")

	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 negative message")
	assert.Contains(t, out, "Carol: This is terrible news")
	assert.Contains(t, out, "sentiment -")
}

func TestSearchCmd_SemanticFallsBackToKeyword(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeExport(t, "family.txt", sampleChat)

	out, err := executeCommand(t, "", "search", "--mode", "semantic", path, "dinner")

	require.NoError(t, err)
	assert.Contains(t, out, "semantic search unavailable, used keyword search instead.")
	assert.Contains(t, out, "note: semantic search unavailable")
	assert.Contains(t, out, "Found 1 message matching any of: dinner")
}

func TestSearchCmd_InvalidMode(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeExport(t, "family.txt", sampleChat)

	_, err := executeCommand(t, "", "search", "--mode", "fuzzy", path, "dinner")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidMode)
	assert.Contains(t, err.Error(), "choose from keyword, sentiment, financial, semantic")
}

func TestSearchCmd_UsesConfiguredDefaultMode(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	require.NoError(t, settingsService.SetDefaultSearchMode(domain.SearchModeFinancial))
	path := writeExport(t, "family.txt", sampleChat)

	out, err := executeCommand(t, "", "search", path, "anything")

	require.NoError(t, err)
	assert.Contains(t, out, "Found 1 financial mention")
}

func TestSearchCmd_LimitAndJSON(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()

	path := writeExport(t, "family.txt", sampleChat)

	out, err := executeCommand(t, "", "search", "--json", "--limit", "1", path, "dinner", "morning")
	require.NoError(t, err)

	var res domain.SearchResult
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, domain.SearchModeKeyword, res.Mode)
	assert.Equal(t, "dinner morning", res.Query)
	assert.Equal(t, 2, res.TotalMatches)
	require.Len(t, res.Messages, 1)
	assert.Equal(t, "Alice", res.Messages[0].Sender)
}

func TestSearchCmd_ServiceNotConfigured(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	searchService = nil

	path := writeExport(t, "family.txt", sampleChat)

	_, err := executeCommand(t, "", "search", path, "dinner")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "search service not configured")
}

func TestResolveMode(t *testing.T) {
	old := settingsService
	settingsService = nil
	defer func() { settingsService = old }()

	tests := []struct {
		flag    string
		want    domain.SearchMode
		wantErr bool
	}{
		{"", domain.SearchModeKeyword, false},
		{"keyword", domain.SearchModeKeyword, false},
		{" Financial ", domain.SearchModeFinancial, false},
		{"SEMANTIC", domain.SearchModeSemantic, false},
		{"sentiment", domain.SearchModeSentiment, false},
		{"vector", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.flag, func(t *testing.T) {
			got, err := resolveMode(tt.flag)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrInvalidMode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
