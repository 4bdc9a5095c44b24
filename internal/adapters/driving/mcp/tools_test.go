package mcp

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

func TestServer_handleAnalyze(t *testing.T) {
	ctx := context.Background()

	t.Run("parses inline content", func(t *testing.T) {
		ports, transcripts, _ := newTestPorts()
		analysis := &mockAnalysisService{result: &domain.AnalysisResult{
			TotalMessages:      2,
			Participants:       []string{"Alice", "Bob"},
			HourlyDistribution: map[int]int{10: 2},
			DateRange: domain.DateRange{
				Start: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
				End:   time.Date(2025, 1, 15, 10, 31, 0, 0, time.UTC),
			},
		}}
		ports.Analysis = analysis
		transcripts.transcript.Anomalies = []domain.ParseAnomaly{{Line: 3}}

		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleAnalyze(ctx, nil, AnalyzeInput{Content: "[1/15/2025, 10:30:00] Alice: hi"})

		require.NoError(t, err)
		require.NotNil(t, transcripts.parsed)
		assert.Equal(t, defaultFileName, transcripts.parsed.Name)
		assert.Equal(t, ".txt", transcripts.parsed.Extension)
		assert.Equal(t, testMessages, analysis.received)
		assert.Equal(t, 2, output.TotalMessages)
		assert.Equal(t, map[string]int{"10": 2}, output.HourlyDistribution)
		assert.Equal(t, "2025-01-15T10:30:00Z", output.Start)
		assert.Equal(t, 1, output.Anomalies)
		assert.NotNil(t, output.TopWords)
		assert.NotNil(t, output.TopEmoji)
	})

	t.Run("uses file name for format detection", func(t *testing.T) {
		ports, transcripts, _ := newTestPorts()
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleAnalyze(ctx, nil, AnalyzeInput{Content: "sender,message", FileName: "export.csv"})

		require.NoError(t, err)
		assert.Equal(t, ".csv", transcripts.parsed.Extension)
	})

	t.Run("loads stored transcript", func(t *testing.T) {
		ports, transcripts, _ := newTestPorts()
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleAnalyze(ctx, nil, AnalyzeInput{TranscriptID: "t1", Content: "ignored"})

		require.NoError(t, err)
		assert.Equal(t, "t1", transcripts.requested)
		assert.Nil(t, transcripts.parsed)
		assert.Equal(t, 2, output.TotalMessages)
	})

	t.Run("combines several stored transcripts in order", func(t *testing.T) {
		ports, transcripts, _ := newTestPorts()
		analysis := &mockAnalysisService{}
		ports.Analysis = analysis
		march := &domain.Transcript{
			ID: "march", Name: "march.txt", Format: "plaintext",
			Messages: []domain.Message{
				{Sender: "Bob", Body: "rent", Timestamp: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)},
			},
			Anomalies: []domain.ParseAnomaly{{Line: 2, Kind: domain.AnomalyInvalidTimestamp}},
		}
		january := &domain.Transcript{
			ID: "january", Name: "january.txt", Format: "plaintext",
			Messages: []domain.Message{
				{Sender: "Alice", Body: "hi", Timestamp: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)},
				{Sender: "Bob", Body: "hello", Timestamp: time.Date(2025, 1, 1, 9, 5, 0, 0, time.UTC)},
			},
		}
		transcripts.byID = map[string]*domain.Transcript{"march": march, "january": january}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleAnalyze(ctx, nil, AnalyzeInput{
			TranscriptID:  "march",
			TranscriptIDs: []string{"january", " "},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"march", "january"}, transcripts.requestedIDs)
		require.Len(t, analysis.received, 3)
		assert.Equal(t, "rent", analysis.received[0].Body)
		assert.Equal(t, "hi", analysis.received[1].Body)
		assert.Equal(t, 3, output.TotalMessages)
		assert.Equal(t, 1, output.Anomalies)
		require.Len(t, output.Sources, 2)
		assert.Equal(t, "march.txt", output.Sources[0].Name)
		assert.Equal(t, 1, output.Sources[0].Messages)
		assert.Equal(t, "january.txt", output.Sources[1].Name)
		assert.Equal(t, 2, output.Sources[1].Participants)
		assert.Equal(t, "2025-01-01T09:00:00Z", output.Sources[1].FirstMessage)
	})

	t.Run("unknown transcript among several is not found", func(t *testing.T) {
		ports, transcripts, _ := newTestPorts()
		transcripts.byID = map[string]*domain.Transcript{"a": {ID: "a"}}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleAnalyze(ctx, nil, AnalyzeInput{TranscriptIDs: []string{"a", "b"}})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("missing source is a validation error", func(t *testing.T) {
		ports, _, _ := newTestPorts()
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleAnalyze(ctx, nil, AnalyzeInput{Content: "   "})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmptyInput)
	})

	t.Run("not found passes through", func(t *testing.T) {
		ports, transcripts, _ := newTestPorts()
		transcripts.err = domain.ErrNotFound
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleAnalyze(ctx, nil, AnalyzeInput{TranscriptID: "missing"})

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("internal failure is generic", func(t *testing.T) {
		ports, transcripts, _ := newTestPorts()
		transcripts.err = errors.New("disk I/O error")
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleAnalyze(ctx, nil, AnalyzeInput{TranscriptID: "t1"})

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrRequestFailed)
		assert.NotContains(t, err.Error(), "disk")
	})
}

func TestServer_handleSearch(t *testing.T) {
	ctx := context.Background()

	t.Run("returns search results", func(t *testing.T) {
		ports, _, search := newTestPorts()
		search.result = &domain.SearchResult{
			Mode:         domain.SearchModeFinancial,
			Query:        "money",
			Messages:     testMessages[:1],
			TotalMatches: 1,
			Summary:      "Found 1 financial mention",
			Mentions: []domain.FinancialMention{
				{Message: testMessages[0], Score: 5, Keywords: []string{"currency"}, Amounts: []string{"$50"}},
			},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{
			TranscriptID: "t1", Query: "money", Mode: " Financial ", Limit: 5,
		})

		require.NoError(t, err)
		assert.Equal(t, domain.SearchModeFinancial, search.mode)
		assert.Equal(t, 5, search.opts.Limit)
		assert.Equal(t, "financial", output.Mode)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "Alice", output.Messages[0].Sender)
		assert.Equal(t, "2025-01-15T10:30:00Z", output.Messages[0].Timestamp)
		assert.InDelta(t, 0.4, output.Messages[0].Sentiment, 1e-9)
		require.Len(t, output.Mentions, 1)
		assert.Equal(t, []string{"$50"}, output.Mentions[0].Amounts)
	})

	t.Run("searches several stored transcripts in order", func(t *testing.T) {
		ports, transcripts, search := newTestPorts()
		transcripts.byID = map[string]*domain.Transcript{
			"b": {ID: "b", Messages: []domain.Message{{Sender: "Bob", Body: "second file"}}},
			"a": {ID: "a", Messages: []domain.Message{{Sender: "Bob", Body: "first file"}}},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{TranscriptIDs: []string{"a", "b"}, Query: "file"})

		require.NoError(t, err)
		require.Len(t, search.received, 2)
		assert.Equal(t, "first file", search.received[0].Body)
		assert.Equal(t, "second file", search.received[1].Body)
	})

	t.Run("reports fallback", func(t *testing.T) {
		ports, _, search := newTestPorts()
		search.result = &domain.SearchResult{
			Mode:         domain.SearchModeKeyword,
			FallbackFrom: domain.SearchModeSemantic,
			Query:        "dinner",
			Warnings:     []string{"semantic search unavailable"},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleSearch(ctx, nil, SearchInput{TranscriptID: "t1", Query: "dinner", Mode: "semantic"})

		require.NoError(t, err)
		assert.Equal(t, "keyword", output.Mode)
		assert.Equal(t, "semantic", output.FallbackFrom)
		assert.NotNil(t, output.Messages)
		assert.Len(t, output.Warnings, 1)
	})

	t.Run("default mode without settings is keyword", func(t *testing.T) {
		ports, _, search := newTestPorts()
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{TranscriptID: "t1", Query: "hi"})

		require.NoError(t, err)
		assert.Equal(t, domain.SearchModeKeyword, search.mode)
	})

	t.Run("default mode from settings", func(t *testing.T) {
		ports, _, search := newTestPorts()
		settings := &mockSettingsService{settings: domain.DefaultAppSettings()}
		require.NoError(t, settings.SetDefaultSearchMode(domain.SearchModeSentiment))
		ports.Settings = settings
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{TranscriptID: "t1", Query: "hi"})

		require.NoError(t, err)
		assert.Equal(t, domain.SearchModeSentiment, search.mode)
	})

	t.Run("validation error passes through", func(t *testing.T) {
		ports, _, search := newTestPorts()
		search.err = fmt.Errorf("search: %w", domain.ErrEmptyQuery)
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, _, err = server.handleSearch(ctx, nil, SearchInput{TranscriptID: "t1"})

		require.Error(t, err)
		assert.ErrorIs(t, err, domain.ErrEmptyQuery)
	})
}

func TestServer_handleList(t *testing.T) {
	ctx := context.Background()

	t.Run("lists transcripts", func(t *testing.T) {
		ports, transcripts, _ := newTestPorts()
		transcripts.summaries = []domain.TranscriptSummary{
			{
				ID:               "t1",
				Name:             "family.txt",
				Format:           "whatsapp-text",
				ImportedAt:       time.Date(2025, 2, 1, 12, 0, 0, 0, time.UTC),
				MessageCount:     10,
				ParticipantCount: 3,
			},
		}
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleList(ctx, nil, ListInput{})

		require.NoError(t, err)
		assert.Equal(t, 1, output.Count)
		assert.Equal(t, "family.txt", output.Transcripts[0].Name)
		assert.Equal(t, "2025-02-01T12:00:00Z", output.Transcripts[0].ImportedAt)
		assert.Empty(t, output.Transcripts[0].FirstMessage)
	})

	t.Run("empty store", func(t *testing.T) {
		ports, _, _ := newTestPorts()
		server, err := NewServer(ports)
		require.NoError(t, err)

		_, output, err := server.handleList(ctx, nil, ListInput{})

		require.NoError(t, err)
		assert.Zero(t, output.Count)
		assert.NotNil(t, output.Transcripts)
	})
}
