package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

var testMessages = []domain.Message{
	{
		ID:        "m1",
		Timestamp: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
		Sender:    "Alice",
		Body:      "I paid $50 for dinner",
		Type:      domain.MessageTypeText,
		Sentiment: &domain.Sentiment{Score: 2, Comparative: 0.4},
	},
	{
		ID:        "m2",
		Timestamp: time.Date(2025, 1, 15, 10, 31, 0, 0, time.UTC),
		Sender:    "Bob",
		Body:      "<Media omitted>",
		Type:      domain.MessageTypeMedia,
	},
}

// mockTranscriptService is a mock implementation of driving.TranscriptService.
type mockTranscriptService struct {
	transcript *domain.Transcript
	summaries  []domain.TranscriptSummary
	err        error

	// byID, when set, serves Get per ID and reports unknown IDs as not found.
	byID map[string]*domain.Transcript

	parsed       *domain.RawFile
	requested    string
	requestedIDs []string
}

func (m *mockTranscriptService) Parse(_ context.Context, raw *domain.RawFile) (*domain.Transcript, error) {
	m.parsed = raw
	return m.transcript, m.err
}

func (m *mockTranscriptService) Import(_ context.Context, raw *domain.RawFile) (*domain.Transcript, error) {
	m.parsed = raw
	return m.transcript, m.err
}

func (m *mockTranscriptService) Get(_ context.Context, id string) (*domain.Transcript, error) {
	m.requested = id
	m.requestedIDs = append(m.requestedIDs, id)
	if m.byID != nil {
		t, ok := m.byID[id]
		if !ok {
			return nil, domain.ErrNotFound
		}
		return t, nil
	}
	return m.transcript, m.err
}

func (m *mockTranscriptService) List(_ context.Context) ([]domain.TranscriptSummary, error) {
	return m.summaries, m.err
}

func (m *mockTranscriptService) Delete(_ context.Context, _ string) error {
	return m.err
}

func (m *mockTranscriptService) SupportedExtensions() []string {
	return []string{".txt"}
}

// mockAnalysisService is a mock implementation of driving.AnalysisService.
type mockAnalysisService struct {
	result   *domain.AnalysisResult
	received []domain.Message
}

func (m *mockAnalysisService) Analyze(messages []domain.Message) *domain.AnalysisResult {
	m.received = messages
	if m.result != nil {
		return m.result
	}
	return &domain.AnalysisResult{TotalMessages: len(messages)}
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	result *domain.SearchResult
	err    error

	query    string
	mode     domain.SearchMode
	opts     domain.SearchOptions
	received []domain.Message
}

func (m *mockSearchService) Search(
	_ context.Context,
	messages []domain.Message,
	query string,
	mode domain.SearchMode,
	opts domain.SearchOptions,
) (*domain.SearchResult, error) {
	m.received = messages
	m.query = query
	m.mode = mode
	m.opts = opts
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.SearchResult{Mode: mode, Query: query, Messages: []domain.Message{}}, nil
}

// mockSettingsService is a mock implementation of driving.SettingsService.
type mockSettingsService struct {
	settings domain.AppSettings
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(_ *domain.AppSettings) error { return nil }

func (m *mockSettingsService) SetSummarizer(_ domain.AIProvider, _, _ string) error { return nil }

func (m *mockSettingsService) SetAnalysis(_ domain.AnalysisOptions) error { return nil }

func (m *mockSettingsService) SetDefaultSearchMode(mode domain.SearchMode) error {
	m.settings.Search.DefaultMode = mode
	return nil
}

func (m *mockSettingsService) Validate() error { return nil }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) ValidateSummarizerConfig() error { return nil }

func newTestPorts() (*Ports, *mockTranscriptService, *mockSearchService) {
	transcripts := &mockTranscriptService{
		transcript: &domain.Transcript{ID: "t1", Name: "chat.txt", Format: "whatsapp-text", Messages: testMessages},
	}
	search := &mockSearchService{}
	return &Ports{
		Transcript: transcripts,
		Analysis:   &mockAnalysisService{},
		Search:     search,
	}, transcripts, search
}
