package services

import (
	"context"
	"sync"
	"time"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

// mockSummarizer implements driven.Summarizer for testing.
type mockSummarizer struct {
	response string
	err      error
	delay    time.Duration

	calls      int
	lastWindow int
	lastQuery  string
}

func (m *mockSummarizer) Summarize(ctx context.Context, messages []domain.Message, query string) (string, error) {
	m.calls++
	m.lastWindow = len(messages)
	m.lastQuery = query
	if m.delay > 0 {
		select {
		case <-time.After(m.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return m.response, m.err
}

func (m *mockSummarizer) ModelName() string {
	return "mock-summarizer"
}

func (m *mockSummarizer) Ping(_ context.Context) error {
	return m.err
}

func (m *mockSummarizer) Close() error {
	return nil
}

// mockMetrics implements driven.Metrics for testing.
type mockMetrics struct {
	mu          sync.Mutex
	parses      []string
	searches    []domain.SearchMode
	fallbacks   []domain.SearchMode
	summarizers []error
}

func (m *mockMetrics) ObserveParse(format string, _ int, _ []domain.ParseAnomaly, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parses = append(m.parses, format)
}

func (m *mockMetrics) ObserveSearch(mode, fallbackFrom domain.SearchMode, _ int, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches = append(m.searches, mode)
	m.fallbacks = append(m.fallbacks, fallbackFrom)
}

func (m *mockMetrics) ObserveSummarizer(_ string, err error, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.summarizers = append(m.summarizers, err)
}

// stubNormaliser implements driven.Normaliser for testing.
type stubNormaliser struct {
	name     string
	exts     []string
	mimes    []string
	priority int
	result   *driven.NormaliseResult
	err      error
}

func (s *stubNormaliser) Name() string                  { return s.name }
func (s *stubNormaliser) SupportedExtensions() []string { return s.exts }
func (s *stubNormaliser) SupportedMIMETypes() []string  { return s.mimes }
func (s *stubNormaliser) Priority() int                 { return s.priority }

func (s *stubNormaliser) Normalise(_ context.Context, raw *domain.RawFile) (*driven.NormaliseResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.result != nil {
		return s.result, nil
	}
	return &driven.NormaliseResult{Text: string(raw.Content)}, nil
}

// textNormaliser passes .txt content through unchanged.
func textNormaliser() *stubNormaliser {
	return &stubNormaliser{name: "whatsapp-text", exts: []string{".txt"}, mimes: []string{"text/plain"}, priority: 50}
}

// at returns a UTC timestamp on 15 January 2025.
func at(hour, minute int) time.Time {
	return time.Date(2025, 1, 15, hour, minute, 0, 0, time.UTC)
}

// textMessage builds a text message, scored when score is non-nil.
func textMessage(ts time.Time, sender, body string, score *float64) domain.Message {
	m := domain.Message{Timestamp: ts, Sender: sender, Body: body, Type: domain.MessageTypeText}
	if score != nil {
		m.Sentiment = &domain.Sentiment{Score: *score}
	}
	return m
}

func ptr[T any](v T) *T {
	return &v
}
