package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
	"github.com/custodia-labs/chatlens/internal/core/ports/driving"
	"github.com/custodia-labs/chatlens/internal/logger"
)

// Ensure SearchService implements the interface.
var _ driving.SearchService = (*SearchService)(nil)

// SearchService runs keyword, sentiment, financial and semantic searches
// over an in-memory message set.
type SearchService struct {
	summarizer     driven.Summarizer
	metrics        driven.Metrics
	financialLimit int
	semanticWindow int
	timeout        time.Duration
}

// NewSearchService creates a new search service.
// The summarizer is optional (can be nil); semantic searches then fall back
// to keyword search.
func NewSearchService(summarizer driven.Summarizer, settings domain.SearchSettings) *SearchService {
	if settings.FinancialLimit <= 0 {
		settings.FinancialLimit = domain.DefaultFinancialLimit
	}
	if settings.SemanticWindow <= 0 {
		settings.SemanticWindow = domain.DefaultSemanticWindow
	}
	return &SearchService{
		summarizer:     summarizer,
		financialLimit: settings.FinancialLimit,
		semanticWindow: settings.SemanticWindow,
		timeout:        domain.DefaultSummarizerTimeout,
	}
}

// SetMetrics sets the metrics recorder.
func (s *SearchService) SetMetrics(m driven.Metrics) {
	s.metrics = m
}

// SetSummarizerTimeout bounds each summarizer call.
func (s *SearchService) SetSummarizerTimeout(d time.Duration) {
	if d > 0 {
		s.timeout = d
	}
}

// FallbackChain returns the modes tried, in order, for a requested mode.
// Only the first mode can fail; later entries always succeed.
func FallbackChain(mode domain.SearchMode) []domain.SearchMode {
	switch mode {
	case domain.SearchModeSemantic:
		return []domain.SearchMode{domain.SearchModeSemantic, domain.SearchModeKeyword}
	default:
		return []domain.SearchMode{mode}
	}
}

// Search runs query against messages.
func (s *SearchService) Search(
	ctx context.Context, messages []domain.Message, query string,
	mode domain.SearchMode, opts domain.SearchOptions,
) (*domain.SearchResult, error) {
	logger.Section("Search Execution")
	logger.Debug("Query: %q, mode: %s, messages: %d", query, mode, len(messages))

	if messages == nil {
		return nil, domain.ErrMissingMessages
	}
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, domain.ErrEmptyQuery
	}
	if !mode.IsValid() {
		return nil, fmt.Errorf("%w: %q (valid modes: keyword, sentiment, financial, semantic)",
			domain.ErrInvalidMode, mode)
	}

	started := time.Now()
	var warnings []string
	var lastErr error

	for i, stage := range FallbackChain(mode) {
		logger.Info("Executing %s search", stage.Description())

		res, err := s.run(ctx, stage, messages, query)
		if err != nil {
			logger.Warn("%s search failed: %v", stage, err)
			warnings = append(warnings, fmt.Sprintf("%s search unavailable: %v", stage, err))
			lastErr = err
			continue
		}

		res.Query = query
		res.Warnings = warnings
		if i > 0 {
			res.FallbackFrom = mode
			logger.Info("Fell back from %s to %s search", mode, stage)
		}
		applyLimit(res, opts.Limit)

		if s.metrics != nil {
			s.metrics.ObserveSearch(res.Mode, res.FallbackFrom, res.TotalMatches, time.Since(started))
		}
		logger.Info("Final results: %d of %d", len(res.Messages), res.TotalMatches)
		return res, nil
	}

	return nil, fmt.Errorf("search: %w", lastErr)
}

// run executes a single mode without fallback.
func (s *SearchService) run(
	ctx context.Context, mode domain.SearchMode, messages []domain.Message, query string,
) (*domain.SearchResult, error) {
	switch mode {
	case domain.SearchModeKeyword:
		return keywordSearch(messages, query), nil
	case domain.SearchModeSentiment:
		return sentimentSearch(messages, query), nil
	case domain.SearchModeFinancial:
		return financialSearch(messages, s.financialLimit), nil
	case domain.SearchModeSemantic:
		return s.semanticSearch(ctx, messages, query)
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMode, mode)
	}
}

// keywordSearch matches messages containing any query token, in file order.
func keywordSearch(messages []domain.Message, query string) *domain.SearchResult {
	tokens := strings.Fields(strings.ToLower(query))
	matched := make([]domain.Message, 0)

	for i := range messages {
		body := strings.ToLower(messages[i].Body)
		for _, tok := range tokens {
			if strings.Contains(body, tok) {
				matched = append(matched, messages[i])
				break
			}
		}
	}

	return &domain.SearchResult{
		Mode:         domain.SearchModeKeyword,
		Messages:     matched,
		TotalMatches: len(matched),
		Summary: fmt.Sprintf("Found %d %s matching any of: %s",
			len(matched), plural(len(matched), "message"), strings.Join(tokens, ", ")),
	}
}

// sentimentSearch buckets scored messages. A query of "positive" or
// "negative" selects that bucket; anything else returns every scored message.
func sentimentSearch(messages []domain.Message, query string) *domain.SearchResult {
	var buckets domain.SentimentBuckets
	var positive, negative, all []domain.Message

	for i := range messages {
		sent := messages[i].Sentiment
		if sent == nil {
			continue
		}
		all = append(all, messages[i])
		switch {
		case sent.Score > 0:
			buckets.Positive++
			positive = append(positive, messages[i])
		case sent.Score < 0:
			buckets.Negative++
			negative = append(negative, messages[i])
		default:
			buckets.Neutral++
		}
	}

	res := &domain.SearchResult{Mode: domain.SearchModeSentiment, Sentiment: &buckets}
	switch strings.ToLower(query) {
	case "positive":
		res.Messages = positive
		res.Summary = fmt.Sprintf("Found %d positive %s", len(positive), plural(len(positive), "message"))
	case "negative":
		res.Messages = negative
		res.Summary = fmt.Sprintf("Found %d negative %s", len(negative), plural(len(negative), "message"))
	default:
		res.Messages = all
		res.Summary = fmt.Sprintf("%d positive, %d negative and %d neutral messages",
			buckets.Positive, buckets.Negative, buckets.Neutral)
	}
	if res.Messages == nil {
		res.Messages = []domain.Message{}
	}
	res.TotalMatches = len(res.Messages)
	return res
}

// financialSearch ranks money-related messages and keeps the top limit.
func financialSearch(messages []domain.Message, limit int) *domain.SearchResult {
	mentions := rankFinancial(messages)
	total := len(mentions)
	if len(mentions) > limit {
		mentions = mentions[:limit]
	}

	res := &domain.SearchResult{
		Mode:         domain.SearchModeFinancial,
		Mentions:     mentions,
		Messages:     make([]domain.Message, len(mentions)),
		TotalMatches: total,
	}
	for i := range mentions {
		res.Messages[i] = mentions[i].Message
	}

	switch {
	case total == 0:
		res.Summary = fmt.Sprintf("No financial mentions found in %d %s",
			len(messages), plural(len(messages), "message"))
	case total > len(mentions):
		res.Summary = fmt.Sprintf("Found %d financial mentions, showing the top %d", total, len(mentions))
	default:
		res.Summary = fmt.Sprintf("Found %d financial %s", total, plural(total, "mention"))
	}
	return res
}

// semanticSearch sends a bounded window of messages to the summarizer.
func (s *SearchService) semanticSearch(
	ctx context.Context, messages []domain.Message, query string,
) (*domain.SearchResult, error) {
	if s.summarizer == nil {
		return nil, domain.ErrSummarizerUnavailable
	}

	window := messages
	if len(window) > s.semanticWindow {
		window = window[:s.semanticWindow]
	}
	logger.Debug("Semantic window: %d of %d messages, timeout %s", len(window), len(messages), s.timeout)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	analysis, err := s.summarizer.Summarize(ctx, window, query)
	if s.metrics != nil {
		s.metrics.ObserveSummarizer(s.summarizer.ModelName(), err, time.Since(started))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrAnalysisFailed, err)
	}
	analysis = strings.TrimSpace(analysis)
	if analysis == "" {
		return nil, fmt.Errorf("%w: empty response from %s", domain.ErrAnalysisFailed, s.summarizer.ModelName())
	}

	return &domain.SearchResult{
		Mode:     domain.SearchModeSemantic,
		Messages: []domain.Message{},
		Analysis: analysis,
		Summary: fmt.Sprintf("AI analysis of %d %s using %s",
			len(window), plural(len(window), "message"), s.summarizer.ModelName()),
	}, nil
}

// applyLimit truncates returned messages; TotalMatches is left unchanged.
func applyLimit(res *domain.SearchResult, limit int) {
	if limit <= 0 {
		return
	}
	if len(res.Messages) > limit {
		res.Messages = res.Messages[:limit]
	}
	if len(res.Mentions) > limit {
		res.Mentions = res.Mentions[:limit]
	}
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
