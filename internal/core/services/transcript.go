package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
	"github.com/custodia-labs/chatlens/internal/core/ports/driving"
	"github.com/custodia-labs/chatlens/internal/logger"
	"github.com/custodia-labs/chatlens/internal/parser"
)

// Ensure TranscriptService implements the interface.
var _ driving.TranscriptService = (*TranscriptService)(nil)

// errStoreNotConfigured is returned by storage operations without a store.
var errStoreNotConfigured = errors.New("transcript store not configured")

// TranscriptService normalises, parses, enriches and stores chat exports.
type TranscriptService struct {
	registry driven.NormaliserRegistry
	pipeline driven.MessagePipeline
	store    driven.TranscriptStore
	metrics  driven.Metrics
	now      func() time.Time
}

// NewTranscriptService creates a new transcript service.
// The pipeline and store are optional (can be nil).
func NewTranscriptService(
	registry driven.NormaliserRegistry,
	pipeline driven.MessagePipeline,
	store driven.TranscriptStore,
) *TranscriptService {
	return &TranscriptService{
		registry: registry,
		pipeline: pipeline,
		store:    store,
		now:      time.Now,
	}
}

// SetMetrics sets the metrics recorder.
func (s *TranscriptService) SetMetrics(m driven.Metrics) {
	s.metrics = m
}

// SetClock replaces the clock used for import timestamps.
func (s *TranscriptService) SetClock(now func() time.Time) {
	s.now = now
}

// Parse normalises and parses raw without storing it.
func (s *TranscriptService) Parse(ctx context.Context, raw *domain.RawFile) (*domain.Transcript, error) {
	logger.Section("Transcript Parse")
	if raw == nil {
		return nil, domain.ErrEmptyInput
	}
	logger.Debug("File: %s (%d bytes)", raw.Name, len(raw.Content))

	started := time.Now()

	norm, format, err := s.registry.Normalise(ctx, raw)
	if err != nil {
		return nil, err
	}

	var messages []domain.Message
	anomalies := []domain.ParseAnomaly{}

	if norm.Structured {
		logger.Debug("Structured export: %d messages bypass the line parser", len(norm.Messages))
		messages = norm.Messages
	} else {
		res, err := parser.Parse(ctx, strings.NewReader(norm.Text))
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", raw.Name, err)
		}
		messages = res.Messages
		anomalies = res.Anomalies
		logger.Debug("Parser: %d lines, %d discarded", res.LinesRead, res.DiscardedLines)
	}
	if messages == nil {
		messages = []domain.Message{}
	}

	if s.pipeline != nil {
		messages, err = s.pipeline.Process(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("process messages: %w", err)
		}
	}

	if s.metrics != nil {
		s.metrics.ObserveParse(format, len(messages), anomalies, time.Since(started))
	}
	logger.Info("Parsed %s: %d messages, %d anomalies", raw.Name, len(messages), len(anomalies))
	for _, a := range anomalies {
		logger.Debug("Anomaly line %d (%s): %s", a.Line, a.Kind, a.Reason)
	}

	return &domain.Transcript{
		ID:         uuid.NewString(),
		Name:       raw.Name,
		Format:     format,
		ImportedAt: s.now().UTC(),
		Messages:   messages,
		Anomalies:  anomalies,
	}, nil
}

// Import parses raw and stores the resulting transcript.
func (s *TranscriptService) Import(ctx context.Context, raw *domain.RawFile) (*domain.Transcript, error) {
	if s.store == nil {
		return nil, errStoreNotConfigured
	}

	t, err := s.Parse(ctx, raw)
	if err != nil {
		return nil, err
	}

	if err := s.store.Save(ctx, t); err != nil {
		return nil, fmt.Errorf("save transcript: %w", err)
	}
	logger.Info("Imported transcript %s (%s)", t.ID, t.Name)
	return t, nil
}

// Get retrieves a stored transcript by ID.
func (s *TranscriptService) Get(ctx context.Context, id string) (*domain.Transcript, error) {
	if s.store == nil {
		return nil, errStoreNotConfigured
	}
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: transcript id is required", domain.ErrInvalidInput)
	}
	return s.store.Get(ctx, id)
}

// List returns summaries of all stored transcripts.
func (s *TranscriptService) List(ctx context.Context) ([]domain.TranscriptSummary, error) {
	if s.store == nil {
		return nil, errStoreNotConfigured
	}
	return s.store.List(ctx)
}

// Delete removes a stored transcript.
func (s *TranscriptService) Delete(ctx context.Context, id string) error {
	if s.store == nil {
		return errStoreNotConfigured
	}
	if strings.TrimSpace(id) == "" {
		return fmt.Errorf("%w: transcript id is required", domain.ErrInvalidInput)
	}
	return s.store.Delete(ctx, id)
}

// SupportedExtensions lists the file extensions that can be imported.
func (s *TranscriptService) SupportedExtensions() []string {
	return s.registry.SupportedExtensions()
}
