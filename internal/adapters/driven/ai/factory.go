// Package ai provides factory functions for creating summarizer adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/chatlens/internal/adapters/driven/summarizer/anthropic"
	"github.com/custodia-labs/chatlens/internal/adapters/driven/summarizer/ollama"
	"github.com/custodia-labs/chatlens/internal/adapters/driven/summarizer/openai"
	"github.com/custodia-labs/chatlens/internal/adapters/driven/summarizer/ratelimited"
	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateAndValidateSummarizer creates a summarizer and validates connectivity.
// Returns nil without error when no provider is configured.
func CreateAndValidateSummarizer(settings *domain.SummarizerSettings) (driven.Summarizer, error) {
	svc, err := CreateSummarizer(settings)
	if err != nil {
		return nil, fmt.Errorf("%w: %w. Run 'chatlens settings summarizer' to fix",
			domain.ErrSummarizerUnavailable, err)
	}
	if svc == nil {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'chatlens settings summarizer' to fix",
			domain.ErrSummarizerUnavailable, err)
	}

	return svc, nil
}

// ValidateSummarizerConfig validates a configuration by creating a summarizer and pinging it.
// This is intended for the settings command to check credentials when they are saved.
func ValidateSummarizerConfig(settings *domain.SummarizerSettings) error {
	svc, err := CreateSummarizer(settings)
	if err != nil {
		return err
	}
	if svc == nil {
		return nil
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateSummarizer creates the summarizer for the configured provider,
// throttled when RequestsPerMinute is set.
// Returns nil if the provider is not configured.
func CreateSummarizer(settings *domain.SummarizerSettings) (driven.Summarizer, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}

	var (
		svc driven.Summarizer
		err error
	)
	switch settings.Provider {
	case domain.AIProviderOllama:
		svc = ollama.New(ollama.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	case domain.AIProviderOpenAI:
		svc, err = openai.New(openai.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	case domain.AIProviderAnthropic:
		svc, err = anthropic.New(anthropic.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
			Timeout: settings.Timeout,
		})

	default:
		return nil, fmt.Errorf("unsupported summarizer provider: %s", settings.Provider)
	}
	if err != nil {
		return nil, err
	}

	return ratelimited.Wrap(svc, settings.RequestsPerMinute), nil
}
