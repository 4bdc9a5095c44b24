package driven

import (
	"context"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

// Summarizer answers a free-form question about a set of messages.
// This is an optional service - when nil, semantic search falls back to keyword search.
//
// Implementations may include:
//   - OpenAI
//   - Anthropic (Claude)
//   - Ollama (local models)
type Summarizer interface {
	// Summarize returns prose analysis of messages with respect to query.
	Summarize(ctx context.Context, messages []domain.Message, query string) (string, error)

	// ModelName returns the name of the model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// SummarizerValidator validates summarizer configurations by testing connectivity.
type SummarizerValidator interface {
	// ValidateSummarizer pings the configured provider.
	// Returns nil if the configuration is valid or not configured.
	ValidateSummarizer(config *domain.SummarizerSettings) error
}
