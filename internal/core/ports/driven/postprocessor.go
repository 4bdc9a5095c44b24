package driven

import (
	"context"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

// MessageProcessor enriches parsed messages, e.g. by scoring sentiment or
// assigning IDs. Processors return a new slice and must not reorder messages.
type MessageProcessor interface {
	// Name identifies the processor in configuration.
	Name() string

	// Process returns the enriched messages.
	Process(ctx context.Context, messages []domain.Message) ([]domain.Message, error)
}

// MessagePipeline runs processors in order.
type MessagePipeline interface {
	Process(ctx context.Context, messages []domain.Message) ([]domain.Message, error)
}
