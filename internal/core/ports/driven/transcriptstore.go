package driven

import (
	"context"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

// TranscriptStore persists imported transcripts and their messages.
type TranscriptStore interface {
	// Save stores or replaces a transcript with all of its messages.
	Save(ctx context.Context, transcript *domain.Transcript) error

	// Get retrieves a transcript by ID, messages in file order.
	// Returns domain.ErrNotFound if it does not exist.
	Get(ctx context.Context, id string) (*domain.Transcript, error)

	// List returns summaries of all transcripts, newest import first.
	List(ctx context.Context) ([]domain.TranscriptSummary, error)

	// Delete removes a transcript and its messages.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id string) error
}
