package driving

import (
	"context"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

// TranscriptService turns exports into messages and manages stored transcripts.
type TranscriptService interface {
	// Parse normalises and parses a file without storing it.
	Parse(ctx context.Context, raw *domain.RawFile) (*domain.Transcript, error)

	// Import parses a file and stores the resulting transcript.
	Import(ctx context.Context, raw *domain.RawFile) (*domain.Transcript, error)

	// Get retrieves a stored transcript by ID.
	Get(ctx context.Context, id string) (*domain.Transcript, error)

	// List returns summaries of all stored transcripts.
	List(ctx context.Context) ([]domain.TranscriptSummary, error)

	// Delete removes a stored transcript.
	Delete(ctx context.Context, id string) error

	// SupportedExtensions lists the file extensions that can be imported.
	SupportedExtensions() []string
}
