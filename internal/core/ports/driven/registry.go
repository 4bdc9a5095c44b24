package driven

import (
	"context"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

// NormaliserRegistry selects the appropriate normaliser for a file.
// It dispatches on extension first, then MIME type, preferring higher priority.
type NormaliserRegistry interface {
	// Normalise converts the file with the best matching normaliser.
	// Returns domain.ErrUnsupportedFormat when nothing matches.
	Normalise(ctx context.Context, raw *domain.RawFile) (*NormaliseResult, string, error)

	// Register adds a normaliser to the registry.
	Register(normaliser Normaliser)

	// SupportedExtensions returns every extension that can be normalised, sorted.
	SupportedExtensions() []string
}
