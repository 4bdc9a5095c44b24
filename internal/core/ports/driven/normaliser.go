package driven

import (
	"context"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

// Normaliser converts an uploaded export into something the parser can consume.
// Text formats produce transcript text; structured formats produce messages directly.
type Normaliser interface {
	// Name identifies the normaliser, recorded as the transcript format.
	Name() string

	// SupportedExtensions returns lowercased extensions including the dot.
	SupportedExtensions() []string

	// SupportedMIMETypes returns the MIME types this normaliser handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	Priority() int

	// Normalise converts the raw file.
	Normalise(ctx context.Context, raw *domain.RawFile) (*NormaliseResult, error)
}

// NormaliseResult contains the output of normalisation.
// Exactly one of Text or Messages is meaningful, selected by Structured.
type NormaliseResult struct {
	// Text is transcript text in the line-oriented export format.
	Text string

	// Messages are pre-built messages from structured formats.
	// They bypass the line classifier and type classification.
	Messages []domain.Message

	// Structured is true when Messages holds the result.
	Structured bool
}
