// Package ids provides a processor that assigns message IDs.
package ids

import (
	"context"

	"github.com/google/uuid"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

// Name is the configuration name of the processor.
const Name = "ids"

// Ensure Processor implements the interface.
var _ driven.MessageProcessor = (*Processor)(nil)

// Processor gives every message without an ID a random UUID.
type Processor struct {
	newID func() string
}

// New creates an ID processor.
func New() *Processor {
	return &Processor{newID: uuid.NewString}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process assigns IDs. Messages that already have one keep it.
func (p *Processor) Process(_ context.Context, messages []domain.Message) ([]domain.Message, error) {
	out := make([]domain.Message, len(messages))
	copy(out, messages)
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = p.newID()
		}
	}
	return out, nil
}
