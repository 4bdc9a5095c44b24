// Package postprocessors provides message enrichment stages run after parsing.
package postprocessors

import (
	"context"
	"fmt"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

// Ensure Pipeline implements the interface.
var _ driven.MessagePipeline = (*Pipeline)(nil)

// Pipeline chains multiple MessageProcessors and runs them in order.
type Pipeline struct {
	processors []driven.MessageProcessor
}

// NewPipeline creates a new processing pipeline with the given processors.
// Processors are executed in the order provided.
func NewPipeline(processors ...driven.MessageProcessor) *Pipeline {
	return &Pipeline{
		processors: processors,
	}
}

// Process runs the messages through all processors in order.
func (p *Pipeline) Process(ctx context.Context, messages []domain.Message) ([]domain.Message, error) {
	if messages == nil {
		return nil, fmt.Errorf("messages are nil")
	}

	for _, processor := range p.processors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out, err := processor.Process(ctx, messages)
		if err != nil {
			return nil, fmt.Errorf("processor %s: %w", processor.Name(), err)
		}
		if len(out) != len(messages) {
			return nil, fmt.Errorf("processor %s changed message count from %d to %d",
				processor.Name(), len(messages), len(out))
		}
		messages = out
	}

	return messages, nil
}

// Add appends a processor to the pipeline.
func (p *Pipeline) Add(processor driven.MessageProcessor) {
	p.processors = append(p.processors, processor)
}

// Len returns the number of processors in the pipeline.
func (p *Pipeline) Len() int {
	return len(p.processors)
}

// Names returns the processor names in execution order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.processors))
	for i, proc := range p.processors {
		names[i] = proc.Name()
	}
	return names
}
