// Package sentiment provides a processor that scores text messages.
package sentiment

import (
	"context"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

// Name is the configuration name of the processor.
const Name = "sentiment"

// Ensure Processor implements the interface.
var _ driven.MessageProcessor = (*Processor)(nil)

// Processor attaches a sentiment score to every text message.
// Media and system messages are left unscored.
type Processor struct {
	scorer driven.SentimentScorer
}

// New creates a sentiment processor.
func New(scorer driven.SentimentScorer) *Processor {
	return &Processor{scorer: scorer}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return Name
}

// Process scores text messages. Existing scores are replaced.
func (p *Processor) Process(ctx context.Context, messages []domain.Message) ([]domain.Message, error) {
	out := make([]domain.Message, len(messages))
	for i := range messages {
		if i%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		out[i] = messages[i]
		if !out[i].IsText() {
			out[i].Sentiment = nil
			continue
		}
		score := p.scorer.Score(out[i].Body)
		out[i].Sentiment = &score
	}
	return out, nil
}
