package driven

import "github.com/custodia-labs/chatlens/internal/core/domain"

// SentimentScorer scores a message body.
// Implementations must be deterministic and safe for concurrent use.
type SentimentScorer interface {
	Score(text string) domain.Sentiment
}
