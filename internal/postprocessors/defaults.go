package postprocessors

import (
	"errors"

	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
	"github.com/custodia-labs/chatlens/internal/postprocessors/ids"
	"github.com/custodia-labs/chatlens/internal/postprocessors/sentiment"
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry, scorer driven.SentimentScorer) {
	r.Register(sentiment.Name, func(_ map[string]any) (driven.MessageProcessor, error) {
		if scorer == nil {
			return nil, errors.New("sentiment processor requires a scorer")
		}
		return sentiment.New(scorer), nil
	})
	r.Register(ids.Name, func(_ map[string]any) (driven.MessageProcessor, error) {
		return ids.New(), nil
	})
}
