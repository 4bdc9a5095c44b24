package driving

import "github.com/custodia-labs/chatlens/internal/core/domain"

// AnalysisService aggregates statistics over a message set.
type AnalysisService interface {
	// Analyze computes the full aggregate view. It never fails; an empty
	// slice yields zero counts.
	Analyze(messages []domain.Message) *domain.AnalysisResult
}
