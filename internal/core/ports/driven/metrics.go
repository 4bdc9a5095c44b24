package driven

import (
	"time"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

// Metrics records operational counters.
// Implementations must be safe for concurrent use.
type Metrics interface {
	// ObserveParse records one parsed transcript.
	ObserveParse(format string, messages int, anomalies []domain.ParseAnomaly, elapsed time.Duration)

	// ObserveSearch records one search. fallbackFrom is empty when no fallback ran.
	ObserveSearch(mode, fallbackFrom domain.SearchMode, matches int, elapsed time.Duration)

	// ObserveSummarizer records one summarizer call outcome.
	ObserveSummarizer(model string, err error, elapsed time.Duration)
}
