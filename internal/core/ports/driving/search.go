package driving

import (
	"context"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search runs query against messages in the given mode.
	// A nil message slice, blank query or unknown mode is a validation error.
	Search(
		ctx context.Context, messages []domain.Message, query string,
		mode domain.SearchMode, opts domain.SearchOptions,
	) (*domain.SearchResult, error)
}
