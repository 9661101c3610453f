package driving

import (
	"context"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

// SearchService provides search capabilities to external actors.
type SearchService interface {
	// Search ranks the corpus documents against a free-text query.
	Search(ctx context.Context, query string, opts domain.SearchOptions) ([]domain.SearchResult, error)
}
