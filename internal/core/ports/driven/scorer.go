package driven

import "github.com/custodia-labs/warroom/internal/core/domain"

// Scorer scores a single document against a query.
// The default implementation segments on '.' and counts containing segments;
// alternatives (e.g. BM25) can be swapped in without touching ranking.
type Scorer interface {
	// Score returns the relevance in [0,1], the number of matching units
	// and a display excerpt. A zero match count excludes the document.
	Score(doc *domain.Document, query string) (score float64, matches int, excerpt string)
}
