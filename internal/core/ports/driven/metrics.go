package driven

import (
	"context"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

// MetricsSource provides tabular feeds (financial metrics, ratings, news).
type MetricsSource interface {
	// Rows returns the rows of the named feed, most recent first.
	// A missing feed returns an empty slice and no error.
	Rows(ctx context.Context, feed string) ([]domain.MetricsRow, error)
}
