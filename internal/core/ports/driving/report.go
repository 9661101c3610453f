package driving

import (
	"context"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

// ReportService provides aggregate and per-document views of the corpus.
type ReportService interface {
	// Summary returns corpus statistics.
	Summary(ctx context.Context) (*domain.Summary, error)

	// Library lists every document with its statistics and a text preview.
	Library(ctx context.Context) ([]domain.LibraryEntry, error)

	// Document returns a single document by filename.
	Document(ctx context.Context, filename string) (*domain.Document, error)
}
