package driving

import (
	"context"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

// IngestService extracts raw documents and adds them to the session corpus.
type IngestService interface {
	// Ingest extracts and adds a single document. Warnings are non-fatal.
	// Returns domain.ErrAlreadyExists if the filename is already in the corpus.
	Ingest(ctx context.Context, raw domain.RawDocument) (*domain.Document, []error, error)

	// IngestBatch extracts documents in parallel and adds them in input order.
	// Failures are reported per item and never abort the batch.
	IngestBatch(ctx context.Context, raws []domain.RawDocument) domain.BatchResult

	// IngestFiles reads files (directories are expanded) and ingests them
	// as a batch.
	IngestFiles(ctx context.Context, paths []string) domain.BatchResult

	// SupportedMIMETypes returns the MIME types that can be ingested.
	SupportedMIMETypes() []string
}
