package driven

import (
	"context"

	"github.com/custodia-labs/warroom/internal/core/domain"
)

// Extractor turns the raw bytes of one document format into a Document.
// Extractors are pure: no shared state, safe to run in parallel.
type Extractor interface {
	// SupportedMIMETypes returns the MIME types this extractor handles.
	SupportedMIMETypes() []string

	// Priority returns the selection priority (higher = preferred).
	// Format-specific extractors should return 50-89.
	// Fallback extractors should return 1-9.
	Priority() int

	// Extract parses raw bytes. It returns domain.ErrUnreadable when the
	// bytes cannot be parsed at all. Per-page failures never abort the document.
	Extract(ctx context.Context, raw *domain.RawDocument, limits Limits) (*ExtractResult, error)
}

// Limits bounds the work done on a single document.
// Zero values mean unbounded.
type Limits struct {
	MaxPages  int
	MaxTables int
}

// ExtractResult contains the output of extraction.
type ExtractResult struct {
	// Document is the extracted document.
	Document domain.Document

	// Warnings holds non-fatal problems such as domain.ErrEmpty or
	// domain.ErrMetadataUnavailable. The document is still usable.
	Warnings []error
}

// Warn records a non-fatal problem.
func (r *ExtractResult) Warn(err error) {
	r.Warnings = append(r.Warnings, err)
}

// ExtractorRegistry selects the appropriate extractor for a document.
// It maintains a priority-ordered list of extractors and dispatches
// on MIME type.
type ExtractorRegistry interface {
	// Extract parses a raw document with the best matching extractor.
	// Returns domain.ErrUnsupportedType when nothing handles the MIME type.
	Extract(ctx context.Context, raw *domain.RawDocument, limits Limits) (*ExtractResult, error)

	// Register adds an extractor to the registry.
	Register(extractor Extractor)

	// SupportedMIMETypes returns all MIME types that can be extracted.
	SupportedMIMETypes() []string
}
