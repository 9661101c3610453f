package driven

import "github.com/custodia-labs/warroom/internal/core/domain"

// Corpus is the session's ordered collection of documents.
//
// Add is called from a single writer; Documents and Filenames may be called
// concurrently and return snapshots that later adds do not affect. A
// document is visible to readers only once fully added.
type Corpus interface {
	// Add inserts a document. A new filename goes to the end of the order.
	// No uniqueness check is made, but re-adding a filename is not an append:
	// the later document replaces the earlier one and keeps its original
	// position, so each filename appears once. Ingestion rejects duplicates
	// before they reach the corpus.
	Add(doc *domain.Document) error

	// Get returns the most recently added document with the filename.
	// Returns domain.ErrNotFound if none exists.
	Get(filename string) (*domain.Document, error)

	// Documents returns a snapshot of the documents, one per filename,
	// in first-insertion order.
	Documents() ([]*domain.Document, error)

	// Filenames returns the distinct filenames in first-insertion order.
	Filenames() ([]string, error)

	// Len returns the number of distinct filenames.
	Len() int

	// Close releases resources.
	Close() error
}
