package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists indicates an entity already exists.
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates no extractor handles the content type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Extraction Errors.

	// ErrUnreadable indicates the bytes cannot be parsed as a document at all.
	ErrUnreadable = errors.New("document unreadable")

	// ErrEmpty indicates a document parsed but yielded no text.
	// It is reported as a warning; the empty document is still ingested.
	ErrEmpty = errors.New("document has no extractable text")

	// ErrMetadataUnavailable indicates the metadata pass failed.
	// It is reported as a warning; metadata degrades to defaults.
	ErrMetadataUnavailable = errors.New("metadata unavailable")

	// ErrLimitExceeded indicates an input exceeded a configured extraction bound.
	ErrLimitExceeded = errors.New("extraction limit exceeded")

	// Collaborator Errors.

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Question and response generation are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrMetricsUnavailable indicates no usable financial metrics were loaded.
	ErrMetricsUnavailable = errors.New("metrics unavailable")

	// ErrMalformedReply indicates the LLM reply did not contain the expected JSON.
	ErrMalformedReply = errors.New("malformed LLM reply")
)

// ExtractionError ties a per-document failure to the file it came from.
type ExtractionError struct {
	// Filename is the document that failed.
	Filename string

	// Err is the underlying cause, usually one of the sentinel errors above.
	Err error
}

// Error implements the error interface.
func (e *ExtractionError) Error() string {
	return fmt.Sprintf("%s: %v", e.Filename, e.Err)
}

// Unwrap returns the underlying cause so errors.Is matches sentinels.
func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NewExtractionError wraps err with the filename it belongs to.
func NewExtractionError(filename string, err error) *ExtractionError {
	return &ExtractionError{Filename: filename, Err: err}
}
