package domain

// RawDocument represents opaque bytes supplied by a caller, e.g. an upload
// handler or a file read from disk. It is the extractor's input.
type RawDocument struct {
	// Filename is the name the document is known by.
	Filename string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte
}
