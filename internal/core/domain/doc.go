// Package domain defines the core business entities for warroom.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: Bytes and a filename supplied by a caller
//   - Document: Extracted pages, tables and metadata
//   - SearchResult: One ranked hit for a query
//   - Summary: Aggregate statistics over a corpus
//   - Question / Response: Records exchanged with the Q&A generator
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
