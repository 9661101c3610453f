// Package mcp provides an MCP (Model Context Protocol) server adapter for warroom.
// It lets AI assistants search and summarise the session's documents and add
// files to it.
package mcp

import "errors"

// ErrMissingSearchService is returned when the search service is not provided.
var ErrMissingSearchService = errors.New("mcp: search service is required")

// ErrMissingReportService is returned when the report service is not provided.
var ErrMissingReportService = errors.New("mcp: report service is required")

// ErrIngestDisabled is returned by ingest_file when no ingest service is wired.
var ErrIngestDisabled = errors.New("mcp: ingestion is not enabled")
