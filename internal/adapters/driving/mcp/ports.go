package mcp

import (
	"github.com/custodia-labs/warroom/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Search ranks the session's documents.
	Search driving.SearchService

	// Report summarises and lists the session's documents.
	Report driving.ReportService

	// Ingest adds files to the session. Optional.
	Ingest driving.IngestService

	// Prep generates analyst questions. Optional.
	Prep driving.PrepService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Search == nil {
		return ErrMissingSearchService
	}
	if p.Report == nil {
		return ErrMissingReportService
	}
	return nil
}
