package mcp

import (
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline answers questions and reports statistics.
	Pipeline driving.PipelineService

	// Search provides similarity search over the knowledge base.
	Search driving.SearchService

	// Document manages stored documents.
	Document driving.DocumentService

	// Ingest stores new content through the normalisation pipeline.
	Ingest driving.IngestService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Pipeline == nil {
		return ErrMissingPipelineService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	// Document and Ingest are optional; the tools that need them
	// report a not-found error when they are absent.
	return nil
}
