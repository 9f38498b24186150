// Package tui provides an interactive terminal user interface for ragman.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Pipeline answers questions against the knowledge base.
	Pipeline driving.PipelineService

	// Search provides similarity search.
	Search driving.SearchService

	// Document manages stored documents.
	Document driving.DocumentService

	// Ingest stores new content through the normalisation pipeline.
	Ingest driving.IngestService

	// Source manages registered sources.
	Source driving.SourceService

	// Settings manages application settings.
	Settings driving.SettingsService

	// Chat runs pipeline-backed conversations with persistent transcripts.
	Chat driving.ChatService
}

// NewPorts creates a new Ports aggregate with the required services.
func NewPorts(
	pipeline driving.PipelineService,
	search driving.SearchService,
	document driving.DocumentService,
) *Ports {
	return &Ports{
		Pipeline: pipeline,
		Search:   search,
		Document: document,
	}
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
	if p.Document == nil {
		return ErrMissingDocumentService
	}
	// Ingest, Source, Settings, and Chat are optional; the views that
	// need them degrade to an explanatory message when absent.
	return nil
}
