// Package services implements the driving port interfaces.
// Services contain the core pipeline logic and orchestrate calls to
// driven ports (adapters): embedding, answer generation, storage,
// connectors, and normalisation.
//
// KnowledgeService owns the document lifecycle, PipelineService runs
// the query-to-answer flow on top of it, and IngestService feeds both
// from external content.
package services
