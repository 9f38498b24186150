// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - KnowledgeStore: in-memory document + embedding storage with
//     similarity search
//   - Vectorizer: maps text to a fixed-length vector
//   - AnswerService: maps (query, context) to an answer
//   - ConfigStore: application configuration
//
// The lexical Vectorizer and extractive AnswerService implementations
// never fail, so a fully offline pipeline is always constructible.
//
// # Ingestion Interfaces
//
//   - Connector: fetches raw documents from a source
//   - ConnectorFactory: creates connectors from source configuration
//   - Normaliser / NormaliserRegistry: turn raw bytes into text
//   - PostProcessor / PostProcessorPipeline: content transforms
//   - SourceStore / SyncStateStore: source bookkeeping
//   - SessionStore: chat transcript persistence
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
