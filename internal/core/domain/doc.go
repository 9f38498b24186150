// Package domain defines the core business entities for Ragman.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: an embedded document held by the knowledge base
//   - SearchResult: a scored hit produced by a similarity search
//   - RAGContext / RAGResponse: the per-query pipeline artefacts
//   - Source: a configured ingestion origin
//   - RawDocument: opaque bytes from a connector
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
