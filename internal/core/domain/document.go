package domain

import (
	"strings"
	"time"
)

// SourceKind identifies how a document entered the knowledge base.
type SourceKind string

// Available source kinds.
const (
	// SourceKindText is manually entered text.
	SourceKindText SourceKind = "text"

	// SourceKindFile is content ingested from a local file.
	SourceKindFile SourceKind = "file"

	// SourceKindWebsite is content scraped from a web page.
	SourceKindWebsite SourceKind = "website"
)

// IsValid returns true if the source kind is recognised.
func (k SourceKind) IsValid() bool {
	switch k {
	case SourceKindText, SourceKindFile, SourceKindWebsite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (k SourceKind) String() string {
	return string(k)
}

// DocumentMetadata describes where a document came from.
type DocumentMetadata struct {
	// Name is the human-readable name (title, filename, or URL).
	Name string

	// SourceKind is how the document was ingested.
	SourceKind SourceKind

	// SizeBytes is the original content size. Zero when unknown.
	SizeBytes int64

	// CreatedAt is when the document was stored.
	CreatedAt time.Time
}

// Document is the stored unit of the knowledge base: text plus its
// vector representation.
type Document struct {
	// ID is the unique identifier, caller-supplied and stable across
	// updates. Re-adding an existing ID replaces the prior entry.
	ID string

	// SourceID links to the Source that produced this document.
	// Empty for one-shot ingestion without a registered source.
	SourceID string

	// Content is the full text. Immutable once stored except via a
	// full replace through AddDocument.
	Content string

	// Embedding is the vector representation used for similarity
	// ranking. Fixed length for a given vectorization mode (100 for
	// the lexical fallback, provider-defined for remote embeddings).
	Embedding []float32

	// Metadata describes the document's provenance.
	Metadata DocumentMetadata
}

// TokenCount returns the whitespace-delimited word count of Content.
func (d *Document) TokenCount() int {
	return len(strings.Fields(d.Content))
}

// DisplayName returns the metadata name, falling back to the ID.
func (d *Document) DisplayName() string {
	if d.Metadata.Name != "" {
		return d.Metadata.Name
	}
	return d.ID
}
