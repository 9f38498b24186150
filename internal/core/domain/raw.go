package domain

import "time"

// RawDocument represents opaque bytes fetched by a connector.
// It is the connector's output before normalisation.
type RawDocument struct {
	// ID is the stable document identifier derived by the connector.
	ID string

	// SourceID links to the Source that produced this document.
	// Empty for one-shot ingestion.
	SourceID string

	// Name is the human-readable name (filename, page title, URL).
	Name string

	// URI is the original location (file path, URL).
	URI string

	// MIMEType is the content type (e.g., "application/pdf").
	MIMEType string

	// Content is the raw bytes.
	Content []byte

	// SourceKind is how the document was obtained.
	SourceKind SourceKind

	// FetchedAt is when the connector read the content.
	FetchedAt time.Time
}

// ChangeType represents the type of document change.
type ChangeType int

const (
	// ChangeCreated indicates a new document.
	ChangeCreated ChangeType = iota

	// ChangeUpdated indicates a modified document.
	ChangeUpdated

	// ChangeDeleted indicates a removed document.
	ChangeDeleted
)

// RawDocumentChange represents a change event from a connector's
// watch stream.
type RawDocumentChange struct {
	// Type is the kind of change.
	Type ChangeType

	// Document is the affected document. For deletions only the ID
	// fields are populated.
	Document RawDocument
}
