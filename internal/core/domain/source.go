package domain

import "time"

// SourceType identifies the connector behind a source.
type SourceType string

// Available source types.
const (
	// SourceTypeFilesystem ingests files from a local path.
	SourceTypeFilesystem SourceType = "filesystem"

	// SourceTypeWebsite ingests the readable content of a web page.
	SourceTypeWebsite SourceType = "website"
)

// IsValid returns true if the source type is recognised.
func (t SourceType) IsValid() bool {
	switch t {
	case SourceTypeFilesystem, SourceTypeWebsite:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t SourceType) String() string {
	return string(t)
}

// Kind returns the SourceKind stamped on documents this source
// produces.
func (t SourceType) Kind() SourceKind {
	if t == SourceTypeWebsite {
		return SourceKindWebsite
	}
	return SourceKindFile
}

// Source represents a configured ingestion origin. Each source
// produces documents via a connector and can be re-synced.
type Source struct {
	// ID is the unique identifier for the source.
	ID string

	// Type identifies the connector type.
	Type SourceType

	// Name is the human-readable name for this source.
	Name string

	// Config contains connector-specific configuration.
	// Filesystem: "path", optional "extensions" (comma-separated).
	// Website: "url".
	Config map[string]string

	// CreatedAt is when the source was created.
	CreatedAt time.Time

	// UpdatedAt is when the source was last updated.
	UpdatedAt time.Time
}

// SyncState tracks the last synchronisation of a source.
type SyncState struct {
	// SourceID links to the Source that was synced.
	SourceID string

	// LastSync is when the last successful sync completed.
	LastSync time.Time

	// DocumentsSynced is how many documents the last sync stored.
	DocumentsSynced int
}
