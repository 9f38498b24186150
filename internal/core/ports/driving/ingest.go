package driving

import (
	"context"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

// IngestService turns external content into stored documents.
type IngestService interface {
	// IngestText stores manually entered text under a generated ID.
	IngestText(ctx context.Context, name, content string) (*domain.Document, error)

	// IngestFile reads, normalises, and stores a single local file.
	IngestFile(ctx context.Context, path string) (*domain.Document, error)

	// IngestURL fetches a web page, extracts its readable content,
	// and stores it.
	IngestURL(ctx context.Context, url string) (*domain.Document, error)

	// SyncSource re-ingests everything a registered source provides.
	SyncSource(ctx context.Context, sourceID string) (*SyncReport, error)

	// SyncAll re-ingests every registered source.
	SyncAll(ctx context.Context) ([]SyncReport, error)
}

// SyncReport summarises one source sync.
type SyncReport struct {
	// SourceID identifies the source.
	SourceID string

	// DocumentsStored is the count of documents stored or replaced.
	DocumentsStored int

	// Failures is the number of documents that could not be processed.
	Failures int
}
