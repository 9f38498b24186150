package mcp

import (
	"context"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
)

// mockPipelineService is a mock implementation of driving.PipelineService.
type mockPipelineService struct {
	response *domain.RAGResponse
	stats    *domain.PipelineStats
	err      error
}

func (m *mockPipelineService) Ask(_ context.Context, _ string) (*domain.RAGResponse, error) {
	return m.response, m.err
}

func (m *mockPipelineService) Stats(_ context.Context) (*domain.PipelineStats, error) {
	return m.stats, m.err
}

// mockSearchService is a mock implementation of driving.SearchService.
type mockSearchService struct {
	results  []domain.SearchResult
	lastTopK int
	err      error
}

func (m *mockSearchService) Search(_ context.Context, _ string, topK int) ([]domain.SearchResult, error) {
	m.lastTopK = topK
	return m.results, m.err
}

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	documents []domain.Document
	document  *domain.Document
	removed   bool
	err       error
}

func (m *mockDocumentService) Add(_ context.Context, _, _ string, _ domain.DocumentMetadata) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) Get(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockDocumentService) List(_ context.Context) ([]domain.Document, error) {
	return m.documents, m.err
}

func (m *mockDocumentService) Remove(_ context.Context, _ string) (bool, error) {
	return m.removed, m.err
}

func (m *mockDocumentService) Count(_ context.Context) (int, error) {
	return len(m.documents), m.err
}

func (m *mockDocumentService) Reindex(_ context.Context) (int, error) {
	return len(m.documents), m.err
}

// mockIngestService is a mock implementation of driving.IngestService.
type mockIngestService struct {
	document *domain.Document
	err      error
}

func (m *mockIngestService) IngestText(_ context.Context, _, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockIngestService) IngestFile(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockIngestService) IngestURL(_ context.Context, _ string) (*domain.Document, error) {
	return m.document, m.err
}

func (m *mockIngestService) SyncSource(_ context.Context, _ string) (*driving.SyncReport, error) {
	return nil, m.err
}

func (m *mockIngestService) SyncAll(_ context.Context) ([]driving.SyncReport, error) {
	return nil, m.err
}

var (
	_ driving.PipelineService = (*mockPipelineService)(nil)
	_ driving.SearchService   = (*mockSearchService)(nil)
	_ driving.DocumentService = (*mockDocumentService)(nil)
	_ driving.IngestService   = (*mockIngestService)(nil)
)
