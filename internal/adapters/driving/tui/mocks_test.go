package tui

import (
	"context"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
)

// MockPipelineService implements driving.PipelineService for testing.
type MockPipelineService struct {
	AskFunc   func(ctx context.Context, query string) (*domain.RAGResponse, error)
	StatsFunc func(ctx context.Context) (*domain.PipelineStats, error)
}

func (m *MockPipelineService) Ask(ctx context.Context, query string) (*domain.RAGResponse, error) {
	if m.AskFunc != nil {
		return m.AskFunc(ctx, query)
	}
	return &domain.RAGResponse{Answer: "mock answer"}, nil
}

func (m *MockPipelineService) Stats(ctx context.Context) (*domain.PipelineStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return &domain.PipelineStats{}, nil
}

// MockSearchService implements driving.SearchService for testing.
type MockSearchService struct {
	SearchFunc func(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
}

func (m *MockSearchService) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, query, topK)
	}
	return []domain.SearchResult{}, nil
}

// MockDocumentService implements driving.DocumentService for testing.
type MockDocumentService struct {
	ListFunc   func(ctx context.Context) ([]domain.Document, error)
	RemoveFunc func(ctx context.Context, id string) (bool, error)
}

func (m *MockDocumentService) Add(ctx context.Context, id, content string, metadata domain.DocumentMetadata) (*domain.Document, error) {
	return nil, nil
}

func (m *MockDocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return nil, domain.ErrNotFound
}

func (m *MockDocumentService) List(ctx context.Context) ([]domain.Document, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.Document{}, nil
}

func (m *MockDocumentService) Remove(ctx context.Context, id string) (bool, error) {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return false, nil
}

func (m *MockDocumentService) Count(ctx context.Context) (int, error) {
	return 0, nil
}

func (m *MockDocumentService) Reindex(ctx context.Context) (int, error) {
	return 0, nil
}

// MockIngestService implements driving.IngestService for testing.
type MockIngestService struct {
	SyncSourceFunc func(ctx context.Context, sourceID string) (*driving.SyncReport, error)
}

func (m *MockIngestService) IngestText(ctx context.Context, name, content string) (*domain.Document, error) {
	return nil, nil
}

func (m *MockIngestService) IngestFile(ctx context.Context, path string) (*domain.Document, error) {
	return nil, nil
}

func (m *MockIngestService) IngestURL(ctx context.Context, url string) (*domain.Document, error) {
	return nil, nil
}

func (m *MockIngestService) SyncSource(ctx context.Context, sourceID string) (*driving.SyncReport, error) {
	if m.SyncSourceFunc != nil {
		return m.SyncSourceFunc(ctx, sourceID)
	}
	return &driving.SyncReport{SourceID: sourceID}, nil
}

func (m *MockIngestService) SyncAll(ctx context.Context) ([]driving.SyncReport, error) {
	return nil, nil
}

// MockSourceService implements driving.SourceService for testing.
type MockSourceService struct {
	ListFunc   func(ctx context.Context) ([]domain.Source, error)
	RemoveFunc func(ctx context.Context, id string) error
}

func (m *MockSourceService) Add(ctx context.Context, sourceType domain.SourceType, name string, config map[string]string) (*domain.Source, error) {
	return nil, nil
}

func (m *MockSourceService) Get(ctx context.Context, id string) (*domain.Source, error) {
	return nil, domain.ErrNotFound
}

func (m *MockSourceService) List(ctx context.Context) ([]domain.Source, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return []domain.Source{}, nil
}

func (m *MockSourceService) Remove(ctx context.Context, id string) error {
	if m.RemoveFunc != nil {
		return m.RemoveFunc(ctx, id)
	}
	return nil
}

func (m *MockSourceService) SyncState(ctx context.Context, id string) (*domain.SyncState, error) {
	return nil, nil
}

// MockSettingsService implements driving.SettingsService for testing.
type MockSettingsService struct {
	GetFunc func() (*domain.AppSettings, error)
}

func (m *MockSettingsService) Get() (*domain.AppSettings, error) {
	if m.GetFunc != nil {
		return m.GetFunc()
	}
	defaults := domain.DefaultAppSettings()
	return &defaults, nil
}

func (m *MockSettingsService) Save(settings *domain.AppSettings) error { return nil }

func (m *MockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	return nil
}

func (m *MockSettingsService) SetAnswerProvider(provider domain.AIProvider, model, apiKey string) error {
	return nil
}

func (m *MockSettingsService) SetPipeline(topK, maxContextTokens int) error { return nil }

func (m *MockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *MockSettingsService) ValidateEmbeddingConfig() error { return nil }

func (m *MockSettingsService) ValidateAnswerConfig() error { return nil }

// MockChatService implements driving.ChatService for testing.
type MockChatService struct {
	StartSessionFunc func(ctx context.Context) (*domain.ChatSession, error)
	SendFunc         func(ctx context.Context, sessionID, message string) (*domain.RAGResponse, error)
}

func (m *MockChatService) StartSession(ctx context.Context) (*domain.ChatSession, error) {
	if m.StartSessionFunc != nil {
		return m.StartSessionFunc(ctx)
	}
	return &domain.ChatSession{ID: "mock-session"}, nil
}

func (m *MockChatService) Send(ctx context.Context, sessionID, message string) (*domain.RAGResponse, error) {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, sessionID, message)
	}
	return &domain.RAGResponse{Answer: "mock answer"}, nil
}

func (m *MockChatService) Sessions(ctx context.Context) ([]domain.ChatSession, error) {
	return []domain.ChatSession{}, nil
}

func (m *MockChatService) History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	return []domain.ChatMessage{}, nil
}

func (m *MockChatService) DeleteSession(ctx context.Context, sessionID string) error {
	return nil
}

// Compile-time interface checks.
var (
	_ driving.PipelineService = (*MockPipelineService)(nil)
	_ driving.SearchService   = (*MockSearchService)(nil)
	_ driving.DocumentService = (*MockDocumentService)(nil)
	_ driving.IngestService   = (*MockIngestService)(nil)
	_ driving.SourceService   = (*MockSourceService)(nil)
	_ driving.SettingsService = (*MockSettingsService)(nil)
	_ driving.ChatService     = (*MockChatService)(nil)
)
