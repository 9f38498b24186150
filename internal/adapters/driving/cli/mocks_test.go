package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
)

// executeCommand runs the root command with args and captures output.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()
	return buf.String(), err
}

// mockPipelineService implements driving.PipelineService.
type mockPipelineService struct {
	askFunc   func(ctx context.Context, query string) (*domain.RAGResponse, error)
	statsFunc func(ctx context.Context) (*domain.PipelineStats, error)
}

func (m *mockPipelineService) Ask(ctx context.Context, query string) (*domain.RAGResponse, error) {
	return m.askFunc(ctx, query)
}

func (m *mockPipelineService) Stats(ctx context.Context) (*domain.PipelineStats, error) {
	return m.statsFunc(ctx)
}

// mockSearchService implements driving.SearchService.
type mockSearchService struct {
	searchFunc func(ctx context.Context, query string, topK int) ([]domain.SearchResult, error)
}

func (m *mockSearchService) Search(ctx context.Context, query string, topK int) ([]domain.SearchResult, error) {
	return m.searchFunc(ctx, query, topK)
}

// mockDocumentService implements driving.DocumentService.
type mockDocumentService struct {
	addFunc     func(ctx context.Context, id, content string, metadata domain.DocumentMetadata) (*domain.Document, error)
	getFunc     func(ctx context.Context, id string) (*domain.Document, error)
	listFunc    func(ctx context.Context) ([]domain.Document, error)
	removeFunc  func(ctx context.Context, id string) (bool, error)
	countFunc   func(ctx context.Context) (int, error)
	reindexFunc func(ctx context.Context) (int, error)
}

func (m *mockDocumentService) Add(ctx context.Context, id, content string, metadata domain.DocumentMetadata) (*domain.Document, error) {
	return m.addFunc(ctx, id, content, metadata)
}

func (m *mockDocumentService) Get(ctx context.Context, id string) (*domain.Document, error) {
	return m.getFunc(ctx, id)
}

func (m *mockDocumentService) List(ctx context.Context) ([]domain.Document, error) {
	return m.listFunc(ctx)
}

func (m *mockDocumentService) Remove(ctx context.Context, id string) (bool, error) {
	return m.removeFunc(ctx, id)
}

func (m *mockDocumentService) Count(ctx context.Context) (int, error) {
	return m.countFunc(ctx)
}

func (m *mockDocumentService) Reindex(ctx context.Context) (int, error) {
	return m.reindexFunc(ctx)
}

// mockIngestService implements driving.IngestService.
type mockIngestService struct {
	textFunc    func(ctx context.Context, name, content string) (*domain.Document, error)
	fileFunc    func(ctx context.Context, path string) (*domain.Document, error)
	urlFunc     func(ctx context.Context, url string) (*domain.Document, error)
	syncFunc    func(ctx context.Context, sourceID string) (*driving.SyncReport, error)
	syncAllFunc func(ctx context.Context) ([]driving.SyncReport, error)
}

func (m *mockIngestService) IngestText(ctx context.Context, name, content string) (*domain.Document, error) {
	return m.textFunc(ctx, name, content)
}

func (m *mockIngestService) IngestFile(ctx context.Context, path string) (*domain.Document, error) {
	return m.fileFunc(ctx, path)
}

func (m *mockIngestService) IngestURL(ctx context.Context, url string) (*domain.Document, error) {
	return m.urlFunc(ctx, url)
}

func (m *mockIngestService) SyncSource(ctx context.Context, sourceID string) (*driving.SyncReport, error) {
	return m.syncFunc(ctx, sourceID)
}

func (m *mockIngestService) SyncAll(ctx context.Context) ([]driving.SyncReport, error) {
	return m.syncAllFunc(ctx)
}

// mockSourceService implements driving.SourceService.
type mockSourceService struct {
	addFunc    func(ctx context.Context, sourceType domain.SourceType, name string, config map[string]string) (*domain.Source, error)
	getFunc    func(ctx context.Context, id string) (*domain.Source, error)
	listFunc   func(ctx context.Context) ([]domain.Source, error)
	removeFunc func(ctx context.Context, id string) error
	stateFunc  func(ctx context.Context, id string) (*domain.SyncState, error)
}

func (m *mockSourceService) Add(ctx context.Context, sourceType domain.SourceType, name string, config map[string]string) (*domain.Source, error) {
	return m.addFunc(ctx, sourceType, name, config)
}

func (m *mockSourceService) Get(ctx context.Context, id string) (*domain.Source, error) {
	return m.getFunc(ctx, id)
}

func (m *mockSourceService) List(ctx context.Context) ([]domain.Source, error) {
	return m.listFunc(ctx)
}

func (m *mockSourceService) Remove(ctx context.Context, id string) error {
	return m.removeFunc(ctx, id)
}

func (m *mockSourceService) SyncState(ctx context.Context, id string) (*domain.SyncState, error) {
	return m.stateFunc(ctx, id)
}

// mockSettingsService implements driving.SettingsService.
type mockSettingsService struct {
	getFunc               func() (*domain.AppSettings, error)
	saveFunc              func(settings *domain.AppSettings) error
	setEmbeddingFunc      func(provider domain.AIProvider, model, apiKey string) error
	setAnswerFunc         func(provider domain.AIProvider, model, apiKey string) error
	setPipelineFunc       func(topK, maxContextTokens int) error
	validateEmbeddingFunc func() error
	validateAnswerFunc    func() error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	return m.getFunc()
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	return m.saveFunc(settings)
}

func (m *mockSettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	return m.setEmbeddingFunc(provider, model, apiKey)
}

func (m *mockSettingsService) SetAnswerProvider(provider domain.AIProvider, model, apiKey string) error {
	return m.setAnswerFunc(provider, model, apiKey)
}

func (m *mockSettingsService) SetPipeline(topK, maxContextTokens int) error {
	return m.setPipelineFunc(topK, maxContextTokens)
}

func (m *mockSettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

func (m *mockSettingsService) ValidateEmbeddingConfig() error {
	return m.validateEmbeddingFunc()
}

func (m *mockSettingsService) ValidateAnswerConfig() error {
	return m.validateAnswerFunc()
}

// mockChatService implements driving.ChatService.
type mockChatService struct {
	startFunc    func(ctx context.Context) (*domain.ChatSession, error)
	sendFunc     func(ctx context.Context, sessionID, message string) (*domain.RAGResponse, error)
	sessionsFunc func(ctx context.Context) ([]domain.ChatSession, error)
	historyFunc  func(ctx context.Context, sessionID string) ([]domain.ChatMessage, error)
	deleteFunc   func(ctx context.Context, sessionID string) error
}

func (m *mockChatService) StartSession(ctx context.Context) (*domain.ChatSession, error) {
	return m.startFunc(ctx)
}

func (m *mockChatService) Send(ctx context.Context, sessionID, message string) (*domain.RAGResponse, error) {
	return m.sendFunc(ctx, sessionID, message)
}

func (m *mockChatService) Sessions(ctx context.Context) ([]domain.ChatSession, error) {
	return m.sessionsFunc(ctx)
}

func (m *mockChatService) History(ctx context.Context, sessionID string) ([]domain.ChatMessage, error) {
	return m.historyFunc(ctx, sessionID)
}

func (m *mockChatService) DeleteSession(ctx context.Context, sessionID string) error {
	return m.deleteFunc(ctx, sessionID)
}

// Compile-time interface checks for the mocks.
var (
	_ driving.PipelineService = (*mockPipelineService)(nil)
	_ driving.SearchService   = (*mockSearchService)(nil)
	_ driving.DocumentService = (*mockDocumentService)(nil)
	_ driving.IngestService   = (*mockIngestService)(nil)
	_ driving.SourceService   = (*mockSourceService)(nil)
	_ driving.SettingsService = (*mockSettingsService)(nil)
	_ driving.ChatService     = (*mockChatService)(nil)
)
