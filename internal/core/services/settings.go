package services

import (
	"fmt"
	"time"

	"github.com/custodia-labs/ragman/internal/core/domain"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyAnswerProvider  = "answer.provider"
	keyAnswerModel     = "answer.model"
	keyAnswerBaseURL   = "answer.base_url"
	keyAnswerAPIKey    = "answer.api_key"
	keyPipelineTopK    = "pipeline.top_k"
	keyPipelineTokens  = "pipeline.max_context_tokens"
	keyPipelineProcs   = "pipeline.processors"
	keyWatchInterval   = "watch.interval"
	defaultOllamaURL   = "http://localhost:11434"
	defaultWatchPeriod = time.Hour
)

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Embedding: domain.EmbeddingSettings{
			Provider: s.getProvider(keyEmbedProvider, defaults.Embedding.Provider),
			Model:    s.configStore.GetString(keyEmbedModel),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL),
			APIKey:   s.configStore.GetString(keyEmbedAPIKey),
		},
		Answer: domain.AnswerSettings{
			Provider: s.getProvider(keyAnswerProvider, defaults.Answer.Provider),
			Model:    s.configStore.GetString(keyAnswerModel),
			BaseURL:  s.configStore.GetString(keyAnswerBaseURL),
			APIKey:   s.configStore.GetString(keyAnswerAPIKey),
		},
		Pipeline: domain.PipelineSettings{
			TopK:             s.getInt(keyPipelineTopK, defaults.Pipeline.TopK),
			MaxContextTokens: s.getInt(keyPipelineTokens, defaults.Pipeline.MaxContextTokens),
		},
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if err := s.configStore.Set(keyEmbedProvider, settings.Embedding.Provider.String()); err != nil {
		return fmt.Errorf("save embedding provider: %w", err)
	}
	if err := s.configStore.Set(keyEmbedModel, settings.Embedding.Model); err != nil {
		return fmt.Errorf("save embedding model: %w", err)
	}
	if err := s.configStore.Set(keyEmbedBaseURL, settings.Embedding.BaseURL); err != nil {
		return fmt.Errorf("save embedding base_url: %w", err)
	}
	if settings.Embedding.APIKey != "" {
		if err := s.configStore.Set(keyEmbedAPIKey, settings.Embedding.APIKey); err != nil {
			return fmt.Errorf("save embedding api_key: %w", err)
		}
	}

	if err := s.configStore.Set(keyAnswerProvider, settings.Answer.Provider.String()); err != nil {
		return fmt.Errorf("save answer provider: %w", err)
	}
	if err := s.configStore.Set(keyAnswerModel, settings.Answer.Model); err != nil {
		return fmt.Errorf("save answer model: %w", err)
	}
	if err := s.configStore.Set(keyAnswerBaseURL, settings.Answer.BaseURL); err != nil {
		return fmt.Errorf("save answer base_url: %w", err)
	}
	if settings.Answer.APIKey != "" {
		if err := s.configStore.Set(keyAnswerAPIKey, settings.Answer.APIKey); err != nil {
			return fmt.Errorf("save answer api_key: %w", err)
		}
	}

	if err := s.configStore.Set(keyPipelineTopK, settings.Pipeline.TopK); err != nil {
		return fmt.Errorf("save pipeline top_k: %w", err)
	}
	if err := s.configStore.Set(keyPipelineTokens, settings.Pipeline.MaxContextTokens); err != nil {
		return fmt.Errorf("save pipeline max_context_tokens: %w", err)
	}

	return nil
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	supported := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Embedding.Provider = provider

	if model != "" {
		settings.Embedding.Model = model
	} else {
		settings.Embedding.Model = domain.DefaultEmbeddingModels()[provider]
	}

	// Ollama serves from a local daemon; cloud providers use their
	// canonical endpoints unless overridden.
	if provider == domain.AIProviderOllama {
		if settings.Embedding.BaseURL == "" {
			settings.Embedding.BaseURL = defaultOllamaURL
		}
	} else {
		settings.Embedding.BaseURL = ""
	}

	settings.Embedding.APIKey = apiKey

	return s.Save(settings)
}

// SetAnswerProvider configures the completion provider.
func (s *SettingsService) SetAnswerProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid answer provider: %s", provider)
	}

	supported := false
	for _, p := range domain.AllAnswerProviders() {
		if p == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("provider %s does not support answer generation", provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Answer.Provider = provider

	if model != "" {
		settings.Answer.Model = model
	} else {
		settings.Answer.Model = domain.DefaultAnswerModels()[provider]
	}

	if provider == domain.AIProviderOllama {
		if settings.Answer.BaseURL == "" {
			settings.Answer.BaseURL = defaultOllamaURL
		}
	} else {
		settings.Answer.BaseURL = ""
	}

	settings.Answer.APIKey = apiKey

	return s.Save(settings)
}

// SetPipeline updates retrieval behaviour settings.
func (s *SettingsService) SetPipeline(topK, maxContextTokens int) error {
	if topK <= 0 {
		return fmt.Errorf("top_k must be positive, got %d", topK)
	}
	if maxContextTokens <= 0 {
		return fmt.Errorf("max_context_tokens must be positive, got %d", maxContextTokens)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Pipeline.TopK = topK
	settings.Pipeline.MaxContextTokens = maxContextTokens

	return s.Save(settings)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateEmbeddingConfig validates the current embedding configuration
// by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(&settings.Embedding)
}

// ValidateAnswerConfig validates the current completion configuration
// by pinging the provider.
func (s *SettingsService) ValidateAnswerConfig() error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateAnswer(&settings.Answer)
}

// PipelineProcessors returns the configured post-processor chain, or
// nil when the default chain should be used.
func (s *SettingsService) PipelineProcessors() []string {
	return s.configStore.GetStringSlice(keyPipelineProcs)
}

// WatchInterval returns how often watch mode re-fetches sources that
// cannot push change events.
func (s *SettingsService) WatchInterval() time.Duration {
	if raw := s.configStore.GetString(keyWatchInterval); raw != "" {
		if d, err := time.ParseDuration(raw); err == nil && d > 0 {
			return d
		}
	}
	return defaultWatchPeriod
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val == 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	provider := domain.AIProvider(val)
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}
