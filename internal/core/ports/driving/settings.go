package driving

import "github.com/custodia-labs/ragman/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetEmbeddingProvider configures the embedding provider.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error

	// SetAnswerProvider configures the completion provider.
	SetAnswerProvider(provider domain.AIProvider, model, apiKey string) error

	// SetPipeline updates retrieval behaviour settings.
	SetPipeline(topK, maxContextTokens int) error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig validates the current embedding
	// configuration by pinging the provider.
	ValidateEmbeddingConfig() error

	// ValidateAnswerConfig validates the current completion
	// configuration by pinging the provider.
	ValidateAnswerConfig() error
}
