package driven

import "github.com/custodia-labs/ragman/internal/core/domain"

// AIConfigValidator validates AI provider configurations.
// Implementations verify that configurations are valid by testing
// connectivity to the underlying services.
type AIConfigValidator interface {
	// ValidateEmbedding validates an embedding configuration by
	// pinging the provider. Returns nil if the configuration is valid
	// or names a built-in provider.
	ValidateEmbedding(config *domain.EmbeddingSettings) error

	// ValidateAnswer validates a completion configuration by pinging
	// the provider. Returns nil if the configuration is valid or
	// names a built-in provider.
	ValidateAnswer(config *domain.AnswerSettings) error
}
