package domain

const unknownDescription = "Unknown"

// AIProvider identifies a provider for embeddings or answer generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is the Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"

	// AIProviderLexical is the built-in lexical vectorizer. It needs
	// no network and is always available.
	AIProviderLexical AIProvider = "lexical"

	// AIProviderExtractive is the built-in extractive answerer. It
	// needs no network and is always available.
	AIProviderExtractive AIProvider = "extractive"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic,
		AIProviderLexical, AIProviderExtractive:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsRemote returns true if this provider makes network calls.
func (p AIProvider) IsRemote() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	case AIProviderLexical:
		return "Lexical vectorizer (built-in)"
	case AIProviderExtractive:
		return "Extractive answerer (built-in)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible hosts).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// AnswerSettings holds completion provider configuration.
type AnswerSettings struct {
	// Provider is the completion provider.
	Provider AIProvider

	// Model is the completion model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible hosts).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the completion provider is set up.
func (a AnswerSettings) IsConfigured() bool {
	if !a.Provider.IsValid() {
		return false
	}
	if a.Provider.RequiresAPIKey() && a.APIKey == "" {
		return false
	}
	return true
}

// PipelineSettings holds retrieval behaviour configuration.
type PipelineSettings struct {
	// TopK is the maximum number of documents retrieved per query.
	TopK int

	// MaxContextTokens bounds the assembled context window.
	MaxContextTokens int
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Answer holds completion provider settings.
	Answer AnswerSettings

	// Pipeline holds retrieval behaviour settings.
	Pipeline PipelineSettings
}

// Pipeline defaults.
const (
	// DefaultTopK is the retrieval depth used when none is configured.
	DefaultTopK = 5

	// DefaultMaxContextTokens bounds the context window when none is
	// configured.
	DefaultMaxContextTokens = 2000
)

// DefaultAppSettings returns settings with sensible defaults.
// Remote providers are left unconfigured; the built-in lexical and
// extractive fallbacks keep the pipeline functional without them.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Embedding: EmbeddingSettings{
			Provider: AIProviderLexical,
		},
		Answer: AnswerSettings{
			Provider: AIProviderExtractive,
		},
		Pipeline: PipelineSettings{
			TopK:             DefaultTopK,
			MaxContextTokens: DefaultMaxContextTokens,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderLexical,
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllAnswerProviders returns providers that support answer generation.
func AllAnswerProviders() []AIProvider {
	return []AIProvider{
		AIProviderExtractive,
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each remote
// embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultAnswerModels returns default models for each remote
// completion provider.
func DefaultAnswerModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}
