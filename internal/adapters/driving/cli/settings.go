package cli

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/ragman/internal/core/domain"
)

var (
	settingsModel  string
	settingsAPIKey string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure AI providers and retrieval behaviour.

Without a remote provider ragman uses its built-in lexical vectorizer
and extractive answerer, which need no network or API key.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsEmbeddingCmd = &cobra.Command{
	Use:   "embedding [provider]",
	Short: "Configure the embedding provider",
	Long: `Sets the embedding provider used to vectorize documents and queries.

Providers: lexical (built-in, default), ollama, openai.
Cloud providers prompt for an API key unless --api-key is given.
Stored documents keep their old vectors; run "ragman reindex" in a
live session after switching providers.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsEmbedding,
}

var settingsAnswerCmd = &cobra.Command{
	Use:   "answer [provider]",
	Short: "Configure the completion provider",
	Long: `Sets the provider used to generate answers.

Providers: extractive (built-in, default), ollama, openai, anthropic.
Cloud providers prompt for an API key unless --api-key is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runSettingsAnswer,
}

var settingsPipelineCmd = &cobra.Command{
	Use:   "pipeline [top-k] [max-context-tokens]",
	Short: "Configure retrieval behaviour",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsPipeline,
}

var settingsValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check provider connectivity",
	RunE:  runSettingsValidate,
}

func init() {
	settingsEmbeddingCmd.Flags().StringVar(&settingsModel, "model", "", "model name (provider default when empty)")
	settingsEmbeddingCmd.Flags().StringVar(&settingsAPIKey, "api-key", "", "API key (prompted when required and empty)")
	settingsAnswerCmd.Flags().StringVar(&settingsModel, "model", "", "model name (provider default when empty)")
	settingsAnswerCmd.Flags().StringVar(&settingsAPIKey, "api-key", "", "API key (prompted when required and empty)")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsEmbeddingCmd)
	settingsCmd.AddCommand(settingsAnswerCmd)
	settingsCmd.AddCommand(settingsPipelineCmd)
	settingsCmd.AddCommand(settingsValidateCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Embedding]")
	printProviderSettings(cmd, settings.Embedding.Provider, settings.Embedding.Model,
		settings.Embedding.BaseURL, settings.Embedding.APIKey, settings.Embedding.IsConfigured())
	cmd.Println()

	cmd.Println("[Answer]")
	printProviderSettings(cmd, settings.Answer.Provider, settings.Answer.Model,
		settings.Answer.BaseURL, settings.Answer.APIKey, settings.Answer.IsConfigured())
	cmd.Println()

	cmd.Println("[Pipeline]")
	cmd.Printf("  Top K: %d\n", settings.Pipeline.TopK)
	cmd.Printf("  Max context tokens: %d\n", settings.Pipeline.MaxContextTokens)

	return nil
}

func printProviderSettings(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string, configured bool) {
	cmd.Printf("  Provider: %s\n", provider.Description())
	if model != "" {
		cmd.Printf("  Model: %s\n", model)
	}
	if provider == domain.AIProviderOllama && baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		if apiKey != "" {
			cmd.Printf("  API Key: %s\n", maskAPIKey(apiKey))
		} else {
			cmd.Printf("  API Key: (not set)\n")
		}
	}
	status := "configured"
	if !configured {
		status = "not configured"
	}
	cmd.Printf("  Status: %s\n", status)
}

func runSettingsEmbedding(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	provider := domain.AIProvider(args[0])
	apiKey, err := resolveAPIKey(cmd, provider)
	if err != nil {
		return err
	}

	if err := settingsService.SetEmbeddingProvider(provider, settingsModel, apiKey); err != nil {
		return fmt.Errorf("failed to set embedding provider: %w", err)
	}

	cmd.Printf("Embedding provider set to %s.\n", provider)
	cmd.Println("Restart long-running sessions (tui, chat, mcp) to apply, and reindex existing documents.")
	return nil
}

func runSettingsAnswer(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	provider := domain.AIProvider(args[0])
	apiKey, err := resolveAPIKey(cmd, provider)
	if err != nil {
		return err
	}

	if err := settingsService.SetAnswerProvider(provider, settingsModel, apiKey); err != nil {
		return fmt.Errorf("failed to set answer provider: %w", err)
	}

	cmd.Printf("Answer provider set to %s.\n", provider)
	return nil
}

func runSettingsPipeline(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	topK, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("top-k must be a number: %w", err)
	}
	maxTokens, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("max-context-tokens must be a number: %w", err)
	}

	if err := settingsService.SetPipeline(topK, maxTokens); err != nil {
		return fmt.Errorf("failed to set pipeline settings: %w", err)
	}

	cmd.Printf("Pipeline set to top-k %d, max context tokens %d.\n", topK, maxTokens)
	return nil
}

func runSettingsValidate(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	if err := settingsService.ValidateEmbeddingConfig(); err != nil {
		cmd.Printf("Embedding provider: FAILED (%v)\n", err)
	} else {
		cmd.Println("Embedding provider: OK")
	}

	if err := settingsService.ValidateAnswerConfig(); err != nil {
		cmd.Printf("Answer provider: FAILED (%v)\n", err)
	} else {
		cmd.Println("Answer provider: OK")
	}

	return nil
}

// resolveAPIKey returns the --api-key flag value, prompting on the
// terminal (input hidden) when the provider needs a key and none was
// given. Non-terminal stdin keeps the empty key so scripted use fails
// loudly in validation instead of hanging.
func resolveAPIKey(cmd *cobra.Command, provider domain.AIProvider) (string, error) {
	if settingsAPIKey != "" || !provider.RequiresAPIKey() {
		return settingsAPIKey, nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", nil
	}

	cmd.Printf("API key for %s: ", provider)
	key, err := term.ReadPassword(fd)
	cmd.Println()
	if err != nil {
		return "", fmt.Errorf("reading API key: %w", err)
	}
	return string(key), nil
}

// maskAPIKey hides the middle of an API key for display.
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
