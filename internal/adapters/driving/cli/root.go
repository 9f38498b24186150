// Package cli implements the cobra command tree. Commands talk to the
// core exclusively through the driving ports; all construction happens
// once in initServices, so there is exactly one knowledge store per
// process and no hidden globals beyond this package's wiring.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/ragman/internal/adapters/driven/ai"
	"github.com/custodia-labs/ragman/internal/adapters/driven/config/file"
	"github.com/custodia-labs/ragman/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/ragman/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/ragman/internal/connectors"
	"github.com/custodia-labs/ragman/internal/core/ports/driven"
	"github.com/custodia-labs/ragman/internal/core/ports/driving"
	"github.com/custodia-labs/ragman/internal/core/services"
	"github.com/custodia-labs/ragman/internal/logger"
	"github.com/custodia-labs/ragman/internal/normalisers"
	"github.com/custodia-labs/ragman/internal/postprocessors"
)

// version is the build version, overridable at link time.
var version = "dev"

// Services the commands depend on. Populated by initServices for the
// real binary; tests inject mocks directly.
var (
	pipelineService driving.PipelineService
	searchService   driving.SearchService
	documentService driving.DocumentService
	ingestService   driving.IngestService
	sourceService   driving.SourceService
	settingsService driving.SettingsService
	chatService     driving.ChatService
	watcherService  driving.WatcherService
)

// sessionStoreCloser releases the chat transcript database on exit.
var sessionStoreCloser func() error

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "ragman",
	Short: "Local retrieval-augmented answer engine",
	Long: `Ragman indexes text documents as vectors, retrieves the most
relevant ones for a question, and generates a grounded answer.

The knowledge base lives in memory for the lifetime of the process:
add documents, then ask, all in one session (or run the TUI, the chat,
or the MCP server, which keep the process alive between questions).
Remote embedding and completion providers are optional - without them
ragman falls back to its built-in lexical vectorizer and extractive
answerer.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
}

// Execute wires the services and runs the command tree.
func Execute() error {
	if err := initServices(); err != nil {
		return fmt.Errorf("initialising services: %w", err)
	}
	defer closeServices()

	return rootCmd.Execute()
}

// initServices constructs the full application: config, AI stack,
// stores, and core services. Failures in optional infrastructure
// (config file, transcript database) degrade to in-memory stand-ins
// rather than aborting.
func initServices() error {
	configStore := openConfigStore()
	validator := ai.NewConfigValidator()
	settings := services.NewSettingsService(configStore, validator)
	settingsService = settings

	appSettings, err := settings.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	prompts := openPromptStore()
	stack := ai.Build(appSettings, prompts)
	for _, warning := range stack.Warnings {
		logger.Warn("%s", warning)
	}

	knowledge := services.NewKnowledgeService(memory.NewKnowledgeStore(), stack.Vectorizer)
	documentService = knowledge
	searchService = knowledge

	pipeline := services.NewPipelineService(knowledge, stack.Answerer,
		services.WithTopK(appSettings.Pipeline.TopK),
		services.WithMaxContextTokens(appSettings.Pipeline.MaxContextTokens),
	)
	pipelineService = pipeline

	sourceStore := memory.NewSourceStore()
	syncStore := memory.NewSyncStateStore()
	factory := connectors.NewDefaultFactory()
	registry := normalisers.NewDefaultRegistry()

	ingest := services.NewIngestService(knowledge, sourceStore, syncStore,
		factory, registry, postPipeline(settings))
	ingestService = ingest
	sourceService = services.NewSourceService(sourceStore, syncStore, knowledge, factory)
	watcherService = services.NewWatcherService(sourceStore, factory, ingest, settings.WatchInterval())

	chatService = services.NewChatService(openSessionStore(), pipeline)

	return nil
}

// closeServices releases resources held since initServices.
func closeServices() {
	if sessionStoreCloser != nil {
		if err := sessionStoreCloser(); err != nil {
			logger.Warn("Closing session store: %v", err)
		}
	}
}

// openConfigStore opens ~/.ragman/config.toml, degrading to an
// in-memory store when the home directory is unusable.
func openConfigStore() driven.ConfigStore {
	store, err := file.NewConfigStore("")
	if err != nil {
		logger.Warn("Config file unavailable, using defaults: %v", err)
		return memory.NewConfigStore()
	}
	return store
}

// openPromptStore opens ~/.ragman/prompts. A nil store leaves the
// compiled-in prompt templates active.
func openPromptStore() driven.PromptStore {
	store, err := file.NewPromptStore("")
	if err != nil {
		logger.Warn("Prompt overrides unavailable: %v", err)
		return nil
	}
	return store
}

// openSessionStore opens the chat transcript database, degrading to an
// in-memory store when sqlite cannot open.
func openSessionStore() driven.SessionStore {
	store, err := sqlite.NewStore("")
	if err != nil {
		logger.Warn("Transcript database unavailable, sessions will not persist: %v", err)
		return memory.NewSessionStore()
	}
	sessionStoreCloser = store.Close
	return store.SessionStore()
}

// postPipeline builds the ingestion post-processing chain. Named
// processors from config win; the cleaner+truncator default otherwise.
func postPipeline(settings *services.SettingsService) driven.PostProcessorPipeline {
	names := settings.PipelineProcessors()
	if len(names) == 0 {
		return postprocessors.DefaultPipeline()
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	pipeline := postprocessors.NewPipeline()
	for _, name := range names {
		processor, err := registry.Build(name, nil)
		if err != nil {
			logger.Warn("Skipping unknown post-processor %q", name)
			continue
		}
		pipeline.Add(processor)
	}

	if pipeline.Len() == 0 {
		return postprocessors.DefaultPipeline()
	}
	return pipeline
}

// Main is the entry point used by cmd/ragman.
func Main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
