package driven

// PromptStore provides access to answer-generation prompt templates.
// Implementations may load prompts from files, embed them in the
// binary, or fall back to hardcoded defaults.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Returns the prompt content and any error encountered.
	// If the prompt is not found, implementations should return a
	// sensible default or an error, depending on whether the prompt
	// is required.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next
	// access. Useful when prompts may have been edited on disk.
	Reload()
}

// Well-known prompt names used throughout the application.
// These constants define the contract between prompt consumers and
// providers.
const (
	// PromptAnswerSystem instructs the completion provider to answer
	// from the supplied context. The template expects a %s placeholder
	// for the assembled context window.
	PromptAnswerSystem = "answer_system"

	// PromptInsufficientContext is returned when nothing relevant was
	// retrieved. The template expects a %s placeholder for the query.
	PromptInsufficientContext = "insufficient_context"
)

// PromptStoreAware is an optional interface for components that can use
// custom prompts. Implementations can have their prompt templates
// customised by injecting a PromptStore after construction.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable
	// prompts. If not set, the component uses hardcoded defaults.
	SetPromptStore(store PromptStore)
}
