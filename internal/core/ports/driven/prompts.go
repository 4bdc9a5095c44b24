package driven

// PromptStore provides access to summarizer prompt templates.
// Implementations may load prompts from files or embed them in the binary.
type PromptStore interface {
	// Load returns the prompt template for the given name.
	// Unknown names without a file on disk return an error.
	Load(name string) (string, error)

	// Reload clears any cached prompts, forcing fresh loads on next access.
	Reload()
}

// Well-known prompt names.
const (
	// PromptSemanticSystem is the system prompt for semantic chat analysis.
	// This prompt has no format placeholders.
	PromptSemanticSystem = "semantic_system"

	// PromptSemanticQuery frames the user request.
	// The template expects %s (query) then %s (transcript excerpt).
	PromptSemanticQuery = "semantic_query"
)

// PromptStoreAware is an optional interface for summarizers that can use custom prompts.
type PromptStoreAware interface {
	// SetPromptStore sets the prompt store for loading customisable prompts.
	// If not set, the summarizer uses its built-in prompts.
	SetPromptStore(store PromptStore)
}
