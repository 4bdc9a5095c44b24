package domain

import "time"

// AIProvider identifies a summarizer backend.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
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
	default:
		return unknownDescription
	}
}

// SummarizerSettings holds semantic summarizer configuration.
type SummarizerSettings struct {
	// Provider is the summarizer backend. Empty means semantic search
	// always falls back to keyword search.
	Provider AIProvider

	// Model is the model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string

	// Timeout bounds a single summarizer call.
	Timeout time.Duration

	// RequestsPerMinute throttles summarizer calls. Zero disables throttling.
	RequestsPerMinute int
}

// IsConfigured returns true if the summarizer is set up.
func (s SummarizerSettings) IsConfigured() bool {
	if !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey == "" {
		return false
	}
	return true
}

// SearchSettings holds search behaviour configuration.
type SearchSettings struct {
	// DefaultMode is used when no mode is given.
	DefaultMode SearchMode

	// FinancialLimit caps financial search results.
	FinancialLimit int

	// SemanticWindow is the number of leading messages sent to the summarizer.
	SemanticWindow int
}

// StorageSettings holds transcript storage configuration.
type StorageSettings struct {
	// DataDir holds the transcript database. Empty means ~/.chatlens.
	DataDir string
}

// PipelineSettings lists the message processors run after parsing, in order.
type PipelineSettings struct {
	Processors []string
}

// AppSettings holds all application settings.
type AppSettings struct {
	Summarizer SummarizerSettings
	Analysis   AnalysisOptions
	Search     SearchSettings
	Storage    StorageSettings
	Pipeline   PipelineSettings
}

// Default tuning values.
const (
	DefaultSummarizerTimeout = 30 * time.Second
	DefaultFinancialLimit    = 50
	DefaultSemanticWindow    = 200
)

// DefaultAppSettings returns settings with sensible defaults.
// The summarizer is left unconfigured; users set it up explicitly.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Summarizer: SummarizerSettings{
			Timeout: DefaultSummarizerTimeout,
		},
		Analysis: DefaultAnalysisOptions(),
		Search: SearchSettings{
			DefaultMode:    SearchModeKeyword,
			FinancialLimit: DefaultFinancialLimit,
			SemanticWindow: DefaultSemanticWindow,
		},
		Pipeline: PipelineSettings{
			Processors: []string{"sentiment", "ids"},
		},
	}
}

// AllSummarizerProviders returns providers that can back semantic search.
func AllSummarizerProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultSummarizerModels returns default models for each provider.
func DefaultSummarizerModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}
