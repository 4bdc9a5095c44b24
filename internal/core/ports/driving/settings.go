package driving

import "github.com/custodia-labs/chatlens/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings.
	Get() (*domain.AppSettings, error)

	// Save persists application settings.
	Save(settings *domain.AppSettings) error

	// SetSummarizer configures the semantic summarizer provider.
	SetSummarizer(provider domain.AIProvider, model, apiKey string) error

	// SetAnalysis updates aggregator tuning.
	SetAnalysis(opts domain.AnalysisOptions) error

	// SetDefaultSearchMode updates the mode used when none is given.
	SetDefaultSearchMode(mode domain.SearchMode) error

	// Validate checks current settings for consistency.
	Validate() error

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateSummarizerConfig validates the summarizer by pinging the provider.
	ValidateSummarizerConfig() error
}
