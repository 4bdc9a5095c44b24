package services

import (
	"fmt"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
	"github.com/custodia-labs/chatlens/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keySummarizerProvider = "summarizer.provider"
	keySummarizerModel    = "summarizer.model"
	keySummarizerBaseURL  = "summarizer.base_url"
	keySummarizerAPIKey   = "summarizer.api_key"
	keySummarizerTimeout  = "summarizer.timeout"
	keySummarizerRPM      = "summarizer.requests_per_minute"
	keyTopWords           = "analysis.top_words"
	keyMinWordLength      = "analysis.min_word_length"
	keyTopEmoji           = "analysis.top_emoji"
	keyDefaultMode        = "search.default_mode"
	keyFinancialLimit     = "search.financial_limit"
	keySemanticWindow     = "search.semantic_window"
	keyDataDir            = "storage.data_dir"
	keyProcessors         = "pipeline.processors"
)

// defaultOllamaURL is used when Ollama is selected without a base URL.
const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	validator   driven.SummarizerValidator
}

// NewSettingsService creates a new settings service.
// The validator is optional (can be nil).
func NewSettingsService(configStore driven.ConfigStore, validator driven.SummarizerValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		validator:   validator,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	settings := &domain.AppSettings{
		Summarizer: domain.SummarizerSettings{
			Provider:          s.getProvider(),
			Model:             s.configStore.GetString(keySummarizerModel),
			BaseURL:           s.configStore.GetString(keySummarizerBaseURL),
			APIKey:            s.configStore.GetString(keySummarizerAPIKey),
			Timeout:           s.configStore.GetDuration(keySummarizerTimeout),
			RequestsPerMinute: s.configStore.GetInt(keySummarizerRPM),
		},
		Analysis: domain.AnalysisOptions{
			TopWords:      s.getInt(keyTopWords, defaults.Analysis.TopWords),
			MinWordLength: s.getInt(keyMinWordLength, defaults.Analysis.MinWordLength),
			TopEmoji:      s.getInt(keyTopEmoji, defaults.Analysis.TopEmoji),
		},
		Search: domain.SearchSettings{
			DefaultMode:    s.getSearchMode(defaults.Search.DefaultMode),
			FinancialLimit: s.getInt(keyFinancialLimit, defaults.Search.FinancialLimit),
			SemanticWindow: s.getInt(keySemanticWindow, defaults.Search.SemanticWindow),
		},
		Storage: domain.StorageSettings{
			DataDir: s.configStore.GetString(keyDataDir),
		},
		Pipeline: defaults.Pipeline,
	}

	if settings.Summarizer.Timeout <= 0 {
		settings.Summarizer.Timeout = defaults.Summarizer.Timeout
	}
	if processors := s.configStore.GetStringSlice(keyProcessors); len(processors) > 0 {
		settings.Pipeline.Processors = processors
	}

	return settings, nil
}

// Save persists application settings.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings are nil", domain.ErrInvalidInput)
	}

	values := []struct {
		key   string
		value any
	}{
		{keySummarizerProvider, settings.Summarizer.Provider.String()},
		{keySummarizerModel, settings.Summarizer.Model},
		{keySummarizerBaseURL, settings.Summarizer.BaseURL},
		{keySummarizerTimeout, settings.Summarizer.Timeout.String()},
		{keySummarizerRPM, settings.Summarizer.RequestsPerMinute},
		{keyTopWords, settings.Analysis.TopWords},
		{keyMinWordLength, settings.Analysis.MinWordLength},
		{keyTopEmoji, settings.Analysis.TopEmoji},
		{keyDefaultMode, settings.Search.DefaultMode.String()},
		{keyFinancialLimit, settings.Search.FinancialLimit},
		{keySemanticWindow, settings.Search.SemanticWindow},
		{keyDataDir, settings.Storage.DataDir},
		{keyProcessors, settings.Pipeline.Processors},
	}

	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	// An empty key never overwrites a stored one.
	if settings.Summarizer.APIKey != "" {
		if err := s.configStore.Set(keySummarizerAPIKey, settings.Summarizer.APIKey); err != nil {
			return fmt.Errorf("save %s: %w", keySummarizerAPIKey, err)
		}
	}

	return nil
}

// SetSummarizer configures the semantic summarizer provider.
func (s *SettingsService) SetSummarizer(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: invalid summarizer provider: %s", domain.ErrInvalidInput, provider)
	}

	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("%w: API key required for %s", domain.ErrInvalidInput, provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Summarizer.Provider = provider

	if model != "" {
		settings.Summarizer.Model = model
	} else if defaultModel, ok := domain.DefaultSummarizerModels()[provider]; ok {
		settings.Summarizer.Model = defaultModel
	}

	if provider.IsLocal() {
		if settings.Summarizer.BaseURL == "" {
			settings.Summarizer.BaseURL = defaultOllamaURL
		}
	} else {
		settings.Summarizer.BaseURL = ""
	}

	settings.Summarizer.APIKey = apiKey

	return s.Save(settings)
}

// SetAnalysis updates aggregator tuning. Zero fields keep their current value.
func (s *SettingsService) SetAnalysis(opts domain.AnalysisOptions) error {
	if opts.TopWords < 0 || opts.MinWordLength < 0 || opts.TopEmoji < 0 {
		return fmt.Errorf("%w: analysis options must not be negative", domain.ErrInvalidInput)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if opts.TopWords > 0 {
		settings.Analysis.TopWords = opts.TopWords
	}
	if opts.MinWordLength > 0 {
		settings.Analysis.MinWordLength = opts.MinWordLength
	}
	if opts.TopEmoji > 0 {
		settings.Analysis.TopEmoji = opts.TopEmoji
	}

	return s.Save(settings)
}

// SetDefaultSearchMode updates the mode used when none is given.
func (s *SettingsService) SetDefaultSearchMode(mode domain.SearchMode) error {
	if !mode.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidMode, mode)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	settings.Search.DefaultMode = mode
	return s.Save(settings)
}

// Validate checks current settings for consistency.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	if !settings.Search.DefaultMode.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrInvalidMode, settings.Search.DefaultMode)
	}

	// Semantic search degrades to keyword search, so an unconfigured
	// summarizer only matters once a provider has been chosen.
	if settings.Summarizer.Provider != "" && !settings.Summarizer.IsConfigured() {
		return fmt.Errorf("summarizer provider %q is missing an API key",
			settings.Summarizer.Provider.Description())
	}

	for _, name := range settings.Pipeline.Processors {
		if name == "" {
			return fmt.Errorf("%w: empty pipeline processor name", domain.ErrInvalidInput)
		}
	}

	return nil
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// ValidateSummarizerConfig validates the summarizer by pinging the provider.
func (s *SettingsService) ValidateSummarizerConfig() error {
	if s.validator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.validator.ValidateSummarizer(&settings.Summarizer)
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getSearchMode(defaultVal domain.SearchMode) domain.SearchMode {
	mode := domain.SearchMode(s.configStore.GetString(keyDefaultMode))
	if !mode.IsValid() {
		return defaultVal
	}
	return mode
}

func (s *SettingsService) getProvider() domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(keySummarizerProvider))
	if !provider.IsValid() {
		return ""
	}
	return provider
}
