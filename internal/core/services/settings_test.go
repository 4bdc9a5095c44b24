package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatlens/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/chatlens/internal/core/domain"
)

// failingConfigStore fails Set for one key, or for every key when failOn is empty.
type failingConfigStore struct {
	*memory.ConfigStore
	failOn string
}

func (f *failingConfigStore) Set(key string, value any) error {
	if f.failOn == "" || key == f.failOn {
		return assert.AnError
	}
	return f.ConfigStore.Set(key, value)
}

// mockSummarizerValidator records the settings it was asked to validate.
type mockSummarizerValidator struct {
	err  error
	seen *domain.SummarizerSettings
}

func (m *mockSummarizerValidator) ValidateSummarizer(cfg *domain.SummarizerSettings) error {
	m.seen = cfg
	return m.err
}

func TestSettingsService_Get_ReturnsDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings, err := service.Get()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Search, settings.Search)
	assert.Equal(t, defaults.Analysis, settings.Analysis)
	assert.Equal(t, defaults.Pipeline.Processors, settings.Pipeline.Processors)
	assert.Equal(t, domain.DefaultSummarizerTimeout, settings.Summarizer.Timeout)
	assert.Empty(t, settings.Summarizer.Provider)
	assert.False(t, settings.Summarizer.IsConfigured())
}

func TestSettingsService_Get_ReturnsStoredValues(t *testing.T) {
	store := memory.NewConfigStoreWith(map[string]any{
		"summarizer.provider":            "openai",
		"summarizer.model":               "gpt-4o",
		"summarizer.api_key":             "sk-test",
		"summarizer.timeout":             "45s",
		"summarizer.requests_per_minute": int64(30),
		"analysis.top_words":             int64(5),
		"search.default_mode":            "financial",
		"search.financial_limit":         int64(10),
		"storage.data_dir":               "/tmp/chatlens",
		"pipeline.processors":            []any{"ids"},
	})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()
	require.NoError(t, err)

	assert.Equal(t, domain.AIProviderOpenAI, settings.Summarizer.Provider)
	assert.Equal(t, "gpt-4o", settings.Summarizer.Model)
	assert.Equal(t, "sk-test", settings.Summarizer.APIKey)
	assert.Equal(t, 45*time.Second, settings.Summarizer.Timeout)
	assert.Equal(t, 30, settings.Summarizer.RequestsPerMinute)
	assert.Equal(t, 5, settings.Analysis.TopWords)
	assert.Equal(t, 3, settings.Analysis.MinWordLength)
	assert.Equal(t, domain.SearchModeFinancial, settings.Search.DefaultMode)
	assert.Equal(t, 10, settings.Search.FinancialLimit)
	assert.Equal(t, domain.DefaultSemanticWindow, settings.Search.SemanticWindow)
	assert.Equal(t, "/tmp/chatlens", settings.Storage.DataDir)
	assert.Equal(t, []string{"ids"}, settings.Pipeline.Processors)
}

func TestSettingsService_Get_InvalidValuesReturnDefaults(t *testing.T) {
	store := memory.NewConfigStoreWith(map[string]any{
		"summarizer.provider": "gemini",
		"search.default_mode": "fuzzy",
		"analysis.top_words":  int64(-4),
		"summarizer.timeout":  "later",
	})
	service := NewSettingsService(store, nil)

	settings, err := service.Get()
	require.NoError(t, err)

	assert.Empty(t, settings.Summarizer.Provider)
	assert.Equal(t, domain.SearchModeKeyword, settings.Search.DefaultMode)
	assert.Equal(t, 20, settings.Analysis.TopWords)
	assert.Equal(t, domain.DefaultSummarizerTimeout, settings.Summarizer.Timeout)
}

func TestSettingsService_SaveRoundTrip(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	settings := domain.DefaultAppSettings()
	settings.Summarizer = domain.SummarizerSettings{
		Provider:          domain.AIProviderAnthropic,
		Model:             "claude-3-5-sonnet-latest",
		APIKey:            "sk-ant",
		Timeout:           time.Minute,
		RequestsPerMinute: 12,
	}
	settings.Search.DefaultMode = domain.SearchModeSentiment
	settings.Pipeline.Processors = []string{"ids", "sentiment"}

	require.NoError(t, service.Save(&settings))

	got, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, settings.Summarizer, got.Summarizer)
	assert.Equal(t, domain.SearchModeSentiment, got.Search.DefaultMode)
	assert.Equal(t, []string{"ids", "sentiment"}, got.Pipeline.Processors)
}

func TestSettingsService_Save_KeepsStoredAPIKey(t *testing.T) {
	store := memory.NewConfigStoreWith(map[string]any{"summarizer.api_key": "sk-keep"})
	service := NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	require.NoError(t, service.Save(&settings))

	assert.Equal(t, "sk-keep", store.GetString("summarizer.api_key"))
}

func TestSettingsService_Save_Errors(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)
	assert.ErrorIs(t, service.Save(nil), domain.ErrInvalidInput)

	store := &failingConfigStore{ConfigStore: memory.NewConfigStore(), failOn: "search.default_mode"}
	service = NewSettingsService(store, nil)

	settings := domain.DefaultAppSettings()
	err := service.Save(&settings)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "search.default_mode")
}

func TestSettingsService_SetSummarizer(t *testing.T) {
	tests := []struct {
		name      string
		provider  domain.AIProvider
		model     string
		apiKey    string
		wantModel string
		wantURL   string
	}{
		{"ollama default model", domain.AIProviderOllama, "", "", "llama3.2", "http://localhost:11434"},
		{"openai explicit model", domain.AIProviderOpenAI, "gpt-4o", "sk-1", "gpt-4o", ""},
		{"anthropic default model", domain.AIProviderAnthropic, "", "sk-2", "claude-3-5-sonnet-latest", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := NewSettingsService(memory.NewConfigStore(), nil)

			require.NoError(t, service.SetSummarizer(tt.provider, tt.model, tt.apiKey))

			settings, err := service.Get()
			require.NoError(t, err)
			assert.Equal(t, tt.provider, settings.Summarizer.Provider)
			assert.Equal(t, tt.wantModel, settings.Summarizer.Model)
			assert.Equal(t, tt.wantURL, settings.Summarizer.BaseURL)
			assert.True(t, settings.Summarizer.IsConfigured())
		})
	}
}

func TestSettingsService_SetSummarizer_Invalid(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	err := service.SetSummarizer("gemini", "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	err = service.SetSummarizer(domain.AIProviderOpenAI, "", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "API key required")
}

func TestSettingsService_SetAnalysis(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	require.NoError(t, service.SetAnalysis(domain.AnalysisOptions{TopWords: 5}))

	settings, err := service.Get()
	require.NoError(t, err)
	assert.Equal(t, 5, settings.Analysis.TopWords)
	assert.Equal(t, 3, settings.Analysis.MinWordLength)
	assert.Equal(t, 10, settings.Analysis.TopEmoji)

	assert.ErrorIs(t, service.SetAnalysis(domain.AnalysisOptions{TopEmoji: -1}), domain.ErrInvalidInput)
}

func TestSettingsService_SetDefaultSearchMode(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	for _, mode := range domain.AllSearchModes() {
		require.NoError(t, service.SetDefaultSearchMode(mode))
		settings, err := service.Get()
		require.NoError(t, err)
		assert.Equal(t, mode, settings.Search.DefaultMode)
	}

	assert.ErrorIs(t, service.SetDefaultSearchMode("fuzzy"), domain.ErrInvalidMode)
}

func TestSettingsService_Validate(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)
	assert.NoError(t, service.Validate(), "defaults are valid")

	store := memory.NewConfigStoreWith(map[string]any{"summarizer.provider": "openai"})
	service = NewSettingsService(store, nil)
	err := service.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key")

	store = memory.NewConfigStoreWith(map[string]any{"pipeline.processors": []string{"ids", ""}})
	service = NewSettingsService(store, nil)
	assert.ErrorIs(t, service.Validate(), domain.ErrInvalidInput)
}

func TestSettingsService_GetDefaults(t *testing.T) {
	service := NewSettingsService(memory.NewConfigStore(), nil)

	assert.Equal(t, domain.DefaultAppSettings(), service.GetDefaults())
}

func TestSettingsService_ValidateSummarizerConfig(t *testing.T) {
	t.Run("no validator", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), nil)
		assert.NoError(t, service.ValidateSummarizerConfig())
	})

	t.Run("passes current settings", func(t *testing.T) {
		validator := &mockSummarizerValidator{}
		store := memory.NewConfigStoreWith(map[string]any{
			"summarizer.provider": "ollama",
			"summarizer.model":    "llama3.2",
		})
		service := NewSettingsService(store, validator)

		require.NoError(t, service.ValidateSummarizerConfig())
		require.NotNil(t, validator.seen)
		assert.Equal(t, domain.AIProviderOllama, validator.seen.Provider)
	})

	t.Run("propagates error", func(t *testing.T) {
		service := NewSettingsService(memory.NewConfigStore(), &mockSummarizerValidator{err: assert.AnError})
		assert.ErrorIs(t, service.ValidateSummarizerConfig(), assert.AnError)
	})
}
