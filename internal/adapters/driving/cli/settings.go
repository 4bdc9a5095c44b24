package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

var (
	analysisTopWords      int
	analysisMinWordLength int
	analysisTopEmoji      int
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the semantic search summarizer, analysis tuning
and the default search mode.

Settings are stored in ~/.chatlens/config.toml.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSummarizerCmd = &cobra.Command{
	Use:   "summarizer",
	Short: "Configure the semantic search summarizer",
	Long: `Configure the AI provider used by semantic search.

Available providers:
  ollama     - Local Ollama instance (no API key)
  openai     - OpenAI cloud API
  anthropic  - Anthropic cloud API

Without a summarizer, semantic searches fall back to keyword search.`,
	RunE: runSettingsSummarizer,
}

var settingsAnalysisCmd = &cobra.Command{
	Use:   "analysis",
	Short: "Configure analysis tuning",
	Long: `Set the size of the word and emoji rankings and the minimum word length.
Flags that are not given keep their current value.`,
	RunE: runSettingsAnalysis,
}

var settingsModeCmd = &cobra.Command{
	Use:   "mode [mode]",
	Short: "Set the default search mode",
	Long: `Set the search mode used when --mode is not given.

Available modes:
  keyword    - Messages containing any query term
  sentiment  - Positive or negative messages
  financial  - Money-related messages ranked by relevance
  semantic   - AI summary with keyword fallback`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSettingsMode,
}

func init() {
	settingsAnalysisCmd.Flags().IntVar(&analysisTopWords, "top-words", 0, "number of words in the ranking")
	settingsAnalysisCmd.Flags().IntVar(&analysisMinWordLength, "min-word-length", 0,
		"words of at most this many characters are ignored")
	settingsAnalysisCmd.Flags().IntVar(&analysisTopEmoji, "top-emoji", 0, "number of emoji in the ranking")

	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSummarizerCmd)
	settingsCmd.AddCommand(settingsAnalysisCmd)
	settingsCmd.AddCommand(settingsModeCmd)
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

	// Search settings
	cmd.Println("[Search]")
	cmd.Printf("  Default mode: %s\n", settings.Search.DefaultMode.Description())
	cmd.Printf("  Financial limit: %d\n", settings.Search.FinancialLimit)
	cmd.Printf("  Semantic window: %d messages\n", settings.Search.SemanticWindow)
	cmd.Println()

	// Analysis settings
	cmd.Println("[Analysis]")
	cmd.Printf("  Top words: %d\n", settings.Analysis.TopWords)
	cmd.Printf("  Minimum word length: %d\n", settings.Analysis.MinWordLength)
	cmd.Printf("  Top emoji: %d\n", settings.Analysis.TopEmoji)
	cmd.Println()

	// Summarizer settings
	cmd.Println("[Summarizer]")
	if settings.Summarizer.Provider == "" {
		cmd.Println("  Provider: (none, semantic search uses keyword fallback)")
	} else {
		cmd.Printf("  Provider: %s\n", settings.Summarizer.Provider.Description())
		cmd.Printf("  Model: %s\n", settings.Summarizer.Model)
		if settings.Summarizer.Provider.IsLocal() {
			cmd.Printf("  Base URL: %s\n", settings.Summarizer.BaseURL)
		}
		if settings.Summarizer.Provider.RequiresAPIKey() {
			if settings.Summarizer.APIKey != "" {
				cmd.Printf("  API Key: %s\n", maskAPIKey(settings.Summarizer.APIKey))
			} else {
				cmd.Printf("  API Key: (not set)\n")
			}
		}
		cmd.Printf("  Timeout: %s\n", settings.Summarizer.Timeout)
		if settings.Summarizer.RequestsPerMinute > 0 {
			cmd.Printf("  Rate limit: %d requests/minute\n", settings.Summarizer.RequestsPerMinute)
		}
		status := "configured"
		if !settings.Summarizer.IsConfigured() {
			status = "not configured"
		}
		cmd.Printf("  Status: %s\n", status)
	}
	cmd.Println()

	cmd.Println("[Storage]")
	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		dataDir = "~/.chatlens/data"
	}
	cmd.Printf("  Data directory: %s\n", dataDir)
	cmd.Printf("  Processors: %s\n", strings.Join(settings.Pipeline.Processors, ", "))
	cmd.Println()

	// Validation
	if err := settingsService.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'chatlens settings summarizer' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}

	return nil
}

func runSettingsSummarizer(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	in := cmd.InOrStdin()
	reader := bufio.NewReader(in)

	cmd.Println("Select Summarizer Provider")
	providers := domain.AllSummarizerProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers), 1)
	selectedProvider := providers[idx-1]

	// Get model
	defaultModel := domain.DefaultSummarizerModels()[selectedProvider]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	// Get API key if needed
	var apiKey string
	if selectedProvider.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(in, reader)
		cmd.Println()
		if apiKey == "" {
			return errors.New("API key is required for this provider")
		}
	}

	if err := settingsService.SetSummarizer(selectedProvider, model, apiKey); err != nil {
		return fmt.Errorf("failed to configure summarizer: %w", err)
	}

	if selectedProvider.IsLocal() {
		if err := configureBaseURL(cmd, reader); err != nil {
			return err
		}
	}

	// Validate the configuration by pinging the service
	cmd.Print("Validating configuration... ")
	if err := settingsService.ValidateSummarizerConfig(); err != nil {
		cmd.Printf("FAILED: %v\n", err)
		return fmt.Errorf("summarizer configuration validation failed: %w", err)
	}
	cmd.Println("OK")

	cmd.Printf("Summarizer configured: %s (%s)\n", selectedProvider.Description(), model)
	return nil
}

func configureBaseURL(cmd *cobra.Command, reader *bufio.Reader) error {
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Printf("Enter base URL [%s]: ", settings.Summarizer.BaseURL)
	baseURL := readLine(reader)
	if baseURL == "" || baseURL == settings.Summarizer.BaseURL {
		return nil
	}

	settings.Summarizer.BaseURL = baseURL
	if err := settingsService.Save(settings); err != nil {
		return fmt.Errorf("failed to save base URL: %w", err)
	}
	return nil
}

func runSettingsAnalysis(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	opts := domain.AnalysisOptions{
		TopWords:      analysisTopWords,
		MinWordLength: analysisMinWordLength,
		TopEmoji:      analysisTopEmoji,
	}
	if err := settingsService.SetAnalysis(opts); err != nil {
		return fmt.Errorf("failed to update analysis settings: %w", err)
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	cmd.Printf("Analysis settings: top words %d, minimum word length %d, top emoji %d\n",
		settings.Analysis.TopWords, settings.Analysis.MinWordLength, settings.Analysis.TopEmoji)
	return nil
}

func runSettingsMode(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	modes := domain.AllSearchModes()
	var selectedMode domain.SearchMode
	if len(args) == 1 {
		selectedMode = domain.SearchMode(strings.ToLower(args[0]))
	} else {
		reader := bufio.NewReader(cmd.InOrStdin())
		cmd.Println("Select Default Search Mode")
		cmd.Println("--------------------------")
		for i, mode := range modes {
			cmd.Printf("  %d. %s\n", i+1, mode.Description())
		}
		cmd.Print("\nEnter choice: ")
		idx := parseChoice(readLine(reader), len(modes), 0)
		if idx == 0 {
			return errors.New("invalid selection")
		}
		selectedMode = modes[idx-1]
	}

	if err := settingsService.SetDefaultSearchMode(selectedMode); err != nil {
		return fmt.Errorf("failed to set search mode: %w", err)
	}
	cmd.Printf("Default search mode set to: %s\n", selectedMode.Description())

	if selectedMode.RequiresSummarizer() {
		settings, _ := settingsService.Get() //nolint:errcheck // Best-effort check
		if settings != nil && !settings.Summarizer.IsConfigured() {
			cmd.Println("\nNote: Without a summarizer this mode falls back to keyword search.")
			cmd.Println("Run 'chatlens settings summarizer' to configure one.")
		}
	}

	return nil
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads a secret without echo when in is a terminal and
// falls back to a plain line read otherwise.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && reader.Buffered() == 0 && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
