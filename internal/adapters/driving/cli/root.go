// Package cli implements the chatlens command line interface with cobra.
package cli

import (
	"context"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/chatlens/internal/core/ports/driving"
	"github.com/custodia-labs/chatlens/internal/logger"
)

// version is set at build time.
var version = "dev"

var verbose bool

// Services injected by main.
var (
	transcriptService driving.TranscriptService
	analysisService   driving.AnalysisService
	searchService     driving.SearchService
	settingsService   driving.SettingsService
	metricsHandler    http.Handler
)

// Services holds the driving ports used by the commands.
type Services struct {
	Transcript driving.TranscriptService
	Analysis   driving.AnalysisService
	Search     driving.SearchService
	Settings   driving.SettingsService

	// Metrics is served at /metrics by `mcp serve --port`. Optional.
	Metrics http.Handler
}

var rootCmd = &cobra.Command{
	Use:   "chatlens",
	Short: "Analyse WhatsApp chat exports",
	Long: `chatlens parses WhatsApp chat exports and reports who talks, when,
about what and in which mood.

Exports can be analysed directly from a file or imported into a local
transcript store for later searches. Supported inputs are the plain text
export plus CSV, JSON, YAML, DOCX and PDF renditions of it.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetServices injects the services used by the commands.
func SetServices(s Services) {
	transcriptService = s.Transcript
	analysisService = s.Analysis
	searchService = s.Search
	settingsService = s.Settings
	metricsHandler = s.Metrics
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
