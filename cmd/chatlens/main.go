// Package main is the chatlens entry point. It wires the driven adapters
// into the core services and hands them to the CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/chatlens/internal/adapters/driven/ai"
	"github.com/custodia-labs/chatlens/internal/adapters/driven/config/file"
	"github.com/custodia-labs/chatlens/internal/adapters/driven/metrics/prometheus"
	"github.com/custodia-labs/chatlens/internal/adapters/driven/sentiment/afinn"
	"github.com/custodia-labs/chatlens/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/chatlens/internal/adapters/driving/cli"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
	"github.com/custodia-labs/chatlens/internal/core/services"
	"github.com/custodia-labs/chatlens/internal/logger"
	"github.com/custodia-labs/chatlens/internal/normalisers/csv"
	"github.com/custodia-labs/chatlens/internal/normalisers/docx"
	"github.com/custodia-labs/chatlens/internal/normalisers/jsonexport"
	"github.com/custodia-labs/chatlens/internal/normalisers/pdf"
	"github.com/custodia-labs/chatlens/internal/normalisers/plaintext"
	"github.com/custodia-labs/chatlens/internal/normalisers/yamlexport"
	"github.com/custodia-labs/chatlens/internal/postprocessors"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cleanup, err := wire()
	if err != nil {
		fmt.Fprintln(os.Stderr, "chatlens:", err)
		os.Exit(1)
	}

	err = cli.Execute(ctx)
	cleanup()
	if err != nil {
		os.Exit(1)
	}
}

// wire builds the services and injects them into the CLI.
// The returned function releases the store and summarizer.
func wire() (func(), error) {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return nil, fmt.Errorf("opening config: %w", err)
	}
	settingsService := services.NewSettingsService(configStore, ai.NewConfigValidator())

	settings, err := settingsService.Get()
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry, afinn.New())
	pipeline, err := registry.BuildPipeline(settings.Pipeline.Processors)
	if err != nil {
		return nil, fmt.Errorf("building processor pipeline: %w", err)
	}

	dataDir := settings.Storage.DataDir
	if dataDir == "" {
		home, err := file.DefaultDir()
		if err != nil {
			return nil, err
		}
		dataDir = filepath.Join(home, "data")
	}
	store, err := sqlite.NewStore(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening transcript store: %w", err)
	}
	logger.Debug("Transcript store: %s", store.Path())

	metrics := prometheus.New()

	normalisers := services.NewNormaliserRegistry(
		plaintext.New(),
		csv.New(),
		jsonexport.New(),
		yamlexport.New(),
		docx.New(),
		pdf.New(),
	)
	transcriptService := services.NewTranscriptService(normalisers, pipeline, store.TranscriptStore())
	transcriptService.SetMetrics(metrics)

	// A broken summarizer only disables semantic search, which then
	// falls back to keyword search.
	summarizer, err := ai.CreateSummarizer(&settings.Summarizer)
	if err != nil {
		logger.Warn("Summarizer unavailable: %v", err)
		summarizer = nil
	}
	if summarizer != nil {
		if aware, ok := summarizer.(driven.PromptStoreAware); ok {
			prompts, err := file.NewPromptStore("")
			if err != nil {
				logger.Warn("Custom prompts unavailable: %v", err)
			} else {
				aware.SetPromptStore(prompts)
			}
		}
	}

	searchService := services.NewSearchService(summarizer, settings.Search)
	searchService.SetMetrics(metrics)
	if settings.Summarizer.Timeout > 0 {
		searchService.SetSummarizerTimeout(settings.Summarizer.Timeout)
	}

	cli.SetServices(cli.Services{
		Transcript: transcriptService,
		Analysis:   services.NewAnalysisService(settings.Analysis),
		Search:     searchService,
		Settings:   settingsService,
		Metrics:    metrics.Handler(),
	})
	cli.SetVersion(version)

	return func() {
		if summarizer != nil {
			if err := summarizer.Close(); err != nil {
				logger.Warn("Closing summarizer: %v", err)
			}
		}
		if err := store.Close(); err != nil {
			logger.Warn("Closing transcript store: %v", err)
		}
	}, nil
}
