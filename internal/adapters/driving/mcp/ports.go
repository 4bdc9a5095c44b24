package mcp

import (
	"github.com/custodia-labs/chatlens/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Transcript parses exports and manages stored transcripts.
	Transcript driving.TranscriptService

	// Analysis aggregates message statistics.
	Analysis driving.AnalysisService

	// Search runs mode-specific searches.
	Search driving.SearchService

	// Settings supplies the default search mode. Optional.
	Settings driving.SettingsService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Transcript == nil {
		return ErrMissingTranscriptService
	}
	if p.Analysis == nil {
		return ErrMissingAnalysisService
	}
	if p.Search == nil {
		return ErrMissingSearchService
	}
	return nil
}
