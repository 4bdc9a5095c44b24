// Package mcp provides an MCP (Model Context Protocol) server adapter for chatlens.
// It lets AI assistants parse, analyse and search WhatsApp chat exports.
package mcp

import (
	"errors"
	"fmt"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/logger"
)

var (
	// ErrMissingTranscriptService is returned when the transcript service is not provided.
	ErrMissingTranscriptService = errors.New("mcp: transcript service is required")

	// ErrMissingAnalysisService is returned when the analysis service is not provided.
	ErrMissingAnalysisService = errors.New("mcp: analysis service is required")

	// ErrMissingSearchService is returned when the search service is not provided.
	ErrMissingSearchService = errors.New("mcp: search service is required")

	// ErrRequestFailed is reported to clients for failures that are not their fault.
	ErrRequestFailed = errors.New("request failed")
)

// toolError keeps validation and not-found errors actionable and hides
// everything else behind a generic category.
func toolError(op string, err error) error {
	if domain.IsValidationError(err) || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	logger.Warn("mcp %s: %v", op, err)
	return fmt.Errorf("%s: %w", op, ErrRequestFailed)
}
