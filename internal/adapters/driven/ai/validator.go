package ai

import (
	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.SummarizerValidator = (*ConfigValidator)(nil)

// ConfigValidator validates summarizer provider configurations.
type ConfigValidator struct{}

// NewConfigValidator creates a new summarizer config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateSummarizer validates a summarizer configuration by pinging the provider.
func (v *ConfigValidator) ValidateSummarizer(config *domain.SummarizerSettings) error {
	return ValidateSummarizerConfig(config)
}
