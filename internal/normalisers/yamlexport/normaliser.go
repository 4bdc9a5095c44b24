// Package yamlexport normalises chat exports saved as YAML message lists.
package yamlexport

import (
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
	"github.com/custodia-labs/chatlens/internal/normalisers"
	"github.com/custodia-labs/chatlens/internal/normalisers/structured"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles YAML chat exports.
type Normaliser struct{}

// New creates a new YAML export normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "yaml-export"
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".yaml", ".yml"}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/yaml", "application/x-yaml", "text/yaml"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise decodes the message list without going through the line parser.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawFile) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, err := normalisers.DecodeText(raw.Content)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := yaml.Unmarshal([]byte(text), &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML: %v", domain.ErrInvalidInput, err)
	}

	messages, err := structured.Decode(doc)
	if err != nil {
		return nil, err
	}

	return &driven.NormaliseResult{Messages: messages, Structured: true}, nil
}
