// Package jsonexport normalises chat exports saved as JSON message arrays.
package jsonexport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
	"github.com/custodia-labs/chatlens/internal/normalisers"
	"github.com/custodia-labs/chatlens/internal/normalisers/structured"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles JSON chat exports.
type Normaliser struct{}

// New creates a new JSON export normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Name returns the normaliser name.
func (n *Normaliser) Name() string {
	return "json-export"
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".json"}
}

// SupportedMIMETypes returns the MIME types this normaliser handles.
func (n *Normaliser) SupportedMIMETypes() []string {
	return []string{"application/json", "text/json"}
}

// Priority returns the selection priority.
func (n *Normaliser) Priority() int {
	return 50
}

// Normalise decodes the message array without going through the line parser.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawFile) (*driven.NormaliseResult, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	text, err := normalisers.DecodeText(raw.Content)
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(bytes.TrimSpace([]byte(text)), &doc); err != nil {
		return nil, fmt.Errorf("%w: invalid JSON: %v", domain.ErrInvalidInput, err)
	}

	messages, err := structured.Decode(doc)
	if err != nil {
		return nil, err
	}

	return &driven.NormaliseResult{Messages: messages, Structured: true}, nil
}
