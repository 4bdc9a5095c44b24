package services

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
	"github.com/custodia-labs/chatlens/internal/logger"
)

// Ensure NormaliserRegistry implements the interface.
var _ driven.NormaliserRegistry = (*NormaliserRegistry)(nil)

// NormaliserRegistry dispatches files to normalisers by extension, then MIME type.
type NormaliserRegistry struct {
	mu          sync.RWMutex
	normalisers []driven.Normaliser
}

// NewNormaliserRegistry creates a registry with the given normalisers.
func NewNormaliserRegistry(normalisers ...driven.Normaliser) *NormaliserRegistry {
	r := &NormaliserRegistry{}
	for _, n := range normalisers {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser to the registry.
func (r *NormaliserRegistry) Register(n driven.Normaliser) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.normalisers = append(r.normalisers, n)
}

// Normalise converts raw with the best matching normaliser and returns its name.
func (r *NormaliserRegistry) Normalise(
	ctx context.Context, raw *domain.RawFile,
) (*driven.NormaliseResult, string, error) {
	if raw == nil || len(raw.Content) == 0 {
		return nil, "", domain.ErrEmptyInput
	}

	ext := raw.Extension
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(raw.Name))
	}

	n := r.selectNormaliser(ext, raw.MIMEType)
	if n == nil {
		return nil, "", fmt.Errorf("%w: %q (supported: %s)",
			domain.ErrUnsupportedFormat, ext, strings.Join(r.SupportedExtensions(), ", "))
	}
	logger.Debug("Normalising %s with %s (priority %d)", raw.Name, n.Name(), n.Priority())

	res, err := n.Normalise(ctx, raw)
	if err != nil {
		return nil, n.Name(), fmt.Errorf("normalise %s: %w", raw.Name, err)
	}
	return res, n.Name(), nil
}

// selectNormaliser returns the highest-priority match, preferring an
// extension match over a MIME match. Ties keep registration order.
func (r *NormaliserRegistry) selectNormaliser(ext, mimeType string) driven.Normaliser {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var best driven.Normaliser
	for _, n := range r.normalisers {
		if ext != "" && slices.Contains(n.SupportedExtensions(), ext) {
			if best == nil || n.Priority() > best.Priority() {
				best = n
			}
		}
	}
	if best != nil || mimeType == "" {
		return best
	}

	mimeType = strings.ToLower(strings.TrimSpace(strings.Split(mimeType, ";")[0]))
	for _, n := range r.normalisers {
		if slices.Contains(n.SupportedMIMETypes(), mimeType) {
			if best == nil || n.Priority() > best.Priority() {
				best = n
			}
		}
	}
	return best
}

// SupportedExtensions returns all extensions that can be normalised, sorted.
func (r *NormaliserRegistry) SupportedExtensions() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var exts []string
	for _, n := range r.normalisers {
		for _, e := range n.SupportedExtensions() {
			if _, ok := seen[e]; !ok {
				seen[e] = struct{}{}
				exts = append(exts, e)
			}
		}
	}
	sort.Strings(exts)
	return exts
}
