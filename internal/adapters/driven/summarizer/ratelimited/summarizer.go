// Package ratelimited throttles calls to a wrapped summarizer.
package ratelimited

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

// Ensure Summarizer implements the interfaces.
var (
	_ driven.Summarizer       = (*Summarizer)(nil)
	_ driven.PromptStoreAware = (*Summarizer)(nil)
)

// Summarizer waits for a token before each call to the wrapped summarizer.
type Summarizer struct {
	inner   driven.Summarizer
	limiter *rate.Limiter
}

// Wrap limits inner to requestsPerMinute calls with a burst of one.
// A non-positive rate returns inner unchanged.
func Wrap(inner driven.Summarizer, requestsPerMinute int) driven.Summarizer {
	if inner == nil || requestsPerMinute <= 0 {
		return inner
	}
	return &Summarizer{
		inner:   inner,
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(requestsPerMinute)), 1),
	}
}

// Summarize blocks until the limiter allows the call or ctx is done.
// A wait that cannot complete before the context deadline reports ErrRateLimited.
func (s *Summarizer) Summarize(ctx context.Context, messages []domain.Message, query string) (string, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %w", domain.ErrRateLimited, err)
	}
	return s.inner.Summarize(ctx, messages, query)
}

// ModelName returns the wrapped model name.
func (s *Summarizer) ModelName() string {
	return s.inner.ModelName()
}

// Ping is not rate limited.
func (s *Summarizer) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close closes the wrapped summarizer.
func (s *Summarizer) Close() error {
	return s.inner.Close()
}

// SetPromptStore forwards to the wrapped summarizer when it supports prompts.
func (s *Summarizer) SetPromptStore(store driven.PromptStore) {
	if aware, ok := s.inner.(driven.PromptStoreAware); ok {
		aware.SetPromptStore(store)
	}
}
