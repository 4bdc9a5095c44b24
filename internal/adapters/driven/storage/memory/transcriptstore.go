package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

// Ensure TranscriptStore implements the interface.
var _ driven.TranscriptStore = (*TranscriptStore)(nil)

// TranscriptStore is an in-memory implementation of driven.TranscriptStore.
type TranscriptStore struct {
	mu          sync.RWMutex
	transcripts map[string]domain.Transcript
}

// NewTranscriptStore creates a new in-memory transcript store.
func NewTranscriptStore() *TranscriptStore {
	return &TranscriptStore{
		transcripts: make(map[string]domain.Transcript),
	}
}

// Save stores or replaces a transcript.
func (s *TranscriptStore) Save(_ context.Context, t *domain.Transcript) error {
	if t == nil || t.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.transcripts[t.ID] = cloneTranscript(t)
	return nil
}

// Get retrieves a transcript by ID.
func (s *TranscriptStore) Get(_ context.Context, id string) (*domain.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.transcripts[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	out := cloneTranscript(&t)
	return &out, nil
}

// List returns summaries of all transcripts, newest import first.
func (s *TranscriptStore) List(_ context.Context) ([]domain.TranscriptSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]domain.TranscriptSummary, 0, len(s.transcripts))
	for id := range s.transcripts {
		t := s.transcripts[id]
		result = append(result, t.Summary())
	}
	sort.Slice(result, func(i, j int) bool {
		if !result[i].ImportedAt.Equal(result[j].ImportedAt) {
			return result[i].ImportedAt.After(result[j].ImportedAt)
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

// Delete removes a transcript.
func (s *TranscriptStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.transcripts[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.transcripts, id)
	return nil
}

func cloneTranscript(t *domain.Transcript) domain.Transcript {
	out := *t
	out.Messages = make([]domain.Message, len(t.Messages))
	copy(out.Messages, t.Messages)
	if t.Anomalies != nil {
		out.Anomalies = make([]domain.ParseAnomaly, len(t.Anomalies))
		copy(out.Anomalies, t.Anomalies)
	}
	return out
}
