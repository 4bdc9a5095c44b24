package postprocessors

import (
	"context"
	"errors"
	"testing"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

// mockProcessor is a test processor that returns predefined messages.
type mockProcessor struct {
	name     string
	messages []domain.Message
	err      error
	calls    *[]string
}

func (m *mockProcessor) Name() string {
	return m.name
}

func (m *mockProcessor) Process(_ context.Context, messages []domain.Message) ([]domain.Message, error) {
	if m.calls != nil {
		*m.calls = append(*m.calls, m.name)
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.messages != nil {
		return m.messages, nil
	}
	return messages, nil
}

func TestNewPipeline(t *testing.T) {
	p := NewPipeline()
	if p == nil {
		t.Fatal("expected non-nil pipeline")
	}
	if p.Len() != 0 {
		t.Errorf("expected 0 processors, got %d", p.Len())
	}
}

func TestPipeline_RunsInOrder(t *testing.T) {
	var calls []string
	p := NewPipeline(
		&mockProcessor{name: "first", calls: &calls},
		&mockProcessor{name: "second", calls: &calls},
	)

	out, err := p.Process(context.Background(), []domain.Message{{Body: "hi"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 message, got %d", len(out))
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Errorf("unexpected call order: %v", calls)
	}
	if names := p.Names(); len(names) != 2 || names[0] != "first" {
		t.Errorf("unexpected names: %v", names)
	}
}

func TestPipeline_NilMessages(t *testing.T) {
	p := NewPipeline()
	if _, err := p.Process(context.Background(), nil); err == nil {
		t.Error("expected error for nil messages")
	}
}

func TestPipeline_ProcessorError(t *testing.T) {
	boom := errors.New("boom")
	p := NewPipeline(&mockProcessor{name: "broken", err: boom})

	_, err := p.Process(context.Background(), []domain.Message{})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped boom error, got %v", err)
	}
}

func TestPipeline_RejectsCountChange(t *testing.T) {
	p := NewPipeline(&mockProcessor{name: "dropper", messages: []domain.Message{}})

	if _, err := p.Process(context.Background(), []domain.Message{{Body: "a"}}); err == nil {
		t.Error("expected error when a processor drops messages")
	}
}

func TestPipeline_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := NewPipeline(&mockProcessor{name: "noop"})

	if _, err := p.Process(ctx, []domain.Message{}); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestPipeline_Add(t *testing.T) {
	p := NewPipeline()
	p.Add(&mockProcessor{name: "added"})
	if p.Len() != 1 {
		t.Errorf("expected 1 processor, got %d", p.Len())
	}
}
