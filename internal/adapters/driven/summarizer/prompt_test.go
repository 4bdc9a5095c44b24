package summarizer

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

type stubPromptStore struct {
	prompts map[string]string
}

func (s *stubPromptStore) Load(name string) (string, error) {
	p, ok := s.prompts[name]
	if !ok {
		return "", errors.New("not found")
	}
	return p, nil
}

func (s *stubPromptStore) Reload() {}

func TestRenderTranscript(t *testing.T) {
	messages := []domain.Message{
		{Timestamp: time.Date(2025, 1, 5, 9, 3, 0, 0, time.UTC), Sender: "Alice", Body: "morning"},
		{Timestamp: time.Date(2025, 11, 15, 21, 30, 0, 0, time.UTC), Sender: "Bob", Body: "line one\nline two"},
		{Sender: "Carol", Body: "no time"},
	}

	out := RenderTranscript(messages)

	assert.Equal(t,
		"[5/1/2025, 09:03] Alice: morning\n"+
			"[15/11/2025, 21:30] Bob: line one\nline two\n"+
			"Carol: no time\n",
		out)
}

func TestRenderTranscript_Empty(t *testing.T) {
	assert.Empty(t, RenderTranscript(nil))
}

func TestLoadPrompt(t *testing.T) {
	store := &stubPromptStore{prompts: map[string]string{
		"custom": "from store",
		"blank":  "   ",
	}}

	assert.Equal(t, "fallback", LoadPrompt(nil, "custom", "fallback"))
	assert.Equal(t, "from store", LoadPrompt(store, "custom", "fallback"))
	assert.Equal(t, "fallback", LoadPrompt(store, "missing", "fallback"))
	assert.Equal(t, "fallback", LoadPrompt(store, "blank", "fallback"))
}

func TestBuildPrompts_Defaults(t *testing.T) {
	messages := []domain.Message{
		{Timestamp: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC), Sender: "Alice", Body: "rent is due"},
	}

	system, user := BuildPrompts(nil, messages, "who mentioned rent?")

	assert.Equal(t, DefaultSystemPrompt, system)
	assert.Contains(t, user, "Question: who mentioned rent?")
	assert.Contains(t, user, "[15/1/2025, 10:30] Alice: rent is due")
}

func TestBuildPrompts_CustomTemplate(t *testing.T) {
	store := &stubPromptStore{prompts: map[string]string{
		driven.PromptSemanticSystem: "be brief",
		driven.PromptSemanticQuery:  "Q=%s T=%s",
	}}

	system, user := BuildPrompts(store, []domain.Message{{Sender: "A", Body: "hi"}}, "q")

	assert.Equal(t, "be brief", system)
	assert.Equal(t, "Q=q T=A: hi\n", user)
}

func TestBuildPrompts_TemplateWithoutPlaceholdersFallsBack(t *testing.T) {
	store := &stubPromptStore{prompts: map[string]string{
		driven.PromptSemanticQuery: "no placeholders here",
	}}

	_, user := BuildPrompts(store, nil, "q")

	assert.Contains(t, user, "Question: q")
}
