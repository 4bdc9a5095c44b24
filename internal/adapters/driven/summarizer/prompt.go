// Package summarizer holds the prompt and transcript rendering shared by
// the semantic summarizer adapters.
package summarizer

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
)

// DefaultSystemPrompt is used when no PromptStore is configured.
const DefaultSystemPrompt = `You analyse WhatsApp group chat transcripts.
Answer the user's question using only the messages provided.
Quote senders by name when attributing statements.
If the transcript does not contain the answer, say so plainly.`

// DefaultQueryPrompt frames the question and transcript excerpt.
const DefaultQueryPrompt = `Question: %s

Transcript:
%s`

// MaxOutputTokens caps the length of a generated analysis.
const MaxOutputTokens = 1024

// LoadPrompt loads a prompt from the store, falling back to the default if unavailable.
func LoadPrompt(store driven.PromptStore, name, fallback string) string {
	if store == nil {
		return fallback
	}
	prompt, err := store.Load(name)
	if err != nil || strings.TrimSpace(prompt) == "" {
		return fallback
	}
	return prompt
}

// BuildPrompts returns the system prompt and the user message for a query.
func BuildPrompts(store driven.PromptStore, messages []domain.Message, query string) (system, user string) {
	system = LoadPrompt(store, driven.PromptSemanticSystem, DefaultSystemPrompt)
	template := LoadPrompt(store, driven.PromptSemanticQuery, DefaultQueryPrompt)
	if strings.Count(template, "%s") < 2 {
		template = DefaultQueryPrompt
	}
	user = fmt.Sprintf(template, query, RenderTranscript(messages))
	return system, user
}

// RenderTranscript writes messages back out in export form, one header per message.
// Media and system messages are included so the model sees the full context.
func RenderTranscript(messages []domain.Message) string {
	var b strings.Builder
	for i := range messages {
		m := &messages[i]
		if !m.Timestamp.IsZero() {
			fmt.Fprintf(&b, "[%d/%d/%d, %02d:%02d] ",
				m.Timestamp.Day(), int(m.Timestamp.Month()), m.Timestamp.Year(),
				m.Timestamp.Hour(), m.Timestamp.Minute())
		}
		b.WriteString(m.Sender)
		b.WriteString(": ")
		b.WriteString(m.Body)
		b.WriteByte('\n')
	}
	return b.String()
}
