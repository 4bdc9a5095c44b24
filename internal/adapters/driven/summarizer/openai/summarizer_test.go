package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

func responseBody(t *testing.T, text string) []byte {
	t.Helper()
	body, err := json.Marshal(map[string]any{
		"id":         "resp_1",
		"object":     "response",
		"created_at": 0,
		"model":      "gpt-test",
		"status":     "completed",
		"output": []any{
			map[string]any{
				"type":   "message",
				"id":     "msg_1",
				"role":   "assistant",
				"status": "completed",
				"content": []any{
					map[string]any{"type": "output_text", "text": text, "annotations": []any{}},
				},
			},
		},
	})
	require.NoError(t, err)
	return body
}

func newTestSummarizer(t *testing.T, url string) *Summarizer {
	t.Helper()
	s, err := New(Config{APIKey: "sk-test", BaseURL: url, Model: "gpt-test", Timeout: 5 * time.Second})
	require.NoError(t, err)
	s.rateLimitWaits = []time.Duration{time.Millisecond}
	s.serverErrorWaits = []time.Duration{time.Millisecond}
	return s
}

func sampleMessages() []domain.Message {
	return []domain.Message{
		{Timestamp: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC), Sender: "Alice", Body: "I paid $40 for dinner"},
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNew_DefaultModel(t *testing.T) {
	s, err := New(Config{APIKey: "k"})
	require.NoError(t, err)
	assert.Equal(t, DefaultModel, s.ModelName())
	assert.NoError(t, s.Close())
}

func TestAnswerSchema_IsStrict(t *testing.T) {
	assert.Equal(t, "object", answerSchema["type"])
	assert.Equal(t, false, answerSchema["additionalProperties"])
	assert.ElementsMatch(t, []string{"analysis", "relevant_senders"}, answerSchema["required"])
	assert.NotContains(t, answerSchema, "$schema")
}

func TestSummarize_StructuredAnswer(t *testing.T) {
	var captured map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/responses", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		raw, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(raw, &captured))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(responseBody(t, `{"analysis":"Alice paid for dinner.","relevant_senders":["Alice"]}`))
	}))
	defer server.Close()

	s := newTestSummarizer(t, server.URL)
	out, err := s.Summarize(context.Background(), sampleMessages(), "who paid?")
	require.NoError(t, err)

	assert.Equal(t, "Alice paid for dinner.\n\nRelevant senders: Alice", out)
	assert.Equal(t, "gpt-test", captured["model"])
	assert.NotEmpty(t, captured["instructions"])
}

func TestSummarize_PlainTextPassthrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(responseBody(t, "Nobody mentioned rent."))
	}))
	defer server.Close()

	out, err := newTestSummarizer(t, server.URL).Summarize(context.Background(), sampleMessages(), "rent?")
	require.NoError(t, err)
	assert.Equal(t, "Nobody mentioned rent.", out)
}

func TestSummarize_RetriesServerError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_, _ = w.Write(responseBody(t, `{"analysis":"ok","relevant_senders":[]}`))
	}))
	defer server.Close()

	out, err := newTestSummarizer(t, server.URL).Summarize(context.Background(), sampleMessages(), "q")
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSummarize_RateLimitExhausted(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"slow down","type":"requests"}}`))
	}))
	defer server.Close()

	_, err := newTestSummarizer(t, server.URL).Summarize(context.Background(), sampleMessages(), "q")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRateLimited)
	assert.Equal(t, int32(2), calls.Load())
}

func TestSummarize_ClientErrorNotRetried(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"bad request","type":"invalid_request_error"}}`))
	}))
	defer server.Close()

	_, err := newTestSummarizer(t, server.URL).Summarize(context.Background(), sampleMessages(), "q")
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestFormatAnswer(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "empty", raw: "  ", wantErr: true},
		{name: "plain", raw: "just text", want: "just text"},
		{name: "no senders", raw: `{"analysis":" done ","relevant_senders":[]}`, want: "done"},
		{name: "senders", raw: `{"analysis":"x","relevant_senders":["A","B"]}`, want: "x\n\nRelevant senders: A, B"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := formatAnswer(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	}))
	defer server.Close()

	assert.NoError(t, newTestSummarizer(t, server.URL).Ping(context.Background()))
}
