package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/chatlens/internal/core/domain"
)

func sampleMessages() []domain.Message {
	return []domain.Message{
		{Timestamp: time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC), Sender: "Alice", Body: "rent is due friday"},
	}
}

func TestNew_RequiresAPIKey(t *testing.T) {
	_, err := New(Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API key is required")
}

func TestNew_Defaults(t *testing.T) {
	s, err := New(Config{APIKey: "k"})
	require.NoError(t, err)

	assert.Equal(t, DefaultModel, s.ModelName())
	assert.Equal(t, DefaultBaseURL, s.baseURL)
	assert.Equal(t, DefaultTimeout, s.client.Timeout)
	assert.NoError(t, s.Close())
}

func TestSummarize_Success(t *testing.T) {
	var got messagesRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"Alice mentioned rent. "},` +
			`{"type":"text","text":"It is due Friday."}],"stop_reason":"end_turn"}`))
	}))
	defer server.Close()

	s, err := New(Config{APIKey: "secret", BaseURL: server.URL, Model: "claude-test"})
	require.NoError(t, err)

	out, err := s.Summarize(context.Background(), sampleMessages(), "who mentioned rent?")
	require.NoError(t, err)

	assert.Equal(t, "Alice mentioned rent. It is due Friday.", out)
	assert.Equal(t, "claude-test", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "user", got.Messages[0].Role)
	assert.Contains(t, got.Messages[0].Content, "who mentioned rent?")
	assert.Contains(t, got.Messages[0].Content, "[15/1/2025, 10:30] Alice: rent is due friday")
	assert.NotEmpty(t, got.System)
	assert.Positive(t, got.MaxTokens)
}

func TestSummarize_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"type":"invalid_request_error","message":"bad model"}}`))
	}))
	defer server.Close()

	s, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), sampleMessages(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad model")
}

func TestSummarize_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	s, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), sampleMessages(), "q")
	assert.ErrorIs(t, err, domain.ErrRateLimited)
}

func TestSummarize_NoTextContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	}))
	defer server.Close()

	s, err := New(Config{APIKey: "k", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = s.Summarize(context.Background(), sampleMessages(), "q")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no response content")
}

func TestPing(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		wantErr bool
	}{
		{name: "ok", status: http.StatusOK},
		{name: "unauthorised", status: http.StatusUnauthorized, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/v1/models", r.URL.Path)
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			s, err := New(Config{APIKey: "k", BaseURL: server.URL})
			require.NoError(t, err)

			err = s.Ping(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
