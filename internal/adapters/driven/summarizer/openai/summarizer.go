// Package openai provides a chat summarizer adapter using the OpenAI Responses API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"

	"github.com/custodia-labs/chatlens/internal/adapters/driven/summarizer"
	"github.com/custodia-labs/chatlens/internal/core/domain"
	"github.com/custodia-labs/chatlens/internal/core/ports/driven"
	"github.com/custodia-labs/chatlens/internal/logger"
)

// Ensure Summarizer implements the interfaces.
var (
	_ driven.Summarizer       = (*Summarizer)(nil)
	_ driven.PromptStoreAware = (*Summarizer)(nil)
)

// Default configuration values.
const (
	DefaultBaseURL = "https://api.openai.com/v1"
	DefaultModel   = "gpt-4o-mini"
	DefaultTimeout = 120 * time.Second
)

// Config holds configuration for the OpenAI summarizer.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the model to use (default: gpt-4o-mini).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// answer is the structured output requested from the model.
type answer struct {
	Analysis        string   `json:"analysis" jsonschema:"required,description=Answer to the question grounded in the transcript"`
	RelevantSenders []string `json:"relevant_senders" jsonschema:"required,description=Senders whose messages support the answer"`
}

var answerSchema = generateSchema[answer]()

// Summarizer answers questions about chat messages using OpenAI.
type Summarizer struct {
	client      openai.Client
	model       string
	promptStore driven.PromptStore

	// Waits between attempts, indexed by attempt number.
	rateLimitWaits   []time.Duration
	serverErrorWaits []time.Duration
}

// New creates a new OpenAI summarizer.
func New(cfg Config) (*Summarizer, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai: API key is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.APIKey),
		option.WithBaseURL(strings.TrimRight(cfg.BaseURL, "/")+"/"),
		option.WithRequestTimeout(cfg.Timeout),
		option.WithMaxRetries(0),
	)

	return &Summarizer{
		client:           client,
		model:            cfg.Model,
		rateLimitWaits:   []time.Duration{20 * time.Second, 40 * time.Second},
		serverErrorWaits: []time.Duration{2 * time.Second, 10 * time.Second},
	}, nil
}

// Summarize returns the model's analysis of messages with respect to query.
func (s *Summarizer) Summarize(ctx context.Context, messages []domain.Message, query string) (string, error) {
	system, user := summarizer.BuildPrompts(s.promptStore, messages, query)

	params := responses.ResponseNewParams{
		Model:           s.model,
		MaxOutputTokens: openai.Int(summarizer.MaxOutputTokens),
		Instructions:    openai.String(system),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(user, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: responses.ResponseFormatTextConfigUnionParam{
				OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
					Name:        "ChatAnalysis",
					Schema:      answerSchema,
					Strict:      openai.Bool(true),
					Description: openai.String("Analysis of chat messages"),
					Type:        "json_schema",
				},
			},
		},
	}

	resp, err := s.callWithRetry(ctx, params)
	if err != nil {
		return "", err
	}

	return formatAnswer(resp.OutputText())
}

// callWithRetry retries rate limit and server errors with fixed waits.
func (s *Summarizer) callWithRetry(ctx context.Context, params responses.ResponseNewParams) (*responses.Response, error) {
	for attempt := 0; ; attempt++ {
		resp, err := s.client.Responses.New(ctx, params)
		if err == nil {
			return resp, nil
		}

		var waits []time.Duration
		switch {
		case isRateLimitError(err):
			waits = s.rateLimitWaits
			if attempt >= len(waits) {
				return nil, fmt.Errorf("openai: %w: %w", domain.ErrRateLimited, err)
			}
		case isServerError(err):
			waits = s.serverErrorWaits
		}
		if attempt >= len(waits) {
			return nil, fmt.Errorf("openai: %w", err)
		}

		logger.Debug("openai: attempt %d failed, retrying in %s: %v", attempt+1, waits[attempt], err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(waits[attempt]):
		}
	}
}

// formatAnswer renders the structured model output as prose.
// Output that is not valid JSON is returned as-is.
func formatAnswer(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("openai: no response content returned")
	}

	var out answer
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return raw, nil
	}

	analysis := strings.TrimSpace(out.Analysis)
	if len(out.RelevantSenders) == 0 {
		return analysis, nil
	}
	return fmt.Sprintf("%s\n\nRelevant senders: %s", analysis, strings.Join(out.RelevantSenders, ", ")), nil
}

func statusCode(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

func isRateLimitError(err error) bool {
	if statusCode(err) == http.StatusTooManyRequests {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "rate limit") ||
		strings.Contains(errStr, "too many requests")
}

func isServerError(err error) bool {
	if statusCode(err) >= http.StatusInternalServerError {
		return true
	}
	errStr := strings.ToLower(err.Error())
	return strings.Contains(errStr, "internal server error") ||
		strings.Contains(errStr, "server_error")
}

// ModelName returns the name of the model being used.
func (s *Summarizer) ModelName() string {
	return s.model
}

// SetPromptStore sets the prompt store for loading customisable prompts.
// If not set, the summarizer uses its built-in prompts.
func (s *Summarizer) SetPromptStore(store driven.PromptStore) {
	s.promptStore = store
}

// Ping validates the API key by listing models.
func (s *Summarizer) Ping(ctx context.Context) error {
	if _, err := s.client.Models.List(ctx); err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	return nil
}

// Close releases resources.
func (s *Summarizer) Close() error {
	return nil
}
