package reply

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tableflip.dev/soulsync/pkg/message"
)

const (
	DefaultUpstreamBase  = "https://api.openai.com/v1"
	DefaultUpstreamModel = "gpt-4o-mini"
	DefaultTemperature   = 0.7
)

// ErrNoAPIKey is returned before any request when the upstream key is unset.
var ErrNoAPIKey = errors.New("reply: LLM_API_KEY is not set in environment")

// Upstream is an OpenAI-compatible chat completions client (OpenAI,
// OpenRouter, LiteLLM and friends).
type Upstream struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

// NewUpstream creates a client. Empty baseURL and model fall back to the
// OpenAI defaults.
func NewUpstream(baseURL, apiKey, model string, timeout time.Duration) *Upstream {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultUpstreamBase
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultUpstreamModel
	}
	return &Upstream{
		baseURL:     strings.TrimSuffix(baseURL, "/"),
		apiKey:      apiKey,
		model:       model,
		temperature: DefaultTemperature,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Model is the default model for requests that do not name one.
func (u *Upstream) Model() string {
	return u.model
}

// ChatCompletionRequest is the OpenAI chat completion request subset we send.
type ChatCompletionRequest struct {
	Model       string                `json:"model"`
	Messages    []message.WireMessage `json:"messages"`
	Temperature *float64              `json:"temperature,omitempty"`
}

// ChatCompletionResponse is the OpenAI chat completion response subset we read.
type ChatCompletionResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
}

// Choice is one completion choice.
type Choice struct {
	Index        int                  `json:"index"`
	Message      *message.WireMessage `json:"message,omitempty"`
	FinishReason string               `json:"finish_reason,omitempty"`
}

type apiErrorResponse struct {
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// Complete runs a non-streaming completion and returns the first choice's
// content. An empty model uses the client default.
func (u *Upstream) Complete(ctx context.Context, msgs []message.WireMessage, model string) (string, error) {
	if u.apiKey == "" {
		return "", ErrNoAPIKey
	}
	if model == "" {
		model = u.model
	}
	temp := u.temperature
	body, err := json.Marshal(ChatCompletionRequest{Model: model, Messages: msgs, Temperature: &temp})
	if err != nil {
		return "", fmt.Errorf("reply: marshal completion: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("reply: create completion request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+u.apiKey)

	resp, err := u.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("reply: send completion: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reply: read completion: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var errResp apiErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Error != nil {
			return "", fmt.Errorf("LLM API error [%d]: %s (type: %s)", resp.StatusCode, errResp.Error.Message, errResp.Error.Type)
		}
		return "", fmt.Errorf("LLM API error [%d]: %s", resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(respBody, &result); err != nil {
		return "", fmt.Errorf("reply: decode completion: %w", err)
	}
	if len(result.Choices) == 0 || result.Choices[0].Message == nil {
		return "", nil
	}
	return result.Choices[0].Message.Content, nil
}
