package reply

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"tableflip.dev/soulsync/pkg/message"
)

// Remote calls a reply service speaking the /api/chat contract.
type Remote struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

// NewRemote creates a client for endpoint. An empty model lets the service
// pick its default.
func NewRemote(endpoint, model string, timeout time.Duration) *Remote {
	return &Remote{
		endpoint: strings.TrimSpace(endpoint),
		model:    model,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Reply posts the role-mapped history and returns the reply content. Every
// failure, including non-2xx statuses and timeouts, wraps ErrUnavailable.
func (r *Remote) Reply(ctx context.Context, history []message.Message) (string, error) {
	if r.endpoint == "" {
		return "", fmt.Errorf("%w: no endpoint configured", ErrUnavailable)
	}

	body, err := json.Marshal(ChatRequest{Messages: message.ToWire(history), Model: r.model})
	if err != nil {
		return "", fmt.Errorf("reply: marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: create request: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp ErrorResponse
		if err := json.Unmarshal(respBody, &errResp); err == nil && errResp.Detail != "" {
			return "", fmt.Errorf("%w: [%d] %s", ErrUnavailable, resp.StatusCode, errResp.Detail)
		}
		return "", fmt.Errorf("%w: [%d] %s", ErrUnavailable, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var out ChatResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return out.Content, nil
}
