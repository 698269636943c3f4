package reply

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tableflip.dev/soulsync/pkg/message"
)

func history() []message.Message {
	now := time.Now()
	return []message.Message{
		message.New(message.User, "hi", now),
		message.New(message.Assistant, "hello", now),
		message.New(message.User, "I feel so tired", now),
	}
}

func TestRemoteReplyMapsRoles(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/chat", r.URL.Path)

		var req ChatRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 3)
		assert.Equal(t, "user", req.Messages[0].Role)
		assert.Equal(t, "assistant", req.Messages[1].Role)
		assert.Equal(t, "I feel so tired", req.Messages[2].Content)
		assert.Equal(t, "tiny", req.Model)

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"content":"Rest is allowed."}`)
	}))
	defer server.Close()

	r := NewRemote(server.URL+"/api/chat", "tiny", time.Second)
	got, err := r.Reply(context.Background(), history())
	require.NoError(t, err)
	assert.Equal(t, "Rest is allowed.", got)
}

func TestRemoteReplyOmitsEmptyModel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		_, hasModel := raw["model"]
		assert.False(t, hasModel)
		fmt.Fprint(w, `{"content":""}`)
	}))
	defer server.Close()

	got, err := NewRemote(server.URL, "", time.Second).Reply(context.Background(), history())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRemoteReplyFailuresAreUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"detail":"LLM_API_KEY is not set in environment."}`)
	}))
	defer server.Close()

	_, err := NewRemote(server.URL, "", time.Second).Reply(context.Background(), history())
	require.ErrorIs(t, err, ErrUnavailable)
	assert.Contains(t, err.Error(), "LLM_API_KEY")

	_, err = NewRemote("", "", time.Second).Reply(context.Background(), history())
	require.ErrorIs(t, err, ErrUnavailable)

	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		fmt.Fprint(w, `{"content":"late"}`)
	}))
	defer slow.Close()
	_, err = NewRemote(slow.URL, "", 20*time.Millisecond).Reply(context.Background(), history())
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		text string
		want Category
	}{
		{"I'm so ANXIOUS about tomorrow", Anxiety},
		{"feeling down", Sadness},
		{"I am frustrated", Anger},
		{"exhausted after work", Fatigue},
		{"hello", Default},
		{"I worry and feel sad", Anxiety},
		{"worried and sad", Sadness},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.text), tt.text)
	}
}

func TestLocalReplyUsesLastUserMessage(t *testing.T) {
	got, err := Local{}.Reply(context.Background(), history())
	require.NoError(t, err)
	assert.Equal(t, LocalReply("tired"), got)
	assert.Contains(t, got, "Rest matters")
}

func TestUpstreamComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/v1/chat/completions", r.URL.Path)
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		var req ChatCompletionRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, DefaultUpstreamModel, req.Model)
		require.NotNil(t, req.Temperature)
		assert.InDelta(t, 0.7, *req.Temperature, 1e-9)

		fmt.Fprint(w, `{"id":"c1","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}]}`)
	}))
	defer server.Close()

	u := NewUpstream(server.URL+"/v1/", "secret", "", time.Second)
	got, err := u.Complete(context.Background(), []message.WireMessage{{Role: "user", Content: "hello"}}, "")
	require.NoError(t, err)
	assert.Equal(t, "hi", got)
}

func TestUpstreamErrors(t *testing.T) {
	_, err := NewUpstream("", "", "", time.Second).Complete(context.Background(), nil, "")
	require.ErrorIs(t, err, ErrNoAPIKey)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"error":{"message":"bad","type":"invalid_request_error"}}`)
	}))
	defer server.Close()
	_, err = NewUpstream(server.URL, "k", "m", time.Second).Complete(context.Background(), nil, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_request_error")
}
