// Package server is the bundled reply backend. It exposes POST /api/chat and
// forwards the conversation to an OpenAI-compatible upstream.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"

	"tableflip.dev/soulsync/pkg/message"
	"tableflip.dev/soulsync/pkg/reply"
)

const (
	EnvAPIBase = "LLM_API_BASE"
	EnvAPIKey  = "LLM_API_KEY"
	EnvModel   = "LLM_MODEL"
)

// Completer produces a completion for wire messages. An empty model means the
// completer default.
type Completer interface {
	Complete(ctx context.Context, msgs []message.WireMessage, model string) (string, error)
}

// Config holds the upstream settings read from the environment.
type Config struct {
	APIBase string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// ConfigFromEnv loads .env when present and reads the LLM_* variables.
func ConfigFromEnv(timeout time.Duration) Config {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("[server] failed to load .env: %v", err)
	}
	return Config{
		APIBase: os.Getenv(EnvAPIBase),
		APIKey:  os.Getenv(EnvAPIKey),
		Model:   os.Getenv(EnvModel),
		Timeout: timeout,
	}
}

// Upstream builds the completion client for c.
func (c Config) Upstream() *reply.Upstream {
	return reply.NewUpstream(c.APIBase, c.APIKey, c.Model, c.Timeout)
}

// Handler serves the chat endpoint.
type Handler struct {
	upstream Completer
}

// New creates a handler over upstream.
func New(upstream Completer) *Handler {
	return &Handler{upstream: upstream}
}

// RegisterRoutes mounts the handler routes on r.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/chat", h.handleChat)
}

// NewRouter wires the middleware stack and the /api routes.
func NewRouter(upstream Completer) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
		MaxAge:         300,
	}))

	h := New(upstream)
	r.Route("/api", func(api chi.Router) {
		h.RegisterRoutes(api)
	})
	return r
}

var validRoles = map[string]bool{"system": true, "user": true, "assistant": true}

func (h *Handler) handleChat(w http.ResponseWriter, r *http.Request) {
	var req reply.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	for i, m := range req.Messages {
		if !validRoles[m.Role] {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("messages[%d]: unsupported role %q", i, m.Role))
			return
		}
	}

	content, err := h.upstream.Complete(r.Context(), req.Messages, strings.TrimSpace(req.Model))
	switch {
	case errors.Is(err, reply.ErrNoAPIKey):
		respondError(w, http.StatusInternalServerError, "LLM_API_KEY is not set in environment.")
		return
	case err != nil:
		log.Printf("[server] completion failed: %v", err)
		respondError(w, http.StatusInternalServerError, fmt.Sprintf("LLM error: %v", err))
		return
	}
	respondJSON(w, http.StatusOK, reply.ChatResponse{Content: content})
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[server] encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, detail string) {
	respondJSON(w, status, reply.ErrorResponse{Detail: detail})
}

// Run serves handler on addr until ctx is done, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("[server] SoulSync backend listening on %s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	}
}
