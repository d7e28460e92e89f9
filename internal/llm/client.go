// Package llm provides the deadline-bounded completion client for the
// Ollama-style text-generation backend.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/neoweileng-spec/telegram-agent-backend/internal/domain"
)

// MaxReplyChars is the transport message-size ceiling. Successful responses
// are truncated to this length.
const MaxReplyChars = 3500

// DefaultModel is used when no model is configured.
const DefaultModel = "llama3.1:8b"

// User-presentable fallback replies. Complete never returns an empty string:
// on failure the text return still carries one of these.
const (
	notConfiguredReply = "LLM not configured (missing OLLAMA_URL)."
	timeoutReply       = "The model request timed out. Please try again."
	emptyReply         = "The model returned no text."
	snagReply          = "I hit a snag preparing the model request. Try again."
)

var (
	// ErrNotConfigured means the backend address is absent.
	ErrNotConfigured = errors.New("completion backend not configured")
	// ErrEmptyResponse means the backend succeeded but returned no text.
	ErrEmptyResponse = errors.New("completion backend returned no text")
)

// BackendError is a non-success response from the backend.
type BackendError struct {
	Status int
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("completion backend returned status %d", e.Status)
}

// Completer issues one completion call under the context deadline.
type Completer interface {
	// Complete returns generated text. On failure the string is a short
	// user-presentable fallback and the error carries the typed cause, so
	// best-effort callers can detect failure while reply paths always have
	// usable text.
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Options are the fixed sampling options sent with every request.
type Options struct {
	Temperature   float64 `json:"temperature"`
	TopP          float64 `json:"top_p"`
	RepeatPenalty float64 `json:"repeat_penalty"`
	NumCtx        int     `json:"num_ctx"`
}

// DefaultOptions returns the sampling options used in production.
func DefaultOptions() Options {
	return Options{
		Temperature:   0.7,
		TopP:          0.9,
		RepeatPenalty: 1.1,
		NumCtx:        4096,
	}
}

// Config holds completion client configuration.
type Config struct {
	// BaseURL of the backend, e.g. "http://localhost:11434". Empty means
	// not configured; calls degrade to an advisory reply.
	BaseURL string
	Model   string
	Options Options
}

// Client calls the backend's /api/generate endpoint.
type Client struct {
	baseURL string
	model   string
	opts    Options
	httpc   *http.Client
	logger  *slog.Logger
}

// NewClient creates a completion client. The HTTP client carries no global
// timeout; every call is bounded by its context deadline instead.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	opts := cfg.Options
	if opts == (Options{}) {
		opts = DefaultOptions()
	}
	return &Client{
		baseURL: cfg.BaseURL,
		model:   model,
		opts:    opts,
		httpc:   &http.Client{},
		logger:  logger,
	}
}

type generateRequest struct {
	Model   string  `json:"model"`
	Stream  bool    `json:"stream"`
	System  string  `json:"system"`
	Prompt  string  `json:"prompt"`
	Options Options `json:"options"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Complete issues one generation call. Cancellation is cooperative: when the
// context deadline elapses the in-flight request is aborted, not abandoned.
func (c *Client) Complete(ctx context.Context, system, prompt string) (string, error) {
	if c.baseURL == "" {
		return notConfiguredReply, ErrNotConfigured
	}

	body, err := json.Marshal(generateRequest{
		Model:   c.model,
		Stream:  false,
		System:  system,
		Prompt:  prompt,
		Options: c.opts,
	})
	if err != nil {
		return snagReply, fmt.Errorf("marshal generate request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return snagReply, fmt.Errorf("build generate request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return timeoutReply, fmt.Errorf("generate call: %w", ctxErr)
		}
		c.logger.Error("completion request failed", "error", err)
		return timeoutReply, fmt.Errorf("generate call: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close completion response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("completion backend error", "status", resp.StatusCode, "body", string(snippet))
		return fmt.Sprintf("I hit an error talking to the model (status %d). Try again.", resp.StatusCode),
			&BackendError{Status: resp.StatusCode}
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		c.logger.Warn("completion response did not parse", "error", err)
		return emptyReply, ErrEmptyResponse
	}
	if out.Response == "" {
		return emptyReply, ErrEmptyResponse
	}

	return domain.TruncateRunes(out.Response, MaxReplyChars), nil
}
