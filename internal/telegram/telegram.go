// Package telegram provides the outbound message client and the inbound
// webhook wire types for the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/neoweileng-spec/telegram-agent-backend/internal/domain"
)

// MaxMessageChars is the largest reply the transport accepts; longer text is
// truncated before sending.
const MaxMessageChars = 3500

// DefaultBaseURL is the production Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// Update is an inbound webhook payload. Only the fields the bot consumes are
// decoded.
type Update struct {
	Message *Message `json:"message"`
}

// Message is one inbound chat message.
type Message struct {
	Chat Chat   `json:"chat"`
	Text string `json:"text"`
}

// Chat identifies the conversation.
type Chat struct {
	ID int64 `json:"id"`
}

// Config holds Telegram client configuration.
type Config struct {
	// Token is the bot token. Empty disables sending (useful in tests).
	Token string
	// BaseURL overrides the Bot API endpoint; defaults to DefaultBaseURL.
	BaseURL string
}

// Client delivers outbound replies via sendMessage.
type Client struct {
	token   string
	baseURL string
	httpc   *http.Client
	logger  *slog.Logger
}

// NewClient creates a Telegram client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		token:   cfg.Token,
		baseURL: baseURL,
		httpc:   &http.Client{},
		logger:  logger,
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

// SendMessage delivers one reply to a chat. Text beyond MaxMessageChars is
// truncated. A missing token or chat id makes it a silent no-op so local runs
// without credentials still work.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	if c.token == "" || chatID == 0 {
		return nil
	}

	body, err := json.Marshal(sendMessageRequest{
		ChatID: chatID,
		Text:   domain.TruncateRunes(text, MaxMessageChars),
	})
	if err != nil {
		return fmt.Errorf("marshal sendMessage request: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sendMessage request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("sendMessage call: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close sendMessage response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sendMessage returned status %d: %s", resp.StatusCode, string(snippet))
	}
	return nil
}
