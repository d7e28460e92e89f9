// Package domain contains core domain types for the bot.
package domain

import (
	"time"
)

const (
	// MaxTurns is the number of user/assistant exchanges retained verbatim.
	// The rolling history holds at most 2×MaxTurns entries.
	MaxTurns = 8

	// MaxTurnChars caps a single history entry at insertion.
	MaxTurnChars = 1200
)

// Turn roles in the rolling history.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is one message in a conversation's rolling history.
type Turn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Conversation holds per-chat configuration and rolling memory.
type Conversation struct {
	ChatID         int64     `json:"chat_id"`
	ReviewEnabled  bool      `json:"review_enabled"`
	ActiveRole     string    `json:"active_role"`
	CouncilEnabled bool      `json:"council_enabled"`
	CouncilRoles   []string  `json:"council_roles"`
	Profile        string    `json:"profile"`
	Summary        string    `json:"summary"`
	History        []Turn    `json:"history"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewConversation returns a conversation with default settings.
func NewConversation(chatID int64) *Conversation {
	now := time.Now()
	return &Conversation{
		ChatID:       chatID,
		ActiveRole:   "Assistant",
		CouncilRoles: []string{"Assistant", "BrandExpert", "Copywriter"},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// Append records a turn in the rolling history. Each entry is capped at
// MaxTurnChars and the history is trimmed to the most recent 2×MaxTurns
// entries afterwards. Empty content is ignored.
func (c *Conversation) Append(role, content string) {
	if content == "" {
		return
	}
	c.History = append(c.History, Turn{Role: role, Content: TruncateRunes(content, MaxTurnChars)})
	if len(c.History) > 2*MaxTurns {
		c.History = c.History[len(c.History)-2*MaxTurns:]
	}
}

// Recent returns the last n turns (or all of them when fewer exist).
func (c *Conversation) Recent(n int) []Turn {
	if n >= len(c.History) {
		return c.History
	}
	return c.History[len(c.History)-n:]
}

// Collapse keeps only the last keep turns. Used after a successful
// summarization so the summary replaces the older turns.
func (c *Conversation) Collapse(keep int) {
	if len(c.History) > keep {
		c.History = c.History[len(c.History)-keep:]
	}
}

// ClearMemory wipes profile, summary and history.
func (c *Conversation) ClearMemory() {
	c.Profile = ""
	c.Summary = ""
	c.History = nil
}

// Clone returns a deep copy so stores can hand out independent state.
func (c *Conversation) Clone() *Conversation {
	out := *c
	out.CouncilRoles = append([]string(nil), c.CouncilRoles...)
	out.History = append([]Turn(nil), c.History...)
	return &out
}

// TruncateRunes shortens s to at most n runes.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
