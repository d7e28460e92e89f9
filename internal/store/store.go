// Package store provides conversation persistence interfaces and implementations.
package store

import (
	"context"

	"github.com/neoweileng-spec/telegram-agent-backend/internal/domain"
)

// Repository defines the interface for persisting conversation state. The
// core treats it as a lookup-or-create map with last-writer-wins semantics;
// no durability guarantees are implied.
type Repository interface {
	// GetConversation retrieves state for a chat. Returns (nil, nil) when
	// the conversation does not exist yet.
	GetConversation(ctx context.Context, chatID int64) (*domain.Conversation, error)

	// UpsertConversation creates or replaces conversation state.
	UpsertConversation(ctx context.Context, conv *domain.Conversation) error

	// DeleteConversation removes conversation state.
	DeleteConversation(ctx context.Context, chatID int64) error

	// Ping verifies the store is reachable.
	Ping(ctx context.Context) error

	// Close releases store resources.
	Close() error
}
