package store

import (
	"context"
	"sync"

	"github.com/neoweileng-spec/telegram-agent-backend/internal/domain"
)

// MemoryStore implements Repository with an in-process map. Used when no
// database path is configured and in tests. State is lost on restart.
type MemoryStore struct {
	mu            sync.Mutex
	conversations map[int64]*domain.Conversation
}

// NewMemory creates an in-memory repository.
func NewMemory() *MemoryStore {
	return &MemoryStore{conversations: make(map[int64]*domain.Conversation)}
}

// GetConversation retrieves state for a chat.
func (m *MemoryStore) GetConversation(_ context.Context, chatID int64) (*domain.Conversation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conv, ok := m.conversations[chatID]
	if !ok {
		return nil, nil
	}
	return conv.Clone(), nil
}

// UpsertConversation creates or replaces conversation state.
func (m *MemoryStore) UpsertConversation(_ context.Context, conv *domain.Conversation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.conversations[conv.ChatID] = conv.Clone()
	return nil
}

// DeleteConversation removes conversation state.
func (m *MemoryStore) DeleteConversation(_ context.Context, chatID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.conversations, chatID)
	return nil
}

// Ping always succeeds.
func (m *MemoryStore) Ping(_ context.Context) error { return nil }

// Close is a no-op.
func (m *MemoryStore) Close() error { return nil }
