// Package bot turns inbound Telegram updates into replies: it owns the
// webhook endpoint, the per-chat state lifecycle, the chat-text control
// vocabulary and the routing into the generation flows.
package bot

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/neoweileng-spec/telegram-agent-backend/internal/domain"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/orchestrator"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/persona"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/store"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/telegram"
)

// DefaultMessageBudget bounds the handling of one inbound message, model
// calls included.
const DefaultMessageBudget = 25 * time.Second

// sendTimeout bounds reply delivery, separately from the message budget so a
// fully spent budget still gets its reply out.
const sendTimeout = 10 * time.Second

const promptReply = "Say something and I will reply."

// Sender delivers outbound replies.
type Sender interface {
	SendMessage(ctx context.Context, chatID int64, text string) error
}

// Handler processes webhook updates.
type Handler struct {
	repo      store.Repository
	orch      *orchestrator.Orchestrator
	sender    Sender
	registry  *persona.Registry
	msgBudget time.Duration
	logger    *slog.Logger
	commands  []command

	// Per-chat serialization: one message per conversation at a time.
	// Entries are refcounted and evicted once no message holds or waits on
	// them, so the map stays bounded by in-flight chats.
	mu        sync.Mutex
	chatLocks map[int64]*chatLock
}

type chatLock struct {
	mu   sync.Mutex
	refs int
}

// NewHandler creates the bot handler.
func NewHandler(repo store.Repository, orch *orchestrator.Orchestrator, sender Sender, registry *persona.Registry, msgBudget time.Duration, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if msgBudget <= 0 {
		msgBudget = DefaultMessageBudget
	}
	h := &Handler{
		repo:      repo,
		orch:      orch,
		sender:    sender,
		registry:  registry,
		msgBudget: msgBudget,
		logger:    logger,
		chatLocks: make(map[int64]*chatLock),
	}
	h.commands = h.commandTable()
	return h
}

// Root is a trivial liveness page.
func (h *Handler) Root(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Bot is running!"))
}

// Webhook handles one Telegram update. It always acknowledges 200 "ok" to
// the transport, including for malformed payloads, so upstream never retries
// into a storm. Every message with a chat id gets exactly one reply.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	var update telegram.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.logger.Warn("malformed webhook payload", "error", err)
		ack(w)
		return
	}
	if update.Message == nil || update.Message.Chat.ID == 0 {
		ack(w)
		return
	}

	chatID := update.Message.Chat.ID
	reply := h.HandleMessage(r.Context(), chatID, strings.TrimSpace(update.Message.Text))

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), sendTimeout)
	defer cancel()
	if err := h.sender.SendMessage(sendCtx, chatID, reply); err != nil {
		h.logger.Error("failed to deliver reply", "chat_id", chatID, "error", err)
	}

	ack(w)
}

// HandleMessage runs the full per-message flow and returns the reply text.
// All model calls run under one message budget; state access for the chat is
// serialized.
func (h *Handler) HandleMessage(ctx context.Context, chatID int64, text string) string {
	unlock := h.lockChat(chatID)
	defer unlock()

	budgetCtx, cancel := context.WithTimeout(ctx, h.msgBudget)
	defer cancel()

	conv := h.getOrCreate(ctx, chatID)

	reply := promptReply
	if text != "" {
		conv.Append(domain.RoleUser, text)
		h.orch.MaybeCompact(budgetCtx, conv)
		reply = h.dispatch(budgetCtx, conv, text)
	}

	conv.Append(domain.RoleAssistant, reply)
	conv.UpdatedAt = time.Now()
	if err := h.repo.UpsertConversation(ctx, conv); err != nil {
		h.logger.Error("failed to persist conversation", "chat_id", chatID, "error", err)
	}
	return reply
}

// dispatch tries the command table in priority order, then falls through to
// the generation flow.
func (h *Handler) dispatch(ctx context.Context, conv *domain.Conversation, text string) string {
	lower := strings.ToLower(text)
	for _, cmd := range h.commands {
		if payload, ok := cmd.match(lower, text); ok {
			return cmd.handle(ctx, conv, payload)
		}
	}
	return h.respond(ctx, conv, conv.ActiveRole, text)
}

// respond routes an ask through the council or single-persona flow per the
// conversation settings.
func (h *Handler) respond(ctx context.Context, conv *domain.Conversation, role, ask string) string {
	if conv.CouncilEnabled {
		return h.orch.Council(ctx, conv, conv.CouncilRoles, ask, conv.ReviewEnabled)
	}
	return h.orch.Generate(ctx, conv, role, ask, conv.ReviewEnabled)
}

func (h *Handler) getOrCreate(ctx context.Context, chatID int64) *domain.Conversation {
	conv, err := h.repo.GetConversation(ctx, chatID)
	if err != nil {
		h.logger.Error("failed to load conversation, starting fresh", "chat_id", chatID, "error", err)
	}
	if conv != nil {
		return conv
	}
	conv = domain.NewConversation(chatID)
	if err := h.repo.UpsertConversation(ctx, conv); err != nil {
		h.logger.Error("failed to persist new conversation", "chat_id", chatID, "error", err)
	}
	return conv
}

func (h *Handler) lockChat(chatID int64) func() {
	h.mu.Lock()
	lock, ok := h.chatLocks[chatID]
	if !ok {
		lock = &chatLock{}
		h.chatLocks[chatID] = lock
	}
	lock.refs++
	h.mu.Unlock()

	lock.mu.Lock()
	return func() {
		lock.mu.Unlock()
		h.mu.Lock()
		lock.refs--
		if lock.refs == 0 {
			delete(h.chatLocks, chatID)
		}
		h.mu.Unlock()
	}
}

func ack(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
