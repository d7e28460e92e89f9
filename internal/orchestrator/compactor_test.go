package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neoweileng-spec/telegram-agent-backend/internal/domain"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/persona"
)

func fullHistoryConversation() *domain.Conversation {
	conv := domain.NewConversation(1)
	for i := 0; i < domain.MaxTurns; i++ {
		conv.Append(domain.RoleUser, fmt.Sprintf("question %d", i))
		conv.Append(domain.RoleAssistant, fmt.Sprintf("answer %d", i))
	}
	return conv
}

func TestMaybeCompactSummarizesFullHistory(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{fn: func(_, _ string, _ int) (string, error) {
		return "a compact summary", nil
	}}
	orch, reg := newTestOrchestrator(fake)

	conv := fullHistoryConversation()
	require.Len(t, conv.History, 2*domain.MaxTurns)

	orch.MaybeCompact(context.Background(), conv)

	assert.Equal(t, "a compact summary", conv.Summary)
	assert.Len(t, conv.History, 6)

	calls := fake.callsWithSystem(instructionFor(t, reg, persona.Summarizer))
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].prompt, "user: question 0")
}

func TestMaybeCompactSkipsShortHistory(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{}
	orch, _ := newTestOrchestrator(fake)

	conv := domain.NewConversation(1)
	conv.Append(domain.RoleUser, "hello")

	orch.MaybeCompact(context.Background(), conv)

	assert.Empty(t, conv.Summary)
	assert.Equal(t, 0, fake.callCount())
}

func TestMaybeCompactSkipsWhenBudgetLow(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{}
	orch, _ := newTestOrchestrator(fake)

	conv := fullHistoryConversation()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	orch.MaybeCompact(ctx, conv)

	assert.Empty(t, conv.Summary)
	assert.Len(t, conv.History, 2*domain.MaxTurns)
	assert.Equal(t, 0, fake.callCount())
}

func TestMaybeCompactLeavesStateOnFailure(t *testing.T) {
	t.Parallel()

	fake := &fakeCompleter{fn: func(_, _ string, _ int) (string, error) {
		return "LLM not configured.", errors.New("backend unavailable")
	}}
	orch, _ := newTestOrchestrator(fake)

	conv := fullHistoryConversation()

	orch.MaybeCompact(context.Background(), conv)

	assert.Empty(t, conv.Summary)
	assert.Len(t, conv.History, 2*domain.MaxTurns)
}
