package orchestrator

import (
	"context"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/neoweileng-spec/telegram-agent-backend/internal/domain"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/persona"
)

// fakeCompleter records calls and answers via fn. Safe for concurrent use so
// council fan-out tests can exercise it.
type fakeCompleter struct {
	mu    sync.Mutex
	calls []completerCall
	fn    func(system, prompt string, n int) (string, error)
}

type completerCall struct {
	system string
	prompt string
}

func (f *fakeCompleter) Complete(_ context.Context, system, prompt string) (string, error) {
	f.mu.Lock()
	n := len(f.calls)
	f.calls = append(f.calls, completerCall{system: system, prompt: prompt})
	f.mu.Unlock()

	if f.fn != nil {
		return f.fn(system, prompt, n)
	}
	return "ok", nil
}

func (f *fakeCompleter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeCompleter) callsWithSystem(system string) []completerCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []completerCall
	for _, c := range f.calls {
		if c.system == system {
			out = append(out, c)
		}
	}
	return out
}

func newTestOrchestrator(fake *fakeCompleter) (*Orchestrator, *persona.Registry) {
	reg := persona.NewRegistry()
	return New(fake, reg, slog.Default()), reg
}

func instructionFor(t *testing.T, reg *persona.Registry, role string) string {
	t.Helper()
	text, ok := reg.Instruction(role)
	if !ok {
		t.Fatalf("no instruction for role %s", role)
	}
	return text
}

func TestBuildContextEmptyConversation(t *testing.T) {
	t.Parallel()

	conv := domain.NewConversation(1)
	assert.Empty(t, BuildContext(conv))
}

func TestBuildContextRendersAllSections(t *testing.T) {
	t.Parallel()

	conv := domain.NewConversation(1)
	conv.Profile = "solo founder, fintech"
	conv.Summary = "user wants a launch plan"
	conv.Append(domain.RoleUser, "help me plan")
	conv.Append(domain.RoleAssistant, "sure, here is a plan")

	got := BuildContext(conv)

	assert.Equal(t,
		"USER PROFILE: solo founder, fintech\n"+
			"SUMMARY: user wants a launch plan\n"+
			"RECENT MESSAGES:\n"+
			"USER: help me plan\n"+
			"ASSISTANT: sure, here is a plan",
		got)
}

func TestBuildContextSkipsEmptySections(t *testing.T) {
	t.Parallel()

	conv := domain.NewConversation(1)
	conv.Append(domain.RoleUser, "hello")

	got := BuildContext(conv)

	assert.Equal(t, "RECENT MESSAGES:\nUSER: hello", got)
}

func TestComposePrompt(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "just the ask", composePrompt("", "just the ask"))
	assert.Equal(t,
		"CONTEXT:\nsome context\n\nTASK:\nthe ask\n\nRespond for the user.",
		composePrompt("some context", "the ask"))
}
