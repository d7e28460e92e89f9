// Package orchestrator implements the persona and council reply flows: context
// building, history compaction, single-persona draft+critique and the
// multi-persona draft/review/synthesis pipeline. Every model call runs under a
// sub-deadline derived from the per-message budget; stages are skipped rather
// than exceeding it.
package orchestrator

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/neoweileng-spec/telegram-agent-backend/internal/domain"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/llm"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/persona"
)

// Orchestrator coordinates completion calls for one inbound message.
type Orchestrator struct {
	completer llm.Completer
	registry  *persona.Registry
	logger    *slog.Logger
}

// New creates an orchestrator.
func New(completer llm.Completer, registry *persona.Registry, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		completer: completer,
		registry:  registry,
		logger:    logger,
	}
}

// complete issues one completion call bounded by d, never exceeding the
// parent deadline (WithTimeout can only shorten it).
func (o *Orchestrator) complete(ctx context.Context, system, prompt string, d time.Duration) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, d)
	defer cancel()
	return o.completer.Complete(callCtx, system, prompt)
}

// completeRole runs one call with a persona's instruction and the current
// conversation context embedded in the prompt. The text return is always
// user-presentable; failures surface as the client's fallback strings.
func (o *Orchestrator) completeRole(ctx context.Context, conv *domain.Conversation, role, ask string, d time.Duration) string {
	system := o.instruction(role)
	text, err := o.complete(ctx, system, composePrompt(BuildContext(conv), ask), d)
	if err != nil {
		o.logger.Warn("completion failed", "role", role, "error", err)
	}
	return text
}

// instruction looks up a role's instruction, defaulting to the Assistant.
func (o *Orchestrator) instruction(role string) string {
	if text, ok := o.registry.Instruction(role); ok {
		return text
	}
	text, _ := o.registry.Instruction(persona.Assistant)
	return text
}

// composePrompt embeds the conversation context ahead of the task.
func composePrompt(ctxText, task string) string {
	if ctxText == "" {
		return task
	}
	return "CONTEXT:\n" + ctxText + "\n\nTASK:\n" + task + "\n\nRespond for the user."
}

// BuildContext renders profile, summary and recent turns into the text block
// consumed by every model call. Pure: no side effects, no model calls.
func BuildContext(conv *domain.Conversation) string {
	var lines []string
	if conv.Profile != "" {
		lines = append(lines, "USER PROFILE: "+conv.Profile)
	}
	if conv.Summary != "" {
		lines = append(lines, "SUMMARY: "+conv.Summary)
	}
	if len(conv.History) > 0 {
		lines = append(lines, "RECENT MESSAGES:")
		for _, turn := range conv.Recent(2 * domain.MaxTurns) {
			lines = append(lines, strings.ToUpper(turn.Role)+": "+turn.Content)
		}
	}
	return strings.Join(lines, "\n")
}
