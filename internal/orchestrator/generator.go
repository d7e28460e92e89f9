package orchestrator

import (
	"context"
	"strings"

	"github.com/neoweileng-spec/telegram-agent-backend/internal/budget"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/domain"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/llm"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/persona"
)

// Generate produces a reply from a single persona with an optional critique
// pass. The draft gets ~60% of the remaining budget; the critique is skipped,
// never retried, when review is off or too little time remains.
func (o *Orchestrator) Generate(ctx context.Context, conv *domain.Conversation, role, ask string, review bool) string {
	draftBudget := budget.Allocate(budget.Remaining(ctx), budget.DraftFraction, budget.CallFloor)
	draft := o.completeRole(ctx, conv, role, ask, draftBudget)

	if !review || budget.Remaining(ctx) < budget.CritiqueFloor {
		return draft
	}
	return o.critique(ctx, conv, ask, draft)
}

// critique runs the QA pass over an answer using the full remaining budget.
// Any failure returns the answer unchanged.
func (o *Orchestrator) critique(ctx context.Context, conv *domain.Conversation, ask, answer string) string {
	prompt := "USER ASK:\n" + ask +
		"\n\nCONTEXT:\n" + BuildContext(conv) +
		"\n\nFINAL REPLY (to QA):\n" + answer +
		"\n\nFollow your instructions."

	verdict, err := o.complete(ctx, o.instruction(persona.QACritic), prompt, budget.Remaining(ctx))
	if err != nil {
		o.logger.Warn("critique call failed, keeping answer", "error", err)
		return answer
	}
	return applyCritique(answer, verdict)
}

// applyCritique interprets the APPROVE/REVISE protocol. The first line
// decides: APPROVE keeps the answer, REVISE replaces it with the remainder,
// and anything else counts as an implicit approval.
func applyCritique(answer, critique string) string {
	head, rest, _ := strings.Cut(strings.TrimSpace(critique), "\n")
	head = strings.ToUpper(strings.TrimSpace(head))

	switch {
	case strings.HasPrefix(head, "APPROVE"):
		return answer
	case strings.HasPrefix(head, "REVISE"):
		revised := strings.TrimSpace(rest)
		if revised == "" {
			return answer
		}
		return domain.TruncateRunes(revised, llm.MaxReplyChars)
	}
	return answer
}
