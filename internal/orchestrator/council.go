package orchestrator

import (
	"context"
	"strings"
	"sync"

	"github.com/neoweileng-spec/telegram-agent-backend/internal/budget"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/domain"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/persona"
)

// review is one surviving peer review, attributed to its originating role.
type review struct {
	role string
	text string
}

// Council runs the multi-persona flow: lead draft, concurrent peer reviews,
// synthesis and an optional critique. The first known role is the lead
// author, the rest are reviewers. Each stage is skipped when the remaining
// budget drops below its floor; the flow always returns some answer.
func (o *Orchestrator) Council(ctx context.Context, conv *domain.Conversation, roles []string, ask string, reviewEnabled bool) string {
	distinct := o.knownDistinct(roles)
	lead := persona.Assistant
	var reviewers []string
	if len(distinct) > 0 {
		lead = distinct[0]
		reviewers = distinct[1:]
	}

	draftBudget := budget.Allocate(budget.Remaining(ctx), budget.LeadFraction, budget.CallFloor)
	draft := o.completeRole(ctx, conv, lead, ask, draftBudget)

	var reviews []review
	if len(reviewers) > 0 && budget.Remaining(ctx) > budget.ReviewFloor {
		reviews = o.fanOutReviews(ctx, conv, reviewers, ask, draft)
	}

	if budget.Remaining(ctx) < budget.SynthesisFloor {
		o.logger.Info("council budget exhausted before synthesis, returning lead draft", "lead", lead)
		return draft
	}

	answer := o.synthesize(ctx, conv, ask, draft, reviews)

	if reviewEnabled && budget.Remaining(ctx) > budget.CritiqueFloor {
		answer = o.critique(ctx, conv, ask, answer)
	}
	return answer
}

// knownDistinct de-duplicates roles by first occurrence, preserving order,
// and drops names outside the persona registry.
func (o *Orchestrator) knownDistinct(roles []string) []string {
	seen := make(map[string]bool, len(roles))
	var out []string
	for _, role := range roles {
		if seen[role] || !o.registry.IsUserRole(role) {
			continue
		}
		seen[role] = true
		out = append(out, role)
	}
	return out
}

// fanOutReviews issues all reviewer calls concurrently under one shared
// sub-deadline (~40% of the remaining budget). A failing or slow reviewer is
// dropped silently; it never blocks or fails the council.
func (o *Orchestrator) fanOutReviews(ctx context.Context, conv *domain.Conversation, reviewers []string, ask, draft string) []review {
	system := o.instruction(persona.Reviewer)
	prompt := "USER ASK:\n" + ask +
		"\n\nCONTEXT:\n" + BuildContext(conv) +
		"\n\nDRAFT:\n" + draft +
		"\n\nReturn only numbered improvement bullets."

	share := budget.Allocate(budget.Remaining(ctx), budget.ReviewFraction, budget.CallFloor)
	fanCtx, cancel := context.WithTimeout(ctx, share)
	defer cancel()

	results := make([]review, len(reviewers))
	var wg sync.WaitGroup
	for i, role := range reviewers {
		wg.Add(1)
		go func(i int, role string) {
			defer wg.Done()
			text, err := o.completer.Complete(fanCtx, system, prompt)
			if err != nil {
				o.logger.Warn("peer review dropped", "role", role, "error", err)
				return
			}
			results[i] = review{role: role, text: text}
		}(i, role)
	}
	wg.Wait()

	// Keep successes in reviewer order for stable attribution.
	var out []review
	for _, r := range results {
		if r.text != "" {
			out = append(out, r)
		}
	}
	return out
}

// synthesize merges the surviving reviews into the final answer using the
// full remaining budget.
func (o *Orchestrator) synthesize(ctx context.Context, conv *domain.Conversation, ask, draft string, reviews []review) string {
	var labeled strings.Builder
	for i, r := range reviews {
		if i > 0 {
			labeled.WriteString("\n\n")
		}
		labeled.WriteString("[" + r.role + "]\n" + r.text)
	}

	prompt := "USER ASK:\n" + ask +
		"\n\nCONTEXT:\n" + BuildContext(conv) +
		"\n\nDRAFT:\n" + draft +
		"\n\nREVIEWS:\n" + labeled.String() +
		"\n\nProduce ONLY the final improved answer (<=15 lines)."

	answer, err := o.complete(ctx, o.instruction(persona.Synthesizer), prompt, budget.Remaining(ctx))
	if err != nil {
		o.logger.Warn("synthesis failed, returning lead draft", "error", err)
		return draft
	}
	return answer
}
