package orchestrator

import (
	"context"
	"strings"

	"github.com/neoweileng-spec/telegram-agent-backend/internal/budget"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/domain"
	"github.com/neoweileng-spec/telegram-agent-backend/internal/persona"
)

const (
	// transcriptCap bounds the flattened history sent to the summarizer.
	transcriptCap = 4000
	// summaryCap bounds the stored summary.
	summaryCap = 1200
	// keepAfterCompact is how many recent turns survive a compaction.
	keepAfterCompact = 6
)

// MaybeCompact summarizes the rolling history once it reaches capacity,
// overwriting the summary and collapsing the history to the most recent
// turns. Best effort: it only runs when enough budget remains, and any
// failure leaves the conversation untouched.
func (o *Orchestrator) MaybeCompact(ctx context.Context, conv *domain.Conversation) {
	if len(conv.History) < 2*domain.MaxTurns {
		return
	}
	if budget.Remaining(ctx) < budget.CompactFloor {
		return
	}

	var transcript strings.Builder
	for _, turn := range conv.History {
		if transcript.Len() > 0 {
			transcript.WriteString("\n")
		}
		transcript.WriteString(turn.Role + ": " + turn.Content)
	}
	flattened := domain.TruncateRunes(transcript.String(), transcriptCap)

	prompt := "Chat so far:\n" + flattened + "\n\nReturn a compact context summary."
	summary, err := o.complete(ctx, o.instruction(persona.Summarizer), prompt, budget.CompactCall)
	if err != nil {
		o.logger.Debug("history compaction skipped", "error", err)
		return
	}

	conv.Summary = domain.TruncateRunes(summary, summaryCap)
	conv.Collapse(keepAfterCompact)
}
