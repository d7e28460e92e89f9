// Package budget apportions the per-message deadline across orchestration
// stages. The fractions and floors are tuned policy, not invariants; adjust
// them against real backend latency.
package budget

import (
	"context"
	"time"
)

// Stage fractions of the remaining budget.
const (
	// DraftFraction is spent on the single-persona draft call.
	DraftFraction = 0.60
	// LeadFraction is spent on the council lead draft.
	LeadFraction = 0.50
	// ReviewFraction is shared across all concurrent peer-review calls.
	ReviewFraction = 0.40
)

// Minimum remaining-time thresholds. A stage is skipped outright when less
// time than its floor is left.
const (
	// SynthesisFloor: below this the council returns the lead draft as-is.
	SynthesisFloor = 1500 * time.Millisecond
	// CritiqueFloor gates the QA critique pass.
	CritiqueFloor = 2 * time.Second
	// ReviewFloor gates the council peer-review fan-out.
	ReviewFloor = 2500 * time.Millisecond
	// CompactFloor gates history summarization.
	CompactFloor = 2500 * time.Millisecond
	// CompactCall is the fixed sub-deadline for the summarization call.
	CompactCall = 2 * time.Second
	// CallFloor is the minimum useful allocation for any model call.
	CallFloor = time.Second
)

// Unbounded is reported by Remaining for contexts without a deadline.
const Unbounded = time.Hour

// Allocate returns the share of remaining time a stage may spend: fraction of
// the remaining budget, raised to floor when possible, never exceeding the
// remaining budget itself.
func Allocate(remaining time.Duration, fraction float64, floor time.Duration) time.Duration {
	if remaining <= 0 {
		return 0
	}
	d := time.Duration(float64(remaining) * fraction)
	if d < floor {
		d = floor
	}
	if d > remaining {
		d = remaining
	}
	return d
}

// Remaining reports the time left before the context deadline.
func Remaining(ctx context.Context) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return Unbounded
	}
	remaining := time.Until(deadline)
	if remaining < 0 {
		return 0
	}
	return remaining
}
