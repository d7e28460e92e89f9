package budget

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAllocate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		remaining time.Duration
		fraction  float64
		floor     time.Duration
		want      time.Duration
	}{
		{"plain fraction", 10 * time.Second, 0.60, time.Second, 6 * time.Second},
		{"review share", 10 * time.Second, 0.40, time.Second, 4 * time.Second},
		{"raised to floor", 3 * time.Second, 0.10, time.Second, time.Second},
		{"floor clamped to remaining", time.Second, 0.60, 2 * time.Second, time.Second},
		{"nothing left", 0, 0.60, time.Second, 0},
		{"negative remaining", -time.Second, 0.60, time.Second, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Allocate(tt.remaining, tt.fraction, tt.floor))
		})
	}
}

func TestRemainingWithoutDeadline(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Unbounded, Remaining(context.Background()))
}

func TestRemainingWithDeadline(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	remaining := Remaining(ctx)
	assert.Greater(t, remaining, 9*time.Second)
	assert.LessOrEqual(t, remaining, 10*time.Second)
}

func TestRemainingExpired(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	assert.Equal(t, time.Duration(0), Remaining(ctx))
}
