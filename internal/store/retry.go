package store

import (
	"context"
	"strings"
	"time"
)

// SQLite returns SQLITE_BUSY or "database is locked" when another connection
// holds the write lock; both clear quickly under WAL, so writes retry a few
// times before surfacing the error.

const (
	writeAttempts = 3
	retryDelay    = 50 * time.Millisecond
)

func isSQLiteConflict(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func withWriteRetry(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; attempt < writeAttempts; attempt++ {
		if err = fn(); !isSQLiteConflict(err) {
			return err
		}
		select {
		case <-ctx.Done():
			return err
		case <-time.After(retryDelay):
		}
	}
	return err
}
