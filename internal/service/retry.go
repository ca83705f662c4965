package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// conflictBackoff is the wait before each retry of a balance transaction
// that Postgres aborted for a deadlock, serialization failure or lock timeout.
var conflictBackoff = []time.Duration{20 * time.Millisecond, 60 * time.Millisecond, 150 * time.Millisecond}

// retryOnConflict runs fn and re-runs it while it fails with a transient
// lock conflict. Business errors are returned on the first attempt.
func retryOnConflict(ctx context.Context, fn func() error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn()
		if err == nil || !isTransientConflict(err) || attempt >= len(conflictBackoff) {
			return err
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(conflictBackoff[attempt]):
		}
	}
}

func isTransientConflict(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	switch pgErr.Code {
	case pgerrcode.SerializationFailure, pgerrcode.DeadlockDetected, pgerrcode.LockNotAvailable:
		return true
	}
	return false
}
