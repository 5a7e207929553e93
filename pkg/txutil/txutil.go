// Package txutil runs units of work in a single database transaction and
// releases the events they produced once the transaction has committed.
package txutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	dietdb "github.com/dietlog/server/db"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type Options struct {
	// MaxAttempts bounds how often a unit of work runs when it loses a write
	// conflict.
	MaxAttempts int
	// Backoff is the base delay between attempts. Each retry waits up to twice
	// as long as the previous one, with jitter.
	Backoff time.Duration
}

var DefaultOptions = Options{
	MaxAttempts: 5,
	Backoff:     10 * time.Millisecond,
}

var ErrTooManyAttempts = errors.New("transaction kept conflicting with other writers")

// IsConflict reports whether err is SQLite refusing a write because another
// connection holds the lock.
func IsConflict(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() & 0xff {
	case sqlite3.SQLITE_BUSY, sqlite3.SQLITE_LOCKED:
		return true
	}
	return false
}

// Run executes fn inside one transaction and commits it. Conflicts with other
// writers restart fn from scratch on a fresh transaction; any other error
// rolls back and is returned unchanged.
func Run(ctx context.Context, db *sql.DB, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return RunWithOptions(ctx, db, DefaultOptions, fn)
}

func RunWithOptions(ctx context.Context, db *sql.DB, opts Options, fn func(ctx context.Context, tx *sql.Tx) error) error {
	return retry(ctx, opts, func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer dietdb.TxnRollback(tx)

		if err := fn(ctx, tx); err != nil {
			return err
		}
		return tx.Commit()
	})
}

func retry(ctx context.Context, opts Options, attempt func() error) error {
	if opts.MaxAttempts < 1 {
		opts.MaxAttempts = 1
	}
	delay := opts.Backoff
	var err error
	for i := 0; i < opts.MaxAttempts; i++ {
		err = attempt()
		if err == nil || !IsConflict(err) {
			return err
		}
		if i == opts.MaxAttempts-1 {
			break
		}

		wait := delay
		if delay > 0 {
			wait += rand.N(delay)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
		delay *= 2
	}
	return fmt.Errorf("%w: %w", ErrTooManyAttempts, err)
}
