package txutil

import (
	"context"
	"database/sql"

	dietdb "github.com/dietlog/server/db"
)

// BulkSyncTx collects items changed inside a transaction and hands them to a
// publisher grouped by topic, but only after the transaction committed.
type BulkSyncTx[T any, Topic comparable] struct {
	tx      *sql.Tx
	extract func(T) Topic
	tracked []T
}

func NewBulkSyncTx[T any, Topic comparable](tx *sql.Tx, extract func(T) Topic) *BulkSyncTx[T, Topic] {
	return &BulkSyncTx[T, Topic]{tx: tx, extract: extract}
}

func (s *BulkSyncTx[T, Topic]) Tx() *sql.Tx {
	return s.tx
}

func (s *BulkSyncTx[T, Topic]) Track(items ...T) {
	s.tracked = append(s.tracked, items...)
}

// Tracked returns the number of items waiting for publication.
func (s *BulkSyncTx[T, Topic]) Tracked() int {
	return len(s.tracked)
}

// CommitAndPublish commits the transaction and then publishes the tracked
// items, one call per topic in order of first appearance. Nothing is
// published when the commit fails.
func (s *BulkSyncTx[T, Topic]) CommitAndPublish(ctx context.Context, publish func(Topic, []T)) error {
	if err := s.tx.Commit(); err != nil {
		return err
	}
	if len(s.tracked) == 0 {
		return nil
	}

	var order []Topic
	grouped := make(map[Topic][]T)
	for _, item := range s.tracked {
		topic := s.extract(item)
		if _, seen := grouped[topic]; !seen {
			order = append(order, topic)
		}
		grouped[topic] = append(grouped[topic], item)
	}
	for _, topic := range order {
		publish(topic, grouped[topic])
	}
	s.tracked = nil
	return nil
}

// RunAndPublish is Run for units of work that emit events. Every attempt
// starts with an empty tracker so events of a retried attempt are never
// published.
func RunAndPublish[T any, Topic comparable](
	ctx context.Context,
	db *sql.DB,
	extract func(T) Topic,
	publish func(Topic, []T),
	fn func(ctx context.Context, stx *BulkSyncTx[T, Topic]) error,
) error {
	return retry(ctx, DefaultOptions, func() error {
		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return err
		}
		defer dietdb.TxnRollback(tx)

		stx := NewBulkSyncTx(tx, extract)
		if err := fn(ctx, stx); err != nil {
			return err
		}
		return stx.CommitAndPublish(ctx, publish)
	})
}
