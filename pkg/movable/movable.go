// Package movable keeps a total order over rows of a relational table using a
// single nullable successor column per row. Rows sharing a partition key form
// one list; there is no position or previous column.
//
// All mutations must run inside one transaction that serializes writers of the
// affected partitions. Store implementations are expected to be bound to that
// transaction.
package movable

import "context"

// Node is the ordering state of one row. Partition is nil when the row is
// detached. Next is nil for the tail of a list (and for detached rows).
type Node[ID comparable, K comparable] struct {
	ID        ID
	Partition *K
	Next      *ID
}

func (n Node[ID, K]) Detached() bool {
	return n.Partition == nil
}

// In reports whether n is attached to the list identified by key.
func (n Node[ID, K]) In(key K) bool {
	return n.Partition != nil && *n.Partition == key
}

// Store is the row level port of an ordered table.
type Store[ID comparable, K comparable] interface {
	// Get loads one row. Missing rows return an error matching ErrNodeNotFound.
	Get(ctx context.Context, id ID) (Node[ID, K], error)

	// List returns every attached row of a partition in no particular order.
	List(ctx context.Context, key K) ([]Node[ID, K], error)

	// Predecessor returns the attached row whose successor is id, or nil.
	Predecessor(ctx context.Context, id ID) (*Node[ID, K], error)

	// SetNext rewrites the successor of an attached row.
	SetNext(ctx context.Context, id ID, next *ID) error

	// Attach places a row in a partition with the given successor.
	Attach(ctx context.Context, id ID, key K, next *ID) error

	// Detach removes a row from its partition and clears its successor.
	Detach(ctx context.Context, id ID) error

	// LockPartition blocks other writers of key until the transaction ends.
	LockPartition(ctx context.Context, key K) error
}

// IDs returns the identifiers of nodes in order.
func IDs[ID comparable, K comparable](nodes []Node[ID, K]) []ID {
	ids := make([]ID, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return ids
}

func samePtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
