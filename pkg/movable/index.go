package movable

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/dietlog/server/pkg/movable")

// Index runs the ordering operations against a Store. It holds no state of its
// own; one Index per transaction-bound Store is the expected usage.
type Index[ID comparable, K comparable] struct {
	store Store[ID, K]
}

func New[ID comparable, K comparable](store Store[ID, K]) *Index[ID, K] {
	return &Index[ID, K]{store: store}
}

// Order returns the attached nodes of key from head to tail.
func (x *Index[ID, K]) Order(ctx context.Context, key K) ([]Node[ID, K], error) {
	nodes, err := x.store.List(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("list partition: %w", err)
	}
	return ReconstructOrder(nodes)
}

// Position returns the zero based index of id in its list, or -1 when the node
// is detached.
func (x *Index[ID, K]) Position(ctx context.Context, id ID) (int, error) {
	node, err := x.store.Get(ctx, id)
	if err != nil {
		return 0, err
	}
	if node.Detached() {
		return -1, nil
	}
	ordered, err := x.Order(ctx, *node.Partition)
	if err != nil {
		return 0, err
	}
	for i, n := range ordered {
		if n.ID == id {
			return i, nil
		}
	}
	return 0, corrupt("attached item missing from its list", id)
}

// Link inserts the detached node id into key between prev and next. prev and
// next must be adjacent in key: prev.Next == next, prev is the tail when next
// is nil, next is the head when prev is nil, and the list is empty when both
// are nil.
func (x *Index[ID, K]) Link(ctx context.Context, id ID, key K, prev, next *ID) error {
	node, err := x.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if !node.Detached() {
		return fmt.Errorf("%w: %v", ErrNodeAttached, id)
	}
	if err := x.store.LockPartition(ctx, key); err != nil {
		return fmt.Errorf("lock partition: %w", err)
	}
	if err := x.checkAdjacent(ctx, id, key, prev, next); err != nil {
		return err
	}

	if prev != nil {
		if err := x.store.SetNext(ctx, *prev, &id); err != nil {
			return fmt.Errorf("update previous item: %w", err)
		}
	}
	if err := x.store.Attach(ctx, id, key, next); err != nil {
		return fmt.Errorf("attach item: %w", err)
	}
	return nil
}

func (x *Index[ID, K]) checkAdjacent(ctx context.Context, id ID, key K, prev, next *ID) error {
	if (prev != nil && *prev == id) || (next != nil && *next == id) {
		return ErrSelfReference
	}

	if prev != nil {
		p, err := x.store.Get(ctx, *prev)
		if err != nil {
			return fmt.Errorf("get previous item: %w", err)
		}
		if !p.In(key) {
			return fmt.Errorf("%w: previous %v", ErrCrossPartition, *prev)
		}
		if !samePtr(p.Next, next) {
			return fmt.Errorf("%w: previous %v", ErrNotAdjacent, *prev)
		}
	}

	if next != nil {
		n, err := x.store.Get(ctx, *next)
		if err != nil {
			return fmt.Errorf("get next item: %w", err)
		}
		if !n.In(key) {
			return fmt.Errorf("%w: next %v", ErrCrossPartition, *next)
		}
		if prev == nil {
			head, err := x.store.Predecessor(ctx, *next)
			if err != nil {
				return fmt.Errorf("get head: %w", err)
			}
			if head != nil {
				return fmt.Errorf("%w: next %v is not the head", ErrNotAdjacent, *next)
			}
		}
	}

	if prev == nil && next == nil {
		nodes, err := x.store.List(ctx, key)
		if err != nil {
			return fmt.Errorf("list partition: %w", err)
		}
		if len(nodes) != 0 {
			return fmt.Errorf("%w: list is not empty", ErrNotAdjacent)
		}
	}
	return nil
}

// Unlink removes id from its list and joins its former neighbours. Unlinking
// a detached node does nothing.
func (x *Index[ID, K]) Unlink(ctx context.Context, id ID) error {
	node, err := x.store.Get(ctx, id)
	if err != nil {
		return err
	}
	if node.Detached() {
		return nil
	}
	if err := x.store.LockPartition(ctx, *node.Partition); err != nil {
		return fmt.Errorf("lock partition: %w", err)
	}

	prev, err := x.store.Predecessor(ctx, id)
	if err != nil {
		return fmt.Errorf("get previous item: %w", err)
	}

	// Detach first so no two rows ever share a successor, even mid transaction.
	if err := x.store.Detach(ctx, id); err != nil {
		return fmt.Errorf("detach item: %w", err)
	}
	if prev != nil {
		if err := x.store.SetNext(ctx, prev.ID, node.Next); err != nil {
			return fmt.Errorf("update previous item: %w", err)
		}
	}
	return nil
}

// MoveToIndex places id at position index of key, removing it from wherever
// it currently is. index may equal the length of the list (excluding id) to
// append. Out of range positions return *IndexOutOfRangeError and write
// nothing.
func (x *Index[ID, K]) MoveToIndex(ctx context.Context, id ID, key K, index int) (err error) {
	ctx, span := tracer.Start(ctx, "movable.MoveToIndex", trace.WithAttributes(
		attribute.String("movable.item", fmt.Sprint(id)),
		attribute.Int("movable.index", index),
	))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := x.store.LockPartition(ctx, key); err != nil {
		return fmt.Errorf("lock partition: %w", err)
	}
	ordered, err := x.Order(ctx, key)
	if err != nil {
		return err
	}

	// The target list as it will look once id is unlinked.
	remaining := make([]Node[ID, K], 0, len(ordered))
	for _, n := range ordered {
		if n.ID != id {
			remaining = append(remaining, n)
		}
	}
	if index < 0 || index > len(remaining) {
		return &IndexOutOfRangeError{Index: index, Length: len(remaining)}
	}

	if err := x.Unlink(ctx, id); err != nil {
		return err
	}

	var prev, next *ID
	if index > 0 {
		prev = &remaining[index-1].ID
	}
	if index < len(remaining) {
		next = &remaining[index].ID
	}
	return x.Link(ctx, id, key, prev, next)
}

// Append moves id to the end of key.
func (x *Index[ID, K]) Append(ctx context.Context, id ID, key K) error {
	if err := x.store.LockPartition(ctx, key); err != nil {
		return fmt.Errorf("lock partition: %w", err)
	}
	nodes, err := x.store.List(ctx, key)
	if err != nil {
		return fmt.Errorf("list partition: %w", err)
	}
	length := len(nodes)
	for _, n := range nodes {
		if n.ID == id {
			length--
		}
	}
	return x.MoveToIndex(ctx, id, key, length)
}
