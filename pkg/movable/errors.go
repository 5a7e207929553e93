package movable

import (
	"errors"
	"fmt"
)

// Common errors for movable operations
var (
	ErrNodeNotFound      = errors.New("item not found")
	ErrPartitionNotFound = errors.New("list not found")
	ErrNodeAttached      = errors.New("item is already linked into a list")
	ErrNotAdjacent       = errors.New("previous and next items are not adjacent")
	ErrCrossPartition    = errors.New("neighbour belongs to another list")
	ErrSelfReference     = errors.New("cannot link item next to itself")
	ErrIndexOutOfRange   = errors.New("position out of range")
	ErrCorruptOrder      = errors.New("corrupt list order")
)

// IndexOutOfRangeError is returned by MoveToIndex when the requested position
// is outside [0, Length]. It matches ErrIndexOutOfRange with errors.Is.
type IndexOutOfRangeError struct {
	Index  int
	Length int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("position %d out of range (valid range: 0-%d)", e.Index, e.Length)
}

func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// CorruptOrderError reports a partition whose successor pointers do not form
// a single simple path. It matches ErrCorruptOrder with errors.Is.
type CorruptOrderError struct {
	Reason string
	NodeID string
}

func (e *CorruptOrderError) Error() string {
	if e.NodeID == "" {
		return fmt.Sprintf("corrupt list order: %s", e.Reason)
	}
	return fmt.Sprintf("corrupt list order: %s (item %s)", e.Reason, e.NodeID)
}

func (e *CorruptOrderError) Is(target error) bool {
	return target == ErrCorruptOrder
}

func corrupt[ID any](reason string, id ID) error {
	return &CorruptOrderError{Reason: reason, NodeID: fmt.Sprint(id)}
}
