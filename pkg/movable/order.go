package movable

import "slices"

// ReconstructOrder returns the nodes of one partition from head to tail.
//
// Only forward pointers are stored, so the walk starts at the tail (the node
// without a successor) and follows the reverse mapping successor -> node until
// the head is reached, then reverses the result.
//
// The input must be every attached node of a single partition. Anything that
// is not one simple path ending in exactly one tail yields a
// *CorruptOrderError; no node is ever dropped silently.
func ReconstructOrder[ID comparable, K comparable](nodes []Node[ID, K]) ([]Node[ID, K], error) {
	if len(nodes) == 0 {
		return []Node[ID, K]{}, nil
	}

	key := nodes[0].Partition
	members := make(map[ID]struct{}, len(nodes))
	for _, n := range nodes {
		if n.Partition == nil || key == nil || *n.Partition != *key {
			return nil, corrupt("item is not part of the list", n.ID)
		}
		if _, dup := members[n.ID]; dup {
			return nil, corrupt("item listed twice", n.ID)
		}
		members[n.ID] = struct{}{}
	}

	byNext := make(map[ID]Node[ID, K], len(nodes))
	var tail Node[ID, K]
	tails := 0
	for _, n := range nodes {
		if n.Next == nil {
			tail = n
			tails++
			continue
		}
		if *n.Next == n.ID {
			return nil, corrupt("item points to itself", n.ID)
		}
		if _, ok := members[*n.Next]; !ok {
			return nil, corrupt("successor outside of the list", n.ID)
		}
		if other, dup := byNext[*n.Next]; dup {
			return nil, corrupt("two items share a successor", other.ID)
		}
		byNext[*n.Next] = n
	}
	if tails != 1 {
		return nil, &CorruptOrderError{Reason: "list must have exactly one tail"}
	}

	ordered := make([]Node[ID, K], 0, len(nodes))
	current := tail
	for {
		ordered = append(ordered, current)
		prev, ok := byNext[current.ID]
		if !ok {
			break
		}
		if len(ordered) == len(nodes) {
			return nil, corrupt("cycle through head", prev.ID)
		}
		current = prev
	}

	// Nodes left over sit on a cycle that never reaches the tail.
	if len(ordered) != len(nodes) {
		for _, n := range nodes {
			if !slices.ContainsFunc(ordered, func(o Node[ID, K]) bool { return o.ID == n.ID }) {
				return nil, corrupt("item unreachable from tail", n.ID)
			}
		}
	}

	slices.Reverse(ordered)
	return ordered, nil
}

// Validate checks the list invariants of one partition without returning the
// order.
func Validate[ID comparable, K comparable](nodes []Node[ID, K]) error {
	_, err := ReconstructOrder(nodes)
	return err
}

// OrderRows sorts the rows of one partition by their successor pointers. node
// extracts the ordering state of a row.
func OrderRows[R any, ID comparable, K comparable](rows []R, node func(R) Node[ID, K]) ([]R, error) {
	nodes := make([]Node[ID, K], len(rows))
	byID := make(map[ID]R, len(rows))
	for i, r := range rows {
		nodes[i] = node(r)
		byID[nodes[i].ID] = r
	}
	ordered, err := ReconstructOrder(nodes)
	if err != nil {
		return nil, err
	}
	result := make([]R, len(ordered))
	for i, n := range ordered {
		result[i] = byID[n.ID]
	}
	return result, nil
}
