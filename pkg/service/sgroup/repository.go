package sgroup

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/movable"
)

// AdviserOrderStore orders groups per adviser. The partition key is the
// adviser's account id; archiving clears adviser_id and keeps
// last_adviser_id.
type AdviserOrderStore struct {
	queries *gen.Queries
}

var _ movable.Store[idwrap.IDWrap, idwrap.IDWrap] = (*AdviserOrderStore)(nil)

func NewAdviserOrderStore(queries *gen.Queries) *AdviserOrderStore {
	return &AdviserOrderStore{queries: queries}
}

func (r *AdviserOrderStore) TX(tx *sql.Tx) *AdviserOrderStore {
	return &AdviserOrderStore{queries: r.queries.WithTx(tx)}
}

func (r *AdviserOrderStore) Get(ctx context.Context, id idwrap.IDWrap) (movable.Node[idwrap.IDWrap, idwrap.IDWrap], error) {
	group, err := r.queries.GetGroup(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return movable.Node[idwrap.IDWrap, idwrap.IDWrap]{}, fmt.Errorf("%w: group %s", movable.ErrNodeNotFound, id)
		}
		return movable.Node[idwrap.IDWrap, idwrap.IDWrap]{}, err
	}
	return groupNode(group), nil
}

func (r *AdviserOrderStore) List(ctx context.Context, adviserID idwrap.IDWrap) ([]movable.Node[idwrap.IDWrap, idwrap.IDWrap], error) {
	groups, err := r.queries.GetGroupsByAdviserID(ctx, &adviserID)
	if err != nil {
		return nil, err
	}
	nodes := make([]movable.Node[idwrap.IDWrap, idwrap.IDWrap], len(groups))
	for i, g := range groups {
		nodes[i] = groupNode(g)
	}
	return nodes, nil
}

func (r *AdviserOrderStore) Predecessor(ctx context.Context, id idwrap.IDWrap) (*movable.Node[idwrap.IDWrap, idwrap.IDWrap], error) {
	group, err := r.queries.GetGroupByNextID(ctx, &id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	node := groupNode(group)
	return &node, nil
}

func (r *AdviserOrderStore) SetNext(ctx context.Context, id idwrap.IDWrap, next *idwrap.IDWrap) error {
	return r.queries.UpdateGroupNext(ctx, gen.UpdateGroupNextParams{
		NextID: next,
		ID:     id,
	})
}

func (r *AdviserOrderStore) Attach(ctx context.Context, id idwrap.IDWrap, adviserID idwrap.IDWrap, next *idwrap.IDWrap) error {
	return r.queries.AttachGroupToAdviser(ctx, gen.AttachGroupToAdviserParams{
		AdviserID: &adviserID,
		NextID:    next,
		ID:        id,
	})
}

func (r *AdviserOrderStore) Detach(ctx context.Context, id idwrap.IDWrap) error {
	return r.queries.DetachGroupFromAdviser(ctx, id)
}

func (r *AdviserOrderStore) LockPartition(ctx context.Context, adviserID idwrap.IDWrap) error {
	n, err := r.queries.BumpAccountOrderVersion(ctx, adviserID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: adviser %s", movable.ErrPartitionNotFound, adviserID)
	}
	return nil
}
