package saccount

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/movable"
)

// GroupOrderStore orders accounts inside their group. The partition key is
// the group id. Leaving a group clears group_id but keeps last_group_id.
type GroupOrderStore struct {
	queries *gen.Queries
}

var _ movable.Store[idwrap.IDWrap, idwrap.IDWrap] = (*GroupOrderStore)(nil)

func NewGroupOrderStore(queries *gen.Queries) *GroupOrderStore {
	return &GroupOrderStore{queries: queries}
}

func (r *GroupOrderStore) TX(tx *sql.Tx) *GroupOrderStore {
	return &GroupOrderStore{queries: r.queries.WithTx(tx)}
}

func (r *GroupOrderStore) Get(ctx context.Context, id idwrap.IDWrap) (movable.Node[idwrap.IDWrap, idwrap.IDWrap], error) {
	account, err := r.queries.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return movable.Node[idwrap.IDWrap, idwrap.IDWrap]{}, fmt.Errorf("%w: account %s", movable.ErrNodeNotFound, id)
		}
		return movable.Node[idwrap.IDWrap, idwrap.IDWrap]{}, err
	}
	return accountNode(account), nil
}

func (r *GroupOrderStore) List(ctx context.Context, groupID idwrap.IDWrap) ([]movable.Node[idwrap.IDWrap, idwrap.IDWrap], error) {
	accounts, err := r.queries.GetAccountsByGroupID(ctx, &groupID)
	if err != nil {
		return nil, err
	}
	nodes := make([]movable.Node[idwrap.IDWrap, idwrap.IDWrap], len(accounts))
	for i, a := range accounts {
		nodes[i] = accountNode(a)
	}
	return nodes, nil
}

func (r *GroupOrderStore) Predecessor(ctx context.Context, id idwrap.IDWrap) (*movable.Node[idwrap.IDWrap, idwrap.IDWrap], error) {
	account, err := r.queries.GetAccountByNextID(ctx, &id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	node := accountNode(account)
	return &node, nil
}

func (r *GroupOrderStore) SetNext(ctx context.Context, id idwrap.IDWrap, next *idwrap.IDWrap) error {
	return r.queries.UpdateAccountNext(ctx, gen.UpdateAccountNextParams{
		NextID: next,
		ID:     id,
	})
}

func (r *GroupOrderStore) Attach(ctx context.Context, id idwrap.IDWrap, groupID idwrap.IDWrap, next *idwrap.IDWrap) error {
	return r.queries.AttachAccountToGroup(ctx, gen.AttachAccountToGroupParams{
		GroupID: &groupID,
		NextID:  next,
		ID:      id,
	})
}

func (r *GroupOrderStore) Detach(ctx context.Context, id idwrap.IDWrap) error {
	return r.queries.DetachAccountFromGroup(ctx, id)
}

// LockPartition bumps the group's order_version, which takes the write lock
// on the group row for the rest of the transaction.
func (r *GroupOrderStore) LockPartition(ctx context.Context, groupID idwrap.IDWrap) error {
	n, err := r.queries.BumpGroupOrderVersion(ctx, groupID)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: group %s", movable.ErrPartitionNotFound, groupID)
	}
	return nil
}
