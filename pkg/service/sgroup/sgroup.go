package sgroup

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mgroup"
	"github.com/dietlog/server/pkg/movable"
)

type GroupService struct {
	queries *gen.Queries
	logger  *slog.Logger
}

var (
	ErrNoGroupFound  = sql.ErrNoRows
	ErrNotAdviser    = errors.New("account is not an adviser")
	ErrGroupNotEmpty = errors.New("group still has members")
	ErrNoOwner       = errors.New("group has no adviser")
)

func New(queries *gen.Queries, logger *slog.Logger) GroupService {
	if logger == nil {
		logger = slog.Default()
	}
	return GroupService{
		queries: queries,
		logger:  logger,
	}
}

func (s GroupService) TX(tx *sql.Tx) GroupService {
	if tx == nil {
		return s
	}
	return GroupService{
		queries: s.queries.WithTx(tx),
		logger:  s.logger,
	}
}

func (s GroupService) Order() *movable.Index[idwrap.IDWrap, idwrap.IDWrap] {
	return movable.New(NewAdviserOrderStore(s.queries))
}

func (s GroupService) Get(ctx context.Context, id idwrap.IDWrap) (*mgroup.Group, error) {
	group, err := s.queries.GetGroup(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoGroupFound
		}
		return nil, err
	}
	return ConvertToModelGroup(group), nil
}

// Create stores an archived group owned by group.LastAdviserID. Use
// MoveToAdviser or Append to place it in the adviser's order.
func (s GroupService) Create(ctx context.Context, group mgroup.Group) error {
	if group.LastAdviserID == nil {
		return ErrNoOwner
	}
	if err := s.checkAdviser(ctx, *group.LastAdviserID); err != nil {
		return err
	}
	return s.queries.CreateGroup(ctx, gen.CreateGroupParams{
		ID:            group.ID,
		Name:          group.Name,
		LastAdviserID: group.LastAdviserID,
	})
}

func (s GroupService) Rename(ctx context.Context, id idwrap.IDWrap, name string) error {
	return s.queries.UpdateGroupName(ctx, gen.UpdateGroupNameParams{
		Name: name,
		ID:   id,
	})
}

// Delete removes an empty group after taking it out of the adviser's order.
func (s GroupService) Delete(ctx context.Context, id idwrap.IDWrap) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	members, err := s.queries.GetAccountsByGroupID(ctx, &id)
	if err != nil {
		return err
	}
	if len(members) > 0 {
		return ErrGroupNotEmpty
	}
	if err := s.Order().Unlink(ctx, id); err != nil {
		return err
	}
	return s.queries.DeleteGroup(ctx, id)
}

// ListByAdviser returns the adviser's active groups in order.
func (s GroupService) ListByAdviser(ctx context.Context, adviserID idwrap.IDWrap) ([]mgroup.Group, error) {
	rows, err := s.queries.GetGroupsByAdviserID(ctx, &adviserID)
	if err != nil {
		return nil, err
	}
	ordered, err := movable.OrderRows(rows, groupNode)
	if err != nil {
		s.logger.ErrorContext(ctx, "adviser group order is corrupt", "adviser_id", adviserID.String(), "error", err)
		return nil, err
	}
	groups := make([]mgroup.Group, len(ordered))
	for i, row := range ordered {
		groups[i] = *ConvertToModelGroup(row)
	}
	return groups, nil
}

// ListArchived returns the adviser's archived groups, oldest first.
func (s GroupService) ListArchived(ctx context.Context, adviserID idwrap.IDWrap) ([]mgroup.Group, error) {
	rows, err := s.queries.GetArchivedGroupsByAdviserID(ctx, &adviserID)
	if err != nil {
		return nil, err
	}
	groups := make([]mgroup.Group, len(rows))
	for i, row := range rows {
		groups[i] = *ConvertToModelGroup(row)
	}
	return groups, nil
}

func (s GroupService) MoveToAdviser(ctx context.Context, groupID, adviserID idwrap.IDWrap, index int) error {
	if err := s.checkAdviser(ctx, adviserID); err != nil {
		return err
	}
	if err := s.Order().MoveToIndex(ctx, groupID, adviserID, index); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "group moved",
		"group_id", groupID.String(),
		"adviser_id", adviserID.String(),
		"index", index,
	)
	return nil
}

// Append places the group last in the order of adviserID.
func (s GroupService) Append(ctx context.Context, groupID, adviserID idwrap.IDWrap) error {
	if err := s.checkAdviser(ctx, adviserID); err != nil {
		return err
	}
	return s.Order().Append(ctx, groupID, adviserID)
}

// Archive takes the group out of its adviser's order. The adviser stays
// recorded as the owner.
func (s GroupService) Archive(ctx context.Context, groupID idwrap.IDWrap) error {
	return s.Order().Unlink(ctx, groupID)
}

// Restore appends an archived group back to the order of its last adviser.
func (s GroupService) Restore(ctx context.Context, groupID idwrap.IDWrap) error {
	group, err := s.Get(ctx, groupID)
	if err != nil {
		return err
	}
	if !group.Archived() {
		return nil
	}
	if group.LastAdviserID == nil {
		return ErrNoOwner
	}
	return s.Append(ctx, groupID, *group.LastAdviserID)
}

func (s GroupService) checkAdviser(ctx context.Context, adviserID idwrap.IDWrap) error {
	account, err := s.queries.GetAccount(ctx, adviserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotAdviser
		}
		return err
	}
	if !account.IsAdviser {
		return ErrNotAdviser
	}
	return nil
}
