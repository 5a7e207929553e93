package saccount

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/dietlog/server/db/pkg/sqlc/gen"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/maccount"
	"github.com/dietlog/server/pkg/movable"
)

type AccountService struct {
	queries *gen.Queries
	logger  *slog.Logger
}

var (
	ErrNoAccountFound    = sql.ErrNoRows
	ErrEmailTaken        = errors.New("email already registered")
	ErrAccountOwnsGroups = errors.New("account still manages groups")
)

func New(queries *gen.Queries, logger *slog.Logger) AccountService {
	if logger == nil {
		logger = slog.Default()
	}
	return AccountService{
		queries: queries,
		logger:  logger,
	}
}

func (s AccountService) TX(tx *sql.Tx) AccountService {
	if tx == nil {
		return s
	}
	return AccountService{
		queries: s.queries.WithTx(tx),
		logger:  s.logger,
	}
}

// Order returns the group index bound to the same queries as s.
func (s AccountService) Order() *movable.Index[idwrap.IDWrap, idwrap.IDWrap] {
	return movable.New(NewGroupOrderStore(s.queries))
}

func (s AccountService) Get(ctx context.Context, id idwrap.IDWrap) (*maccount.Account, error) {
	account, err := s.queries.GetAccount(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoAccountFound
		}
		return nil, err
	}
	return ConvertToModelAccount(account), nil
}

func (s AccountService) GetByEmail(ctx context.Context, email string) (*maccount.Account, error) {
	account, err := s.queries.GetAccountByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNoAccountFound
		}
		return nil, err
	}
	return ConvertToModelAccount(account), nil
}

// Create stores a new account outside of any group.
func (s AccountService) Create(ctx context.Context, account maccount.Account) error {
	_, err := s.queries.GetAccountByEmail(ctx, account.Email)
	if err == nil {
		return ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	return s.queries.CreateAccount(ctx, gen.CreateAccountParams{
		ID:        account.ID,
		Email:     account.Email,
		Name:      account.Name,
		IsAdviser: account.IsAdviser,
	})
}

func (s AccountService) UpdateName(ctx context.Context, id idwrap.IDWrap, name string) error {
	return s.queries.UpdateAccountName(ctx, gen.UpdateAccountNameParams{
		Name: name,
		ID:   id,
	})
}

// Delete removes the account after taking it out of its group. Advisers must
// delete their groups first.
func (s AccountService) Delete(ctx context.Context, id idwrap.IDWrap) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	active, err := s.queries.GetGroupsByAdviserID(ctx, &id)
	if err != nil {
		return err
	}
	archived, err := s.queries.GetArchivedGroupsByAdviserID(ctx, &id)
	if err != nil {
		return err
	}
	if len(active)+len(archived) > 0 {
		return ErrAccountOwnsGroups
	}

	if err := s.Order().Unlink(ctx, id); err != nil {
		return err
	}
	return s.queries.DeleteAccount(ctx, id)
}

// ListByGroup returns the members of a group in order.
func (s AccountService) ListByGroup(ctx context.Context, groupID idwrap.IDWrap) ([]maccount.Account, error) {
	rows, err := s.queries.GetAccountsByGroupID(ctx, &groupID)
	if err != nil {
		return nil, err
	}
	ordered, err := movable.OrderRows(rows, accountNode)
	if err != nil {
		s.logger.ErrorContext(ctx, "group order is corrupt", "group_id", groupID.String(), "error", err)
		return nil, err
	}

	accounts := make([]maccount.Account, len(ordered))
	for i, row := range ordered {
		accounts[i] = *ConvertToModelAccount(row)
	}
	return accounts, nil
}

// MoveToGroup places the account at index inside groupID, taking it out of
// its current group first.
func (s AccountService) MoveToGroup(ctx context.Context, accountID, groupID idwrap.IDWrap, index int) error {
	if err := s.Order().MoveToIndex(ctx, accountID, groupID, index); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "account moved",
		"account_id", accountID.String(),
		"group_id", groupID.String(),
		"index", index,
	)
	return nil
}

// LeaveGroup takes the account out of its group. last_group_id is kept.
func (s AccountService) LeaveGroup(ctx context.Context, accountID idwrap.IDWrap) error {
	return s.Order().Unlink(ctx, accountID)
}
