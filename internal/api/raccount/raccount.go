package raccount

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dietlog/server/internal/api"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/maccount"
	"github.com/dietlog/server/pkg/model/mevent"
	"github.com/dietlog/server/pkg/service/saccount"
	"github.com/dietlog/server/pkg/service/sgroup"
	"github.com/dietlog/server/pkg/stoken"
	"github.com/dietlog/server/pkg/translate/taccount"
)

const DefaultTokenTTL = 24 * time.Hour

var ErrEmptyName = errors.New("name must not be empty")

type AccountRPC struct {
	DB *sql.DB

	as saccount.AccountService
	gs sgroup.GroupService

	stream   api.Streamer
	secret   []byte
	tokenTTL time.Duration
}

func New(db *sql.DB, as saccount.AccountService, gs sgroup.GroupService, stream api.Streamer, secret []byte, tokenTTL time.Duration) *AccountRPC {
	if tokenTTL <= 0 {
		tokenTTL = DefaultTokenTTL
	}
	return &AccountRPC{
		DB:       db,
		as:       as,
		gs:       gs,
		stream:   stream,
		secret:   secret,
		tokenTTL: tokenTTL,
	}
}

func (a *AccountRPC) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.POST("/accounts", a.AccountCreate)
	e.GET("/accounts/me", a.AccountMe, auth)
	e.PATCH("/accounts/me", a.AccountUpdate, auth)
	e.DELETE("/accounts/me", a.AccountDelete, auth)
}

type AccountCreateRequest struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	IsAdviser bool   `json:"isAdviser"`
}

type AccountCreateResponse struct {
	Account     taccount.Account `json:"account"`
	AccessToken string           `json:"accessToken"`
}

type AccountUpdateRequest struct {
	Name string `json:"name"`
}

// AccountCreate signs up a new account and returns an access token for it.
func (a *AccountRPC) AccountCreate(c echo.Context) error {
	req, err := api.Bind[AccountCreateRequest](c)
	if err != nil {
		return err
	}
	addr, err := mail.ParseAddress(strings.TrimSpace(req.Email))
	if err != nil {
		return api.BadRequest(err)
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return api.BadRequest(ErrEmptyName)
	}

	account := maccount.Account{
		ID:        idwrap.NewNow(),
		Email:     strings.ToLower(addr.Address),
		Name:      name,
		IsAdviser: req.IsAdviser,
	}
	ctx := c.Request().Context()
	err = api.RunTx(ctx, a.DB, a.stream, func(ctx context.Context, stx *api.SyncTx) error {
		return a.as.TX(stx.Tx()).Create(ctx, account)
	})
	if err != nil {
		return err
	}

	token, err := stoken.NewJWT(account.ID.String(), stoken.AccessToken, a.tokenTTL, a.secret)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, AccountCreateResponse{
		Account:     *taccount.SerializeModelToRPC(account),
		AccessToken: token,
	})
}

func (a *AccountRPC) AccountMe(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	account, err := a.as.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, taccount.SerializeModelToRPC(*account))
}

func (a *AccountRPC) AccountUpdate(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	req, err := api.Bind[AccountUpdateRequest](c)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return api.BadRequest(ErrEmptyName)
	}

	var updated *maccount.Account
	err = api.RunTx(c.Request().Context(), a.DB, a.stream, func(ctx context.Context, stx *api.SyncTx) error {
		as := a.as.TX(stx.Tx())
		if err := as.UpdateName(ctx, userID, name); err != nil {
			return err
		}
		account, err := as.Get(ctx, userID)
		updated = account
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, taccount.SerializeModelToRPC(*updated))
}

// AccountDelete removes the caller. The adviser of the group the caller was
// in sees the member leave.
func (a *AccountRPC) AccountDelete(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}

	err = api.RunTx(c.Request().Context(), a.DB, a.stream, func(ctx context.Context, stx *api.SyncTx) error {
		as := a.as.TX(stx.Tx())
		account, err := as.Get(ctx, userID)
		if err != nil {
			return err
		}
		if account.GroupID != nil {
			group, err := a.gs.TX(stx.Tx()).Get(ctx, *account.GroupID)
			if err != nil {
				return err
			}
			if owner := group.Owner(); owner != nil {
				stx.Track(mevent.OrderEvent{
					Owner:  *owner,
					Kind:   mevent.KindDeleted,
					List:   mevent.ListMembers,
					ListID: group.ID.String(),
					ItemID: userID,
					Index:  -1,
				})
			}
		}
		return as.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
