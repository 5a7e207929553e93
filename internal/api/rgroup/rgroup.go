package rgroup

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dietlog/server/internal/api"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mevent"
	"github.com/dietlog/server/pkg/model/mgroup"
	"github.com/dietlog/server/pkg/permcheck"
	"github.com/dietlog/server/pkg/service/saccount"
	"github.com/dietlog/server/pkg/service/sgroup"
	"github.com/dietlog/server/pkg/translate/taccount"
	"github.com/dietlog/server/pkg/translate/tgeneric"
	"github.com/dietlog/server/pkg/translate/tgroup"
)

var ErrEmptyName = errors.New("name must not be empty")

type GroupRPC struct {
	DB *sql.DB

	as saccount.AccountService
	gs sgroup.GroupService

	stream api.Streamer
}

func New(db *sql.DB, as saccount.AccountService, gs sgroup.GroupService, stream api.Streamer) *GroupRPC {
	return &GroupRPC{
		DB:     db,
		as:     as,
		gs:     gs,
		stream: stream,
	}
}

func (g *GroupRPC) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	groups := e.Group("/groups", auth)
	groups.GET("", g.GroupList)
	groups.POST("", g.GroupCreate)
	groups.PATCH("/:groupId", g.GroupUpdate)
	groups.DELETE("/:groupId", g.GroupDelete)
	groups.PUT("/:groupId/position", g.GroupMove)
	groups.POST("/:groupId/archive", g.GroupArchive)
	groups.POST("/:groupId/restore", g.GroupRestore)

	groups.GET("/:groupId/accounts", g.MemberList)
	groups.PUT("/:groupId/accounts/:accountId", g.MemberMove)
	groups.DELETE("/:groupId/accounts/:accountId", g.MemberRemove)
}

// CheckOwnerGroup reports whether userID is the adviser managing groupID.
func CheckOwnerGroup(ctx context.Context, gs sgroup.GroupService, groupID, userID idwrap.IDWrap) (bool, error) {
	group, err := gs.Get(ctx, groupID)
	if err != nil {
		return false, err
	}
	return group.OwnedBy(userID), nil
}

type GroupCreateRequest struct {
	Name  string `json:"name"`
	Index *int   `json:"index,omitempty"`
}

type GroupUpdateRequest struct {
	Name string `json:"name"`
}

type MoveRequest struct {
	Index *int `json:"index"`
}

type GroupListResponse struct {
	Items []tgroup.Group `json:"items"`
}

type MemberListResponse struct {
	GroupId string            `json:"groupId"`
	Items   []taccount.Member `json:"items"`
}

// GroupList returns the caller's groups in order, or the archived ones when
// ?archived=true.
func (g *GroupRPC) GroupList(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	var groups []mgroup.Group
	if c.QueryParam("archived") == "true" {
		groups, err = g.gs.ListArchived(ctx, userID)
	} else {
		groups, err = g.gs.ListByAdviser(ctx, userID)
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, GroupListResponse{Items: tgeneric.MassConvert(groups, tgroup.SerializeModelToRPC)})
}

// GroupCreate stores a group for the caller and places it at index, or last.
func (g *GroupRPC) GroupCreate(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	req, err := api.Bind[GroupCreateRequest](c)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return api.BadRequest(ErrEmptyName)
	}

	group := mgroup.Group{ID: idwrap.NewNow(), Name: name, LastAdviserID: &userID}
	err = api.RunTx(c.Request().Context(), g.DB, g.stream, func(ctx context.Context, stx *api.SyncTx) error {
		gs := g.gs.TX(stx.Tx())
		if err := gs.Create(ctx, group); err != nil {
			return err
		}
		var placeErr error
		if req.Index != nil {
			placeErr = gs.MoveToAdviser(ctx, group.ID, userID, *req.Index)
		} else {
			placeErr = gs.Append(ctx, group.ID, userID)
		}
		if placeErr != nil {
			return placeErr
		}
		return trackGroup(ctx, stx, gs, mevent.KindCreated, group.ID, userID)
	})
	if err != nil {
		return err
	}
	group.AdviserID = &userID
	return c.JSON(http.StatusCreated, tgroup.SerializeModelToRPC(group))
}

func (g *GroupRPC) GroupUpdate(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	groupID, err := api.ParamID(c, "groupId")
	if err != nil {
		return err
	}
	req, err := api.Bind[GroupUpdateRequest](c)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return api.BadRequest(ErrEmptyName)
	}

	var updated *mgroup.Group
	err = api.RunTx(c.Request().Context(), g.DB, g.stream, func(ctx context.Context, stx *api.SyncTx) error {
		gs := g.gs.TX(stx.Tx())
		if err := permcheck.CheckPerm(CheckOwnerGroup(ctx, gs, groupID, userID)); err != nil {
			return err
		}
		if err := gs.Rename(ctx, groupID, name); err != nil {
			return err
		}
		group, err := gs.Get(ctx, groupID)
		updated = group
		return err
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tgroup.SerializeModelToRPC(*updated))
}

// GroupMove places the group at index in the caller's order. Archived groups
// are restored at that position.
func (g *GroupRPC) GroupMove(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	groupID, err := api.ParamID(c, "groupId")
	if err != nil {
		return err
	}
	req, err := api.Bind[MoveRequest](c)
	if err != nil {
		return err
	}
	index, err := api.RequireIndex(req.Index)
	if err != nil {
		return err
	}

	err = api.RunTx(c.Request().Context(), g.DB, g.stream, func(ctx context.Context, stx *api.SyncTx) error {
		gs := g.gs.TX(stx.Tx())
		if err := permcheck.CheckPerm(CheckOwnerGroup(ctx, gs, groupID, userID)); err != nil {
			return err
		}
		if err := gs.MoveToAdviser(ctx, groupID, userID, index); err != nil {
			return err
		}
		return trackGroup(ctx, stx, gs, mevent.KindMoved, groupID, userID)
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (g *GroupRPC) GroupArchive(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	groupID, err := api.ParamID(c, "groupId")
	if err != nil {
		return err
	}

	err = api.RunTx(c.Request().Context(), g.DB, g.stream, func(ctx context.Context, stx *api.SyncTx) error {
		gs := g.gs.TX(stx.Tx())
		if err := permcheck.CheckPerm(CheckOwnerGroup(ctx, gs, groupID, userID)); err != nil {
			return err
		}
		if err := gs.Archive(ctx, groupID); err != nil {
			return err
		}
		stx.Track(mevent.OrderEvent{
			Owner:  userID,
			Kind:   mevent.KindArchived,
			List:   mevent.ListGroups,
			ListID: userID.String(),
			ItemID: groupID,
			Index:  -1,
		})
		return nil
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GroupRestore appends an archived group to the end of the caller's order.
func (g *GroupRPC) GroupRestore(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	groupID, err := api.ParamID(c, "groupId")
	if err != nil {
		return err
	}

	err = api.RunTx(c.Request().Context(), g.DB, g.stream, func(ctx context.Context, stx *api.SyncTx) error {
		gs := g.gs.TX(stx.Tx())
		if err := permcheck.CheckPerm(CheckOwnerGroup(ctx, gs, groupID, userID)); err != nil {
			return err
		}
		if err := gs.Restore(ctx, groupID); err != nil {
			return err
		}
		return trackGroup(ctx, stx, gs, mevent.KindRestored, groupID, userID)
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// GroupDelete takes every member out of the group before deleting it.
func (g *GroupRPC) GroupDelete(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	groupID, err := api.ParamID(c, "groupId")
	if err != nil {
		return err
	}

	err = api.RunTx(c.Request().Context(), g.DB, g.stream, func(ctx context.Context, stx *api.SyncTx) error {
		gs := g.gs.TX(stx.Tx())
		as := g.as.TX(stx.Tx())
		if err := permcheck.CheckPerm(CheckOwnerGroup(ctx, gs, groupID, userID)); err != nil {
			return err
		}
		members, err := as.ListByGroup(ctx, groupID)
		if err != nil {
			return err
		}
		for _, m := range members {
			if err := as.LeaveGroup(ctx, m.ID); err != nil {
				return err
			}
			stx.Track(mevent.OrderEvent{
				Owner:  userID,
				Kind:   mevent.KindRemoved,
				List:   mevent.ListMembers,
				ListID: groupID.String(),
				ItemID: m.ID,
				Index:  -1,
			})
		}
		if err := gs.Delete(ctx, groupID); err != nil {
			return err
		}
		stx.Track(mevent.OrderEvent{
			Owner:  userID,
			Kind:   mevent.KindDeleted,
			List:   mevent.ListGroups,
			ListID: userID.String(),
			ItemID: groupID,
			Index:  -1,
		})
		return nil
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func (g *GroupRPC) MemberList(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	groupID, err := api.ParamID(c, "groupId")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if err := permcheck.CheckPerm(CheckOwnerGroup(ctx, g.gs, groupID, userID)); err != nil {
		return err
	}

	members, err := g.as.ListByGroup(ctx, groupID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, MemberListResponse{
		GroupId: groupID.String(),
		Items:   tgeneric.MassConvert(members, taccount.SerializeModelToRPCItem),
	})
}

// MemberMove places the account at index inside the group. An account that
// is still in another group is taken out of it, which requires managing that
// group too.
func (g *GroupRPC) MemberMove(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	groupID, err := api.ParamID(c, "groupId")
	if err != nil {
		return err
	}
	accountID, err := api.ParamID(c, "accountId")
	if err != nil {
		return err
	}
	req, err := api.Bind[MoveRequest](c)
	if err != nil {
		return err
	}
	index, err := api.RequireIndex(req.Index)
	if err != nil {
		return err
	}

	err = api.RunTx(c.Request().Context(), g.DB, g.stream, func(ctx context.Context, stx *api.SyncTx) error {
		gs := g.gs.TX(stx.Tx())
		as := g.as.TX(stx.Tx())
		if err := permcheck.CheckPerm(CheckOwnerGroup(ctx, gs, groupID, userID)); err != nil {
			return err
		}
		account, err := as.Get(ctx, accountID)
		if err != nil {
			return err
		}
		source := account.GroupID
		if source != nil && source.Compare(groupID) != 0 {
			if err := permcheck.CheckPerm(CheckOwnerGroup(ctx, gs, *source, userID)); err != nil {
				return err
			}
		}

		if err := as.MoveToGroup(ctx, accountID, groupID, index); err != nil {
			return err
		}

		if source != nil && source.Compare(groupID) != 0 {
			stx.Track(mevent.OrderEvent{
				Owner:  userID,
				Kind:   mevent.KindRemoved,
				List:   mevent.ListMembers,
				ListID: source.String(),
				ItemID: accountID,
				Index:  -1,
			})
		}
		index, err := as.Order().Position(ctx, accountID)
		if err != nil {
			return err
		}
		stx.Track(mevent.OrderEvent{
			Owner:  userID,
			Kind:   mevent.KindMoved,
			List:   mevent.ListMembers,
			ListID: groupID.String(),
			ItemID: accountID,
			Index:  index,
		})
		return nil
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// MemberRemove takes the account out of the group. Advisers may remove any
// member; a member may remove itself.
func (g *GroupRPC) MemberRemove(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	groupID, err := api.ParamID(c, "groupId")
	if err != nil {
		return err
	}
	accountID, err := api.ParamID(c, "accountId")
	if err != nil {
		return err
	}

	err = api.RunTx(c.Request().Context(), g.DB, g.stream, func(ctx context.Context, stx *api.SyncTx) error {
		gs := g.gs.TX(stx.Tx())
		as := g.as.TX(stx.Tx())
		group, err := gs.Get(ctx, groupID)
		if err != nil {
			return err
		}
		if accountID.Compare(userID) != 0 {
			if err := permcheck.CheckPerm(group.OwnedBy(userID), nil); err != nil {
				return err
			}
		}
		account, err := as.Get(ctx, accountID)
		if err != nil {
			return err
		}
		if !account.InGroup(groupID) {
			return echo.NewHTTPError(http.StatusNotFound, "account is not a member of the group")
		}

		if err := as.LeaveGroup(ctx, accountID); err != nil {
			return err
		}
		if owner := group.Owner(); owner != nil {
			stx.Track(mevent.OrderEvent{
				Owner:  *owner,
				Kind:   mevent.KindRemoved,
				List:   mevent.ListMembers,
				ListID: groupID.String(),
				ItemID: accountID,
				Index:  -1,
			})
		}
		return nil
	})
	if err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

func trackGroup(ctx context.Context, stx *api.SyncTx, gs sgroup.GroupService, kind mevent.Kind, groupID, adviserID idwrap.IDWrap) error {
	index, err := gs.Order().Position(ctx, groupID)
	if err != nil {
		return err
	}
	stx.Track(mevent.OrderEvent{
		Owner:  adviserID,
		Kind:   kind,
		List:   mevent.ListGroups,
		ListID: adviserID.String(),
		ItemID: groupID,
		Index:  index,
	})
	return nil
}
