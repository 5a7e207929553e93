package api

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dietlog/server/internal/api/middleware/mwauth"
	"github.com/dietlog/server/pkg/eventstream"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mevent"
	"github.com/dietlog/server/pkg/txutil"
)

type Streamer = eventstream.SyncStreamer[mevent.Topic, mevent.OrderEvent]

type SyncTx = txutil.BulkSyncTx[mevent.OrderEvent, mevent.Topic]

var ErrMissingIndex = errors.New("index is required")

// RequireIndex returns the target position of a move request. A move without
// a position is rejected instead of defaulting to the head.
func RequireIndex(index *int) (int, error) {
	if index == nil {
		return 0, BadRequest(ErrMissingIndex)
	}
	return *index, nil
}

// ParamID parses the path parameter name as an identifier.
func ParamID(c echo.Context, name string) (idwrap.IDWrap, error) {
	id, err := idwrap.NewText(c.Param(name))
	if err != nil {
		return idwrap.IDWrap{}, echo.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("invalid %s", name)).SetInternal(err)
	}
	return id, nil
}

// UserID returns the authenticated account of the request.
func UserID(c echo.Context) (idwrap.IDWrap, error) {
	id, err := mwauth.GetContextUserID(c.Request().Context())
	if err != nil {
		return idwrap.IDWrap{}, echo.NewHTTPError(http.StatusUnauthorized, err.Error()).SetInternal(err)
	}
	return id, nil
}

// Bind decodes the request body into req.
func Bind[T any](c echo.Context) (T, error) {
	var req T
	if err := (&echo.DefaultBinder{}).BindBody(c, &req); err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return req, httpErr
		}
		return req, BadRequest(err)
	}
	return req, nil
}

// RunTx runs fn in a retried write transaction and publishes the events it
// tracked once the transaction has committed.
func RunTx(ctx context.Context, db *sql.DB, stream Streamer, fn func(ctx context.Context, stx *SyncTx) error) error {
	return txutil.RunAndPublish(ctx, db, mevent.TopicOf, PublishTo(stream), fn)
}

func PublishTo(stream Streamer) func(mevent.Topic, []mevent.OrderEvent) {
	return func(topic mevent.Topic, events []mevent.OrderEvent) {
		stream.Publish(topic, events...)
	}
}
