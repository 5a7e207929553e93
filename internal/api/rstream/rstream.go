package rstream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/dietlog/server/internal/api"
	"github.com/dietlog/server/pkg/eventstream"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/model/mevent"
)

const MIMETextEventStream = "text/event-stream"

type StreamRPC struct {
	stream api.Streamer
	logger *slog.Logger
}

func New(stream api.Streamer, logger *slog.Logger) *StreamRPC {
	if logger == nil {
		logger = slog.Default()
	}
	return &StreamRPC{stream: stream, logger: logger}
}

func (s *StreamRPC) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	e.GET("/stream", s.OrderSync, auth)
}

// OrderSync streams the caller's order changes as server-sent events until
// the client disconnects.
func (s *StreamRPC) OrderSync(c echo.Context) error {
	userID, err := api.UserID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	events, err := s.stream.Subscribe(ctx, ownedBy(userID))
	if err != nil {
		return err
	}

	w := c.Response()
	w.Header().Set(echo.HeaderContentType, MIMETextEventStream)
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	w.Flush()

	s.logger.DebugContext(ctx, "order stream opened", "account_id", userID.String())
	err = eventstream.Forward(ctx, events, convert, func(evt *mevent.OrderEvent) error {
		return writeEvent(w, evt)
	})
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		err = nil
	}
	s.logger.DebugContext(ctx, "order stream closed", "account_id", userID.String(), "error", err)
	return err
}

func ownedBy(userID idwrap.IDWrap) eventstream.TopicFilter[mevent.Topic] {
	return func(topic mevent.Topic) bool {
		return topic.AccountID.Compare(userID) == 0
	}
}

func convert(evt mevent.OrderEvent) *mevent.OrderEvent {
	return &evt
}

func writeEvent(w *echo.Response, evt *mevent.OrderEvent) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", evt.Kind, data); err != nil {
		return err
	}
	w.Flush()
	return nil
}
