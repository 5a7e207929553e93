// Package apitest runs handlers against an in-memory database through the
// full echo stack.
package apitest

import (
	"bytes"
	"context"
	"database/sql"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	"github.com/dietlog/server/internal/api"
	"github.com/dietlog/server/pkg/eventstream/memory"
	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/logger/mocklogger"
	"github.com/dietlog/server/pkg/model/mevent"
	"github.com/dietlog/server/pkg/stoken"
	"github.com/dietlog/server/pkg/testutil"
)

var Secret = []byte("apitest-secret")

type Env struct {
	*testutil.BaseDBQueries
	Services testutil.BaseTestServices
	Stream   api.Streamer
	Echo     *echo.Echo

	t *testing.T
}

// Build creates the handlers under test from the shared database and stream.
type Build func(db *sql.DB, services testutil.BaseTestServices, stream api.Streamer) []api.Service

func New(t *testing.T, build Build) *Env {
	t.Helper()
	base := testutil.CreateBaseDB(context.Background(), t)
	t.Cleanup(base.Close)

	stream := memory.NewInMemorySyncStreamer[mevent.Topic, mevent.OrderEvent]()
	t.Cleanup(stream.Shutdown)

	services := base.GetBaseServices()
	e := api.New(mocklogger.NewMockLogger(), "apitest", Secret, build(base.DB, services, stream)...)
	return &Env{
		BaseDBQueries: base,
		Services:      services,
		Stream:        stream,
		Echo:          e,
		t:             t,
	}
}

func (env *Env) Token(userID idwrap.IDWrap) string {
	env.t.Helper()
	token, err := stoken.NewJWT(userID.String(), stoken.AccessToken, time.Minute, Secret)
	if err != nil {
		env.t.Fatal(err)
	}
	return token
}

// Do sends a request as userID, or anonymously when userID is nil. body is
// encoded as JSON unless it is nil.
func (env *Env) Do(method, path string, body any, userID *idwrap.IDWrap) *httptest.ResponseRecorder {
	env.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			env.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if userID != nil {
		req.Header.Set(stoken.TokenHeaderKey, "Bearer "+env.Token(*userID))
	}
	rec := httptest.NewRecorder()
	env.Echo.ServeHTTP(rec, req)
	return rec
}

// Subscribe collects the events published for accountID.
func (env *Env) Subscribe(accountID idwrap.IDWrap) <-chan mevent.OrderEvent {
	env.t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	env.t.Cleanup(cancel)
	events, err := env.Stream.Subscribe(ctx, func(topic mevent.Topic) bool {
		return topic.AccountID.Compare(accountID) == 0
	})
	if err != nil {
		env.t.Fatal(err)
	}
	out := make(chan mevent.OrderEvent, 64)
	go func() {
		defer close(out)
		for evt := range events {
			out <- evt.Payload
		}
	}()
	return out
}

// NextEvent waits briefly for the next event on events.
func NextEvent(t *testing.T, events <-chan mevent.OrderEvent) mevent.OrderEvent {
	t.Helper()
	select {
	case evt, ok := <-events:
		if !ok {
			t.Fatal("event stream closed")
		}
		return evt
	case <-time.After(time.Second):
		t.Fatal("no event received")
	}
	return mevent.OrderEvent{}
}

func Decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func Status(t *testing.T, expected int, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != expected {
		t.Fatalf("status %d, expected %d: %s", rec.Code, expected, rec.Body.String())
	}
}

// Ptr is a shorthand for optional request fields.
func Ptr[T any](v T) *T {
	return &v
}
