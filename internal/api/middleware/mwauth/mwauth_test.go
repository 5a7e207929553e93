package mwauth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/stoken"
)

var secret = []byte("test-secret")

func serve(t *testing.T, header string) (*httptest.ResponseRecorder, *idwrap.IDWrap) {
	t.Helper()
	e := echo.New()
	var seen *idwrap.IDWrap
	e.GET("/", func(c echo.Context) error {
		id, err := GetContextUserID(c.Request().Context())
		if err != nil {
			return err
		}
		seen = &id
		return c.NoContent(http.StatusNoContent)
	}, NewAuthMiddleware(secret))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if header != "" {
		req.Header.Set(stoken.TokenHeaderKey, header)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthMiddleware(t *testing.T) {
	userID := idwrap.NewNow()
	token, err := stoken.NewJWT(userID.String(), stoken.AccessToken, time.Minute, secret)
	require.NoError(t, err)

	rec, seen := serve(t, "Bearer "+token)
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, seen)
	assert.Equal(t, 0, seen.Compare(userID))
}

func TestAuthMiddlewareRejects(t *testing.T) {
	refresh, err := stoken.NewJWT(idwrap.NewNow().String(), stoken.RefreshToken, time.Minute, secret)
	require.NoError(t, err)
	foreign, err := stoken.NewJWT(idwrap.NewNow().String(), stoken.AccessToken, time.Minute, []byte("other"))
	require.NoError(t, err)
	badSubject, err := stoken.NewJWT("not-a-ulid", stoken.AccessToken, time.Minute, secret)
	require.NoError(t, err)

	for name, header := range map[string]string{
		"missing":       "",
		"no bearer":     refresh,
		"refresh token": "Bearer " + refresh,
		"wrong secret":  "Bearer " + foreign,
		"bad subject":   "Bearer " + badSubject,
	} {
		t.Run(name, func(t *testing.T) {
			rec, seen := serve(t, header)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Nil(t, seen)
		})
	}
}

func TestGetContextUserIDMissing(t *testing.T) {
	_, err := GetContextUserID(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.ErrorIs(t, err, ErrNoUser)
}
