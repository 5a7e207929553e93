//nolint:revive // exported
package mwauth

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dietlog/server/pkg/idwrap"
	"github.com/dietlog/server/pkg/stoken"
)

type ContextKey int

const (
	UserIDKeyCtx ContextKey = iota
)

var ErrNoUser = errors.New("user id not found in context")

func CreateAuthedContext(ctx context.Context, userID idwrap.IDWrap) context.Context {
	return context.WithValue(ctx, UserIDKeyCtx, userID)
}

func GetContextUserID(ctx context.Context) (idwrap.IDWrap, error) {
	id, ok := ctx.Value(UserIDKeyCtx).(idwrap.IDWrap)
	if !ok {
		return idwrap.IDWrap{}, ErrNoUser
	}
	return id, nil
}

// NewAuthMiddleware validates the bearer access token and stores the account
// id it was issued for in the request context.
func NewAuthMiddleware(secret []byte) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			headerValue := req.Header.Get(stoken.TokenHeaderKey)
			if headerValue == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
			}

			tokenRaw, ok := strings.CutPrefix(headerValue, "Bearer ")
			if !ok || tokenRaw == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			token, err := stoken.ValidateJWT(tokenRaw, stoken.AccessToken, secret)
			if err != nil {
				slog.DebugContext(req.Context(), "Error validating JWT token", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
			}
			claims, err := stoken.GetClaims(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
			}

			id, err := idwrap.NewText(claims.Subject)
			if err != nil {
				slog.ErrorContext(req.Context(), "Error creating ID from claims.Subject", "error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token").SetInternal(err)
			}

			c.SetRequest(req.WithContext(CreateAuthedContext(req.Context(), id)))
			return next(c)
		}
	}
}
