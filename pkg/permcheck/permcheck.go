//nolint:revive // exported
package permcheck

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

var ErrPermissionDenied = errors.New("permission denied")

// CheckPerm turns the result of an ownership check into a handler error.
// Errors that already carry an HTTP status are passed through untouched.
func CheckPerm(ok bool, err error) error {
	if err != nil {
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			return httpErr
		}
		return err
	}
	if !ok {
		return echo.NewHTTPError(http.StatusForbidden, ErrPermissionDenied.Error()).SetInternal(ErrPermissionDenied)
	}
	return nil
}
