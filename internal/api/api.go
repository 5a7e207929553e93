//nolint:revive // exported
package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/cors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/sync/errgroup"

	"github.com/dietlog/server/internal/api/middleware/mwauth"
	"github.com/dietlog/server/pkg/model/mmeal"
	"github.com/dietlog/server/pkg/movable"
	"github.com/dietlog/server/pkg/permcheck"
	"github.com/dietlog/server/pkg/service/saccount"
	"github.com/dietlog/server/pkg/service/sdish"
	"github.com/dietlog/server/pkg/service/sgroup"
	"github.com/dietlog/server/pkg/txutil"
)

const shutdownTimeout = 10 * time.Second

// corsMaxAge is how long browsers may cache a preflight response, in seconds.
const corsMaxAge = 600

// Service mounts its routes. auth must guard every route that acts on behalf
// of an account.
type Service interface {
	Register(e *echo.Echo, auth echo.MiddlewareFunc)
}

type ErrorResponse struct {
	Message string `json:"message"`
}

// New builds the echo instance with the ambient middleware and every service
// mounted. secret signs and validates access tokens.
func New(logger *slog.Logger, serviceName string, secret []byte, services ...Service) *echo.Echo {
	if logger == nil {
		logger = slog.Default()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = JSONSerializer{}
	e.HTTPErrorHandler = NewErrorHandler(logger)

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(otelecho.Middleware(serviceName))
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := slog.LevelInfo
			if v.Status >= http.StatusInternalServerError {
				level = slog.LevelError
			}
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
				slog.String("request_id", v.RequestID),
			}
			if v.Error != nil {
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	}))
	e.Use(middleware.Recover())

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	auth := mwauth.NewAuthMiddleware(secret)
	for _, s := range services {
		s.Register(e, auth)
	}
	return e
}

// ToHTTPError maps domain errors to the status code the client sees.
func ToHTTPError(err error) *echo.HTTPError {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var rangeErr *movable.IndexOutOfRangeError
	switch {
	case errors.As(err, &rangeErr),
		errors.Is(err, mmeal.ErrInvalidDay),
		errors.Is(err, sdish.ErrInvalidGrams):
		code, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, mwauth.ErrNoUser):
		code, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, sgroup.ErrNotAdviser),
		errors.Is(err, sdish.ErrForeignMeal),
		errors.Is(err, permcheck.ErrPermissionDenied):
		code, message = http.StatusForbidden, err.Error()
	case errors.Is(err, sdish.ErrNoTargetMeal),
		errors.Is(err, movable.ErrNodeNotFound),
		errors.Is(err, movable.ErrPartitionNotFound):
		code, message = http.StatusNotFound, err.Error()
	case errors.Is(err, sql.ErrNoRows):
		code, message = http.StatusNotFound, "not found"
	case errors.Is(err, saccount.ErrEmailTaken),
		errors.Is(err, saccount.ErrAccountOwnsGroups),
		errors.Is(err, sgroup.ErrGroupNotEmpty),
		errors.Is(err, sgroup.ErrNoOwner),
		errors.Is(err, movable.ErrCorruptOrder),
		errors.Is(err, movable.ErrNodeAttached),
		errors.Is(err, movable.ErrNotAdjacent),
		errors.Is(err, movable.ErrCrossPartition),
		errors.Is(err, movable.ErrSelfReference):
		code, message = http.StatusConflict, err.Error()
	case errors.Is(err, txutil.ErrTooManyAttempts):
		code, message = http.StatusServiceUnavailable, err.Error()
	}
	return echo.NewHTTPError(code, message).SetInternal(err)
}

// NewErrorHandler writes every handler error as {"message": ...}.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		httpErr := ToHTTPError(err)
		message, ok := httpErr.Message.(string)
		if !ok {
			message = http.StatusText(httpErr.Code)
		}
		if httpErr.Code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"path", c.Path(),
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.Code)
		} else {
			err = c.JSON(httpErr.Code, ErrorResponse{Message: message})
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "write error response", "error", err)
		}
	}
}

// BadRequest wraps a decoding or validation failure of the request itself.
func BadRequest(err error) *echo.HTTPError {
	return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
}

func newCORS() *cors.Cors {
	return cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowOriginFunc: func(origin string) bool {
			return true
		},
		AllowedHeaders: []string{"*"},
		ExposedHeaders: []string{
			"Accept",
			"Accept-Encoding",
			"Content-Encoding",
			echo.HeaderXRequestID,
		},
		MaxAge: corsMaxAge,
	})
}

func newH2CServer(handler http.Handler, addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		ReadHeaderTimeout: 10 * time.Second,
		// INFO: Use h2c so we can serve HTTP/2 without TLS.
		Handler: h2c.NewHandler(newCORS().Handler(handler), &http2.Server{
			IdleTimeout:          0,
			MaxConcurrentStreams: 100000,
			MaxHandlers:          0,
		}),
	}
}

// Serve listens on addr until ctx is canceled, then drains open requests.
func Serve(ctx context.Context, handler http.Handler, addr string, logger *slog.Logger) error {
	srv := newH2CServer(handler, addr)
	srv.BaseContext = func(net.Listener) context.Context { return ctx }

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Server listening on TCP", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()
		logger.Info("Shutting down server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
