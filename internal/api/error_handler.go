package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/infrastructure/authapi"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status and the surface the UI
//     should navigate to.
//   - Passes backend failures through with the backend's status.
//   - Logs unexpected errors internally without leaking details to the client.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, resp := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, resp)
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, errorResponse) {
	// Domain errors first: echo.HTTPError unwraps to its Internal cause, which
	// is how proxy failures reach here.
	switch {
	case errors.Is(err, domain.ErrRefreshFailed):
		return http.StatusUnauthorized, errorResponse{Error: "session expired", Redirect: domain.PathLogin}
	case errors.Is(err, domain.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{Error: "not authenticated", Redirect: domain.PathLogin}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden, errorResponse{Error: "access forbidden", Redirect: domain.PathUnauthorized}
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{Error: err.Error()}
	}

	var apiErr *authapi.HTTPError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode, errorResponse{Error: authapi.Message(apiErr)}
	}

	// Echo's own errors (bind failures, 404 from router, proxy errors, etc.)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code >= http.StatusInternalServerError {
			log.Warn().Err(err).Str("path", c.Path()).Int("status", he.Code).Msg("request failed")
		}
		return he.Code, errorResponse{Error: fmt.Sprintf("%v", he.Message)}
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, errorResponse{Error: "internal server error"}
}
