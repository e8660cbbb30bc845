package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/colonydesk/backoffice/internal/api/middleware"
	"github.com/colonydesk/backoffice/internal/core/domain"
)

// ctxSession returns the session injected by RequireSession, falling back to
// the live state for routes mounted without the middleware.
func ctxSession(c echo.Context, sessions middleware.SessionSource) domain.Session {
	if s, ok := c.Get(middleware.SessionKey).(domain.Session); ok {
		return s
	}
	return sessions.State()
}
