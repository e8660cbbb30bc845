package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/colonydesk/backoffice/internal/core/domain"
)

// SessionKey is the echo context key holding the domain.Session snapshot.
const SessionKey = "session"

// SessionSource exposes the current session.
type SessionSource interface {
	State() domain.Session
}

// RequireSession rejects requests while nobody is signed in and injects the
// session snapshot into the context.
func RequireSession(sessions SessionSource) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s := sessions.State()
			if !s.Authenticated() {
				return domain.ErrUnauthenticated
			}

			c.Set(SessionKey, s)
			c.Set("role", s.Role())

			return next(c)
		}
	}
}
