package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/colonydesk/backoffice/internal/core/domain"
)

// RequireRoles enforces role-based access control. It must run after
// RequireSession.
func RequireRoles(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get("role").(domain.Role)
			if _, ok := allowed[role]; !ok || !role.Known() {
				return domain.ErrUnauthorized
			}
			return next(c)
		}
	}
}
