package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/core/ports"
)

type NavigationHandler struct {
	session ports.SessionController
	authz   ports.RoleAuthorizer
}

func NewNavigationHandler(session ports.SessionController, authz ports.RoleAuthorizer) *NavigationHandler {
	return &NavigationHandler{session: session, authz: authz}
}

// Navigate reports whether the current session may open a destination.
//
// @Summary      Guard a destination
// @Tags         navigation
// @Produce      json
// @Param        to   query     string  true  "Destination path, e.g. /admin/bookings/42"
// @Success      200  {object}  domain.Decision
// @Success      202  {object}  domain.Decision  "Session still resuming"
// @Failure      401  {object}  domain.Decision
// @Failure      403  {object}  domain.Decision
// @Failure      404  {object}  domain.Decision
// @Router       /navigate [get]
func (h *NavigationHandler) Navigate(c echo.Context) error {
	to := c.QueryParam("to")
	if to == "" {
		return fmt.Errorf("%w: to is required", domain.ErrInvalidInput)
	}

	d := h.authz.Guard(h.session.State(), to)
	return c.JSON(decisionStatus(d.Outcome), d)
}

// Menu returns the sidebar entries for the signed-in role.
//
// @Summary      Navigation menu
// @Tags         navigation
// @Produce      json
// @Security     Session
// @Success      200  {object}  menuResponse
// @Failure      401  {object}  errorResponse
// @Router       /session/menu [get]
func (h *NavigationHandler) Menu(c echo.Context) error {
	s := ctxSession(c, h.session)
	role := s.Role()
	return c.JSON(http.StatusOK, menuResponse{
		Role:  role.String(),
		Items: h.authz.BuildMenu(role),
	})
}

// Routes returns the full destination and role table.
//
// @Summary      Route table
// @Tags         navigation
// @Produce      json
// @Security     Session
// @Success      200  {object}  routesResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /session/routes [get]
func (h *NavigationHandler) Routes(c echo.Context) error {
	return c.JSON(http.StatusOK, routesResponse{Routes: h.authz.Routes()})
}

func decisionStatus(o domain.Outcome) int {
	switch o {
	case domain.OutcomeAllow:
		return http.StatusOK
	case domain.OutcomePending:
		return http.StatusAccepted
	case domain.OutcomeRedirectLogin:
		return http.StatusUnauthorized
	case domain.OutcomeRedirectUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusNotFound
	}
}
