package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/core/ports"
	"github.com/colonydesk/backoffice/internal/pkg/tokeninfo"
)

// RedirectSource hands out the navigation requested by the last session
// change, if any.
type RedirectSource interface {
	Take() string
}

type SessionHandler struct {
	session   ports.SessionController
	store     ports.CredentialStore
	redirects RedirectSource
}

func NewSessionHandler(session ports.SessionController, store ports.CredentialStore, redirects RedirectSource) *SessionHandler {
	return &SessionHandler{session: session, store: store, redirects: redirects}
}

// Register creates an account on the backend and signs it in.
//
// @Summary      Register a new user
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "User registration details"
// @Success      201   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /session/register [post]
func (h *SessionHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s, err := h.session.Register(c.Request().Context(), domain.Registration{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toSessionResponse(s))
}

// Login signs in with email and password.
//
// @Summary      Login
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /session/login [post]
func (h *SessionHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s, err := h.session.Login(c.Request().Context(), domain.LoginCredentials{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(s))
}

// Logout ends the session. It never fails.
//
// @Summary      Logout
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	s := h.session.Logout(c.Request().Context())
	resp := toSessionResponse(s)
	resp.Redirect = domain.PathLogin
	return c.JSON(http.StatusOK, resp)
}

// Get returns the session snapshot together with any pending navigation and
// the access token expiry.
//
// @Summary      Current session
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session [get]
func (h *SessionHandler) Get(c echo.Context) error {
	resp := toSessionResponse(h.session.State())
	resp.Redirect = h.redirects.Take()

	if resp.User != nil {
		cred, ok, err := h.store.Load(c.Request().Context())
		if err != nil {
			return err
		}
		if ok {
			if info, ok := tokeninfo.Inspect(cred.AccessToken); ok && !info.ExpiresAt.IsZero() {
				exp := info.ExpiresAt
				resp.TokenExpiresAt = &exp
			}
		}
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateProfile merges locally edited profile fields into the session user.
//
// @Summary      Update cached profile
// @Tags         session
// @Accept       json
// @Produce      json
// @Param        body  body      profilePatchRequest  true  "Fields to merge"
// @Success      200   {object}  sessionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Router       /session/profile [patch]
func (h *SessionHandler) UpdateProfile(c echo.Context) error {
	var req profilePatchRequest
	if err := c.Bind(&req); err != nil {
		return fmt.Errorf("%w: invalid payload", domain.ErrInvalidInput)
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	s, err := h.session.MergeProfile(c.Request().Context(), domain.ProfilePatch{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toSessionResponse(s))
}

// ClearError drops the last sign-in failure.
//
// @Summary      Clear session error
// @Tags         session
// @Produce      json
// @Success      200  {object}  sessionResponse
// @Router       /session/error [delete]
func (h *SessionHandler) ClearError(c echo.Context) error {
	return c.JSON(http.StatusOK, toSessionResponse(h.session.ClearError()))
}
