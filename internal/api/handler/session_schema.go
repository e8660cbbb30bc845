package handler

import (
	"time"

	"github.com/colonydesk/backoffice/internal/core/domain"
)

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Error    string `json:"error"`
	Redirect string `json:"redirect,omitempty"`
}

// --- Request / Response types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required,max=120"`
	Email    string `json:"email"    validate:"required,email"`
	Phone    string `json:"phone"    validate:"omitempty,max=32"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role"     validate:"omitempty,role"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type profilePatchRequest struct {
	Name  *string `json:"name"  validate:"omitempty,min=1,max=120"`
	Email *string `json:"email" validate:"omitempty,email"`
	Phone *string `json:"phone" validate:"omitempty,max=32"`
}

type sessionResponse struct {
	Status         domain.SessionStatus `json:"status"`
	User           *domain.UserProfile  `json:"user"`
	Role           string               `json:"role,omitempty"`
	Error          string               `json:"error,omitempty"`
	Loading        bool                 `json:"loading"`
	Redirect       string               `json:"redirect,omitempty"`
	TokenExpiresAt *time.Time           `json:"token_expires_at,omitempty"`
}

type menuResponse struct {
	Role  string                  `json:"role"`
	Items []domain.NavigationItem `json:"items"`
}

type routesResponse struct {
	Routes []domain.Route `json:"routes"`
}

func toSessionResponse(s domain.Session) sessionResponse {
	resp := sessionResponse{
		Status:  s.Status,
		User:    s.User,
		Error:   s.Error,
		Loading: s.Loading,
	}
	if s.Authenticated() {
		resp.Role = s.Role().String()
	}
	return resp
}
