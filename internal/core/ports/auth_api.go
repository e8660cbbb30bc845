package ports

import (
	"context"

	"github.com/colonydesk/backoffice/internal/core/domain"
)

// AuthAPI is the backend's /auth surface used by the session controller.
type AuthAPI interface {
	Register(ctx context.Context, in domain.Registration) (domain.AuthResult, error)
	Login(ctx context.Context, in domain.LoginCredentials) (domain.AuthResult, error)
	Me(ctx context.Context) (domain.UserProfile, error)
	Logout(ctx context.Context, refreshToken string) error
}

// TokenRefresher exchanges a refresh token for a new credential. The returned
// RefreshToken is empty unless the backend rotated it.
type TokenRefresher interface {
	Refresh(ctx context.Context, refreshToken string) (domain.Credential, error)
}
