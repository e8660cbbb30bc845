package ports

import (
	"context"

	"github.com/colonydesk/backoffice/internal/core/domain"
)

// Navigator performs the hard navigation to a UI surface.
type Navigator interface {
	Redirect(ctx context.Context, destination string)
}

// SessionTerminator tears the session down after an unrecoverable
// authentication failure.
type SessionTerminator interface {
	Teardown(ctx context.Context, cause error)
}

// SessionController drives the session lifecycle.
type SessionController interface {
	State() domain.Session
	Register(ctx context.Context, in domain.Registration) (domain.Session, error)
	Login(ctx context.Context, in domain.LoginCredentials) (domain.Session, error)
	Logout(ctx context.Context) domain.Session
	Resume(ctx context.Context) domain.Session
	MergeProfile(ctx context.Context, patch domain.ProfilePatch) (domain.Session, error)
	ClearError() domain.Session
}

// RoleAuthorizer answers navigation and menu questions for a session.
type RoleAuthorizer interface {
	CanEnter(s domain.Session, required []domain.Role) bool
	Guard(s domain.Session, destination string) domain.Decision
	BuildMenu(role domain.Role) []domain.NavigationItem
	Routes() []domain.Route
}
