package ports

import (
	"context"

	"github.com/colonydesk/backoffice/internal/core/domain"
)

// Persisted key names shared by every CredentialStore backend.
const (
	KeyAccessToken  = "token"
	KeyRefreshToken = "refreshToken"
	KeyUser         = "user"
)

// CredentialStore is durable key/value persistence for the token pair and the
// last-known user profile. A missing key is a valid state, never an error.
// Implementations must be safe for concurrent use and must write the token
// pair in Save atomically.
type CredentialStore interface {
	Save(ctx context.Context, cred domain.Credential) error
	SaveAccessToken(ctx context.Context, token string) error
	Load(ctx context.Context) (domain.Credential, bool, error)
	Clear(ctx context.Context) error
	SaveProfile(ctx context.Context, user domain.UserProfile) error
	LoadProfile(ctx context.Context) (domain.UserProfile, bool, error)
}
