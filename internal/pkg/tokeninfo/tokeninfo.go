// Package tokeninfo reads claims out of access tokens without verifying them.
// The gateway never holds the signing key; it only needs the expiry and the
// subject for display and logging. Authorization decisions must not rely on it.
package tokeninfo

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/colonydesk/backoffice/internal/core/domain"
)

// Info is the subset of claims the gateway cares about.
type Info struct {
	Subject   string    `json:"subject,omitempty"`
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the token has an expiry that lies before now.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

var parser = jwt.NewParser()

// Inspect decodes tok. It returns false for demo tokens and for anything that
// is not a JWT.
func Inspect(tok string) (Info, bool) {
	if tok == "" || domain.IsDemoToken(tok) {
		return Info{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return Info{}, false
	}

	var info Info
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	if info.Subject == "" {
		if id, ok := claims["id"].(string); ok {
			info.Subject = id
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time.UTC()
	}
	return info, true
}
