package domain

import "strings"

// DemoTokenPrefix marks synthetic tokens used by demo mode
// (e.g. "demo-admin-token-1", "demo-refresh-token-1"). Such tokens never
// trigger a network refresh or a forced logout.
const DemoTokenPrefix = "demo-"

// Credential is the token pair issued by the backend.
type Credential struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Empty reports whether neither token is set.
func (c Credential) Empty() bool {
	return c.AccessToken == "" && c.RefreshToken == ""
}

// IsDemoToken reports whether tok carries the demo marker.
func IsDemoToken(tok string) bool {
	return strings.HasPrefix(tok, DemoTokenPrefix)
}
