package domain

// SessionStatus represents the lifecycle state of the process-wide session.
type SessionStatus string

const (
	StatusUnauthenticated SessionStatus = "unauthenticated"
	StatusResuming        SessionStatus = "resuming"
	StatusAuthenticated   SessionStatus = "authenticated"
	// StatusAuthError is Unauthenticated annotated with the last failure.
	StatusAuthError SessionStatus = "auth_error"
)

// Session is the single source of truth for who is signed in.
// Invariant: Status == StatusAuthenticated iff User != nil.
type Session struct {
	Status  SessionStatus `json:"status"`
	User    *UserProfile  `json:"user"`
	Error   string        `json:"error,omitempty"`
	Loading bool          `json:"loading"`
}

// Authenticated reports whether a user is signed in.
func (s Session) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.User != nil
}

// Role returns the signed-in user's role, or RoleUnknown.
func (s Session) Role() Role {
	if !s.Authenticated() {
		return RoleUnknown
	}
	return s.User.RoleKind()
}

// Clone returns a copy that shares no memory with s.
func (s Session) Clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
