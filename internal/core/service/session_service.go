package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/core/ports"
	"github.com/colonydesk/backoffice/internal/pkg/metrics"
)

// DemoSettings enables the offline demo session.
type DemoSettings struct {
	Enabled bool
	Role    domain.Role
}

// fallbackDemoUser is served when a demo token is resumed without a cached
// profile.
var fallbackDemoUser = domain.UserProfile{
	ID:    "demo-user",
	Name:  "Demo User",
	Email: "demo@example.com",
	Role:  domain.RoleRef{ID: "demo-role", Name: string(domain.RoleBuyer)},
}

// SessionService owns the process-wide session: it signs users in and out,
// resumes a persisted session and tears it down when credentials become
// unrecoverable.
type SessionService struct {
	api   ports.AuthAPI
	store ports.CredentialStore
	nav   ports.Navigator
	demo  DemoSettings
	log   zerolog.Logger
	now   func() time.Time

	mu      sync.RWMutex
	session domain.Session
}

func NewSessionService(api ports.AuthAPI, store ports.CredentialStore, nav ports.Navigator, demo DemoSettings, log zerolog.Logger) *SessionService {
	if demo.Enabled && !demo.Role.Known() {
		demo.Role = domain.RoleSuperAdmin
	}
	return &SessionService{
		api:     api,
		store:   store,
		nav:     nav,
		demo:    demo,
		log:     log,
		now:     time.Now,
		session: domain.Session{Status: domain.StatusUnauthenticated},
	}
}

// State returns a snapshot of the session.
func (s *SessionService) State() domain.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session.Clone()
}

// Register creates an account and signs it in.
func (s *SessionService) Register(ctx context.Context, in domain.Registration) (domain.Session, error) {
	if in.Email == "" || in.Password == "" || in.Name == "" {
		return s.State(), domain.ErrInvalidInput
	}
	s.startLoading()

	var (
		res domain.AuthResult
		err error
	)
	if s.demo.Enabled {
		res = s.demoResult(in.Name, in.Email)
	} else {
		res, err = s.api.Register(ctx, in)
	}
	return s.finishSignIn(ctx, "register", res, err)
}

// Login signs in with email and password.
func (s *SessionService) Login(ctx context.Context, in domain.LoginCredentials) (domain.Session, error) {
	if in.Email == "" || in.Password == "" {
		return s.State(), domain.ErrInvalidInput
	}
	s.startLoading()

	var (
		res domain.AuthResult
		err error
	)
	if s.demo.Enabled {
		res = s.demoResult("Demo "+s.demo.Role.String(), in.Email)
	} else {
		res, err = s.api.Login(ctx, in)
	}
	return s.finishSignIn(ctx, "login", res, err)
}

func (s *SessionService) finishSignIn(ctx context.Context, op string, res domain.AuthResult, err error) (domain.Session, error) {
	if err == nil && res.AccessToken == "" {
		err = fmt.Errorf("%s: backend returned no access token", op)
	}
	if err == nil {
		err = s.persist(ctx, res)
	}
	if err != nil {
		msg := serverMessage(err)
		s.log.Warn().Err(err).Str("operation", op).Msg("sign-in failed")
		return s.transition(op, domain.Session{Status: domain.StatusAuthError, Error: msg}), err
	}

	user := res.User
	s.log.Info().Str("operation", op).Str("user_id", user.ID).Str("role", user.RoleKind().String()).Msg("signed in")
	return s.transition(op, domain.Session{Status: domain.StatusAuthenticated, User: &user}), nil
}

func (s *SessionService) persist(ctx context.Context, res domain.AuthResult) error {
	if err := s.store.Save(ctx, res.Credential()); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	if err := s.store.SaveProfile(ctx, res.User); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// demoResult mints an offline session for the configured demo role.
func (s *SessionService) demoResult(name, email string) domain.AuthResult {
	stamp := s.now().UnixMilli()
	return domain.AuthResult{
		User: domain.UserProfile{
			ID:    "demo-user",
			Name:  name,
			Email: email,
			Role:  domain.RoleRef{ID: "demo-role", Name: string(s.demo.Role)},
		},
		AccessToken:  fmt.Sprintf("%sadmin-token-%d", domain.DemoTokenPrefix, stamp),
		RefreshToken: fmt.Sprintf("%srefresh-token-%d", domain.DemoTokenPrefix, stamp),
	}
}

// Logout notifies the backend on a best-effort basis and always ends the
// session locally.
func (s *SessionService) Logout(ctx context.Context) domain.Session {
	cred, _, err := s.store.Load(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("failed to read credential before logout")
	}
	if cred.RefreshToken != "" && !domain.IsDemoToken(cred.RefreshToken) {
		if err := s.api.Logout(ctx, cred.RefreshToken); err != nil {
			s.log.Warn().Err(err).Msg("logout notification failed")
		}
	}
	s.clearStore(ctx)
	s.log.Info().Msg("signed out")
	return s.transition("logout", domain.Session{Status: domain.StatusUnauthenticated})
}

// Resume restores a persisted session. Without a stored token it makes no
// network call.
func (s *SessionService) Resume(ctx context.Context) domain.Session {
	cred, ok, err := s.store.Load(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to read stored credential")
	}
	if !ok || cred.AccessToken == "" {
		return s.transition("resume", domain.Session{Status: domain.StatusUnauthenticated})
	}

	s.mu.Lock()
	s.session = domain.Session{Status: domain.StatusResuming, Loading: true}
	s.mu.Unlock()

	if domain.IsDemoToken(cred.AccessToken) {
		user, ok, err := s.store.LoadProfile(ctx)
		if err != nil || !ok {
			user = fallbackDemoUser
		}
		s.log.Info().Str("role", user.RoleKind().String()).Msg("resumed demo session")
		return s.transition("resume", domain.Session{Status: domain.StatusAuthenticated, User: &user})
	}

	user, err := s.api.Me(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("stored credential rejected, clearing session")
		s.clearStore(ctx)
		return s.transition("resume", domain.Session{Status: domain.StatusUnauthenticated})
	}
	if err := s.store.SaveProfile(ctx, user); err != nil {
		s.log.Warn().Err(err).Msg("failed to cache profile")
	}
	s.log.Info().Str("user_id", user.ID).Str("role", user.RoleKind().String()).Msg("resumed session")
	return s.transition("resume", domain.Session{Status: domain.StatusAuthenticated, User: &user})
}

// MergeProfile applies locally edited profile fields to the signed-in user.
func (s *SessionService) MergeProfile(ctx context.Context, patch domain.ProfilePatch) (domain.Session, error) {
	s.mu.Lock()
	if !s.session.Authenticated() {
		s.mu.Unlock()
		return s.State(), domain.ErrUnauthenticated
	}
	user := patch.Apply(*s.session.User)
	s.session.User = &user
	snapshot := s.session.Clone()
	s.mu.Unlock()

	if err := s.store.SaveProfile(ctx, user); err != nil {
		return snapshot, fmt.Errorf("save profile: %w", err)
	}
	return snapshot, nil
}

// ClearError drops the last failure annotation.
func (s *SessionService) ClearError() domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Error = ""
	if s.session.Status == domain.StatusAuthError {
		s.session.Status = domain.StatusUnauthenticated
	}
	return s.session.Clone()
}

// Teardown ends the session after an unrecoverable credential failure and
// sends the user to the login surface. Repeated calls are no-ops.
func (s *SessionService) Teardown(ctx context.Context, cause error) {
	s.clearStore(ctx)

	s.mu.Lock()
	already := s.session.Status == domain.StatusUnauthenticated && s.session.User == nil && !s.session.Loading
	s.session = domain.Session{Status: domain.StatusUnauthenticated}
	s.mu.Unlock()
	if already {
		return
	}

	metrics.SessionTransitionsTotal.WithLabelValues("teardown", string(domain.StatusUnauthenticated)).Inc()
	s.log.Warn().Err(cause).Msg("session torn down")
	s.nav.Redirect(ctx, domain.PathLogin)
}

func (s *SessionService) startLoading() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session.Loading = true
	s.session.Error = ""
}

func (s *SessionService) transition(op string, next domain.Session) domain.Session {
	s.mu.Lock()
	s.session = next
	snapshot := s.session.Clone()
	s.mu.Unlock()

	metrics.SessionTransitionsTotal.WithLabelValues(op, string(next.Status)).Inc()
	return snapshot
}

func (s *SessionService) clearStore(ctx context.Context) {
	if err := s.store.Clear(ctx); err != nil {
		s.log.Error().Err(err).Msg("failed to clear credentials")
	}
}

// serverMessage prefers the message the backend sent over the Go error text.
func serverMessage(err error) string {
	var carrier interface{ ServerMessage() string }
	if errors.As(err, &carrier) {
		if msg := strings.TrimSpace(carrier.ServerMessage()); msg != "" {
			return msg
		}
	}
	return err.Error()
}
