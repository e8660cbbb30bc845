package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/infrastructure/db/memory"
)

type stubSession struct {
	state      domain.Session
	registerFn func(ctx context.Context, in domain.Registration) (domain.Session, error)
	loginFn    func(ctx context.Context, in domain.LoginCredentials) (domain.Session, error)
	mergeFn    func(ctx context.Context, p domain.ProfilePatch) (domain.Session, error)
	logouts    int
}

func (s *stubSession) State() domain.Session { return s.state }

func (s *stubSession) Register(ctx context.Context, in domain.Registration) (domain.Session, error) {
	return s.registerFn(ctx, in)
}

func (s *stubSession) Login(ctx context.Context, in domain.LoginCredentials) (domain.Session, error) {
	return s.loginFn(ctx, in)
}

func (s *stubSession) Logout(context.Context) domain.Session {
	s.logouts++
	s.state = domain.Session{Status: domain.StatusUnauthenticated}
	return s.state
}

func (s *stubSession) Resume(context.Context) domain.Session { return s.state }

func (s *stubSession) MergeProfile(ctx context.Context, p domain.ProfilePatch) (domain.Session, error) {
	return s.mergeFn(ctx, p)
}

func (s *stubSession) ClearError() domain.Session {
	s.state.Error = ""
	return s.state
}

type stubRedirects struct{ next string }

func (r *stubRedirects) Take() string {
	d := r.next
	r.next = ""
	return d
}

func authenticated(role string) domain.Session {
	u := domain.UserProfile{ID: "u1", Name: "Asha", Email: "asha@example.com", Role: domain.RoleRef{Name: role}}
	return domain.Session{Status: domain.StatusAuthenticated, User: &u}
}

func newEcho() *echo.Echo {
	e := echo.New()
	e.Validator = NewValidator()
	return e
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return req
}

func TestSessionHandler_Login_Success(t *testing.T) {
	e := newEcho()
	stub := &stubSession{
		loginFn: func(ctx context.Context, in domain.LoginCredentials) (domain.Session, error) {
			if in.Email != "asha@example.com" || in.Password != "secret" {
				t.Fatalf("unexpected args: %+v", in)
			}
			return authenticated("Colony Manager"), nil
		},
	}
	handler := NewSessionHandler(stub, memory.NewCredentialStore(), &stubRedirects{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/session/login", `{"email":"asha@example.com","password":"secret"}`), rec)

	if err := handler.Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "authenticated" || resp["role"] != "Colony Manager" {
		t.Fatalf("unexpected payload: %+v", resp)
	}
}

func TestSessionHandler_Login_ValidationError(t *testing.T) {
	e := newEcho()
	stub := &stubSession{
		loginFn: func(context.Context, domain.LoginCredentials) (domain.Session, error) {
			t.Fatalf("service should not be called")
			return domain.Session{}, nil
		},
	}
	handler := NewSessionHandler(stub, memory.NewCredentialStore(), &stubRedirects{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/session/login", `{"email":"not-an-email"}`), httptest.NewRecorder())

	err := handler.Login(c)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if !strings.Contains(err.Error(), "email must be a valid email") || !strings.Contains(err.Error(), "password is required") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestSessionHandler_Login_ServiceError(t *testing.T) {
	e := newEcho()
	want := errors.New("HTTP 401: Invalid credentials")
	stub := &stubSession{
		loginFn: func(context.Context, domain.LoginCredentials) (domain.Session, error) {
			return domain.Session{Status: domain.StatusAuthError, Error: "Invalid credentials"}, want
		},
	}
	handler := NewSessionHandler(stub, memory.NewCredentialStore(), &stubRedirects{})

	c := e.NewContext(jsonRequest(http.MethodPost, "/session/login", `{"email":"a@example.com","password":"x"}`), httptest.NewRecorder())
	if err := handler.Login(c); !errors.Is(err, want) {
		t.Fatalf("expected service error, got %v", err)
	}
}

func TestSessionHandler_Register_UnknownRole(t *testing.T) {
	e := newEcho()
	handler := NewSessionHandler(&stubSession{}, memory.NewCredentialStore(), &stubRedirects{})

	body := `{"name":"Ravi","email":"ravi@example.com","password":"secret1","role":"Janitor"}`
	c := e.NewContext(jsonRequest(http.MethodPost, "/session/register", body), httptest.NewRecorder())

	err := handler.Register(c)
	if !errors.Is(err, domain.ErrInvalidInput) || !strings.Contains(err.Error(), "role is not a known role") {
		t.Fatalf("expected role validation error, got %v", err)
	}
}

func TestSessionHandler_Register_Success(t *testing.T) {
	e := newEcho()
	stub := &stubSession{
		registerFn: func(_ context.Context, in domain.Registration) (domain.Session, error) {
			if in.Role != "Buyer" || in.Phone != "+91 90000 00000" {
				t.Fatalf("unexpected registration: %+v", in)
			}
			return authenticated("Buyer"), nil
		},
	}
	handler := NewSessionHandler(stub, memory.NewCredentialStore(), &stubRedirects{})

	body := `{"name":"Ravi","email":"ravi@example.com","phone":"+91 90000 00000","password":"secret1","role":"Buyer"}`
	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPost, "/session/register", body), rec)

	if err := handler.Register(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestSessionHandler_Get_IncludesRedirectAndExpiry(t *testing.T) {
	e := newEcho()
	store := memory.NewCredentialStore()
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u1", "exp": exp.Unix()}).SignedString([]byte("k"))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	_ = store.Save(context.Background(), domain.Credential{AccessToken: tok, RefreshToken: "r1"})

	redirects := &stubRedirects{next: "/login"}
	handler := NewSessionHandler(&stubSession{state: authenticated("Buyer")}, store, redirects)

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/session", nil), rec)
	if err := handler.Get(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}

	var resp sessionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Redirect != "/login" {
		t.Fatalf("expected pending redirect, got %q", resp.Redirect)
	}
	if resp.TokenExpiresAt == nil || !resp.TokenExpiresAt.Equal(exp) {
		t.Fatalf("unexpected expiry: %v", resp.TokenExpiresAt)
	}
	if redirects.next != "" {
		t.Fatalf("redirect should be consumed")
	}
}

func TestSessionHandler_Logout(t *testing.T) {
	e := newEcho()
	stub := &stubSession{state: authenticated("Lawyer")}
	handler := NewSessionHandler(stub, memory.NewCredentialStore(), &stubRedirects{})

	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodPost, "/session/logout", nil), rec)
	if err := handler.Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if stub.logouts != 1 || rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"redirect":"/login"`) {
		t.Fatalf("unexpected logout response: %d %s", rec.Code, rec.Body.String())
	}
}

func TestSessionHandler_UpdateProfile(t *testing.T) {
	e := newEcho()
	stub := &stubSession{
		mergeFn: func(_ context.Context, p domain.ProfilePatch) (domain.Session, error) {
			if p.Name == nil || *p.Name != "Asha R" || p.Email != nil {
				t.Fatalf("unexpected patch: %+v", p)
			}
			s := authenticated("Buyer")
			s.User.Name = *p.Name
			return s, nil
		},
	}
	handler := NewSessionHandler(stub, memory.NewCredentialStore(), &stubRedirects{})

	rec := httptest.NewRecorder()
	c := e.NewContext(jsonRequest(http.MethodPatch, "/session/profile", `{"name":"Asha R"}`), rec)
	if err := handler.UpdateProfile(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !strings.Contains(rec.Body.String(), `"name":"Asha R"`) {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}
