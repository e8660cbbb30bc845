package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/core/service"
	"github.com/colonydesk/backoffice/internal/infrastructure/authapi"
	"github.com/colonydesk/backoffice/internal/infrastructure/db/memory"
	"github.com/colonydesk/backoffice/internal/infrastructure/transport"
)

// fakeBackend mimics the /api/v1 surface: login issues a1/r1, refresh issues
// a2, and /colonies only accepts the current access token.
type fakeBackend struct {
	mu           sync.Mutex
	current      string
	refreshFails bool
	refreshCalls atomic.Int32
}

func (b *fakeBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.mu.Lock()
	current, refreshFails := b.current, b.refreshFails
	b.mu.Unlock()

	switch strings.TrimPrefix(r.URL.Path, "/api/v1") {
	case "/auth/login":
		b.mu.Lock()
		b.current = "a1"
		b.mu.Unlock()
		w.Write([]byte(`{"data":{"user":{"_id":"u1","name":"Asha","email":"asha@example.com","roleId":{"name":"Super Admin"}},"accessToken":"a1","refreshToken":"r1"}}`)) //nolint:errcheck
	case "/auth/refresh":
		b.refreshCalls.Add(1)
		if refreshFails {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"message":"refresh token revoked"}`)) //nolint:errcheck
			return
		}
		b.mu.Lock()
		b.current = "a2"
		b.mu.Unlock()
		w.Write([]byte(`{"data":{"accessToken":"a2"}}`)) //nolint:errcheck
	case "/auth/logout":
		w.WriteHeader(http.StatusNoContent)
	case "/colonies":
		if r.Header.Get("Authorization") != "Bearer "+current {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte(`{"data":[{"name":"Green Acres"}]}`)) //nolint:errcheck
	default:
		http.NotFound(w, r)
	}
}

type gateway struct {
	backend *fakeBackend
	server  *httptest.Server
	session *service.SessionService
	nav     *Navigator
	store   *memory.CredentialStore
}

func newGateway(t *testing.T) *gateway {
	t.Helper()
	be := &fakeBackend{}
	backendSrv := httptest.NewServer(be)
	t.Cleanup(backendSrv.Close)

	base, _ := url.Parse(backendSrv.URL + "/api/v1")
	log := zerolog.Nop()
	store := memory.NewCredentialStore()
	nav := NewNavigator(log)

	plain := authapi.New(base.String(), &http.Client{Timeout: 5 * time.Second})
	tr := transport.New(nil, store, plain, time.Second, log)
	api := authapi.New(base.String(), &http.Client{Transport: tr, Timeout: 5 * time.Second})
	session := service.NewSessionService(api, store, nav, service.DemoSettings{}, log)
	tr.SetTerminator(session)

	e := NewRouter(Dependencies{
		Session:    session,
		Authorizer: service.NewAuthorizer(log),
		Store:      store,
		Navigator:  nav,
		Backend:    base,
		Transport:  tr,
		Log:        log,
		Registry:   prometheus.NewRegistry(),
	})
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return &gateway{backend: be, server: srv, session: session, nav: nav, store: store}
}

func (g *gateway) do(t *testing.T, method, path, body string) (*http.Response, map[string]any) {
	t.Helper()
	req, _ := http.NewRequest(method, g.server.URL+path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var out map[string]any
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func (g *gateway) login(t *testing.T) {
	t.Helper()
	resp, body := g.do(t, http.MethodPost, "/session/login", `{"email":"asha@example.com","password":"secret"}`)
	if resp.StatusCode != http.StatusOK || body["role"] != "Super Admin" {
		t.Fatalf("login failed: %d %+v", resp.StatusCode, body)
	}
}

func TestRouter_ProxyRequiresSession(t *testing.T) {
	g := newGateway(t)

	resp, body := g.do(t, http.MethodGet, "/backend/colonies", "")
	if resp.StatusCode != http.StatusUnauthorized || body["redirect"] != domain.PathLogin {
		t.Fatalf("expected 401 with /login redirect, got %d %+v", resp.StatusCode, body)
	}
}

func TestRouter_ProxyRefreshesTransparently(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	// The backend rotates the access token behind the gateway's back.
	g.backend.mu.Lock()
	g.backend.current = "a2"
	g.backend.mu.Unlock()

	resp, body := g.do(t, http.MethodGet, "/backend/colonies", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d %+v", resp.StatusCode, body)
	}
	if _, ok := body["data"]; !ok {
		t.Fatalf("expected proxied payload, got %+v", body)
	}
	if n := g.backend.refreshCalls.Load(); n != 1 {
		t.Fatalf("expected 1 refresh, got %d", n)
	}
}

func TestRouter_ProxyRefreshFailureEndsSession(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	g.backend.mu.Lock()
	g.backend.current = "a2"
	g.backend.refreshFails = true
	g.backend.mu.Unlock()

	resp, body := g.do(t, http.MethodGet, "/backend/colonies", "")
	if resp.StatusCode != http.StatusUnauthorized || body["redirect"] != domain.PathLogin {
		t.Fatalf("expected 401 with /login redirect, got %d %+v", resp.StatusCode, body)
	}
	if s := g.session.State(); s.Authenticated() {
		t.Fatalf("session should be torn down, got %+v", s)
	}

	_, snapshot := g.do(t, http.MethodGet, "/session", "")
	if snapshot["status"] != "unauthenticated" || snapshot["redirect"] != domain.PathLogin {
		t.Fatalf("unexpected session snapshot: %+v", snapshot)
	}
}

func TestRouter_RoutesRequireSuperAdmin(t *testing.T) {
	g := newGateway(t)

	if resp, _ := g.do(t, http.MethodGet, "/session/routes", ""); resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 before login, got %d", resp.StatusCode)
	}

	g.login(t)
	resp, body := g.do(t, http.MethodGet, "/session/routes", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if routes, _ := body["routes"].([]any); len(routes) == 0 {
		t.Fatalf("expected route table, got %+v", body)
	}
}

func TestRouter_NavigateAndMenu(t *testing.T) {
	g := newGateway(t)

	if resp, body := g.do(t, http.MethodGet, "/navigate?to=/admin/users", ""); resp.StatusCode != http.StatusUnauthorized || body["redirect"] != domain.PathLogin {
		t.Fatalf("expected login redirect, got %d %+v", resp.StatusCode, body)
	}

	g.login(t)
	if resp, _ := g.do(t, http.MethodGet, "/navigate?to=/admin/users", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	resp, body := g.do(t, http.MethodGet, "/session/menu", "")
	if resp.StatusCode != http.StatusOK || body["role"] != "Super Admin" {
		t.Fatalf("unexpected menu: %d %+v", resp.StatusCode, body)
	}
}

func TestRouter_LogoutClearsStore(t *testing.T) {
	g := newGateway(t)
	g.login(t)

	resp, body := g.do(t, http.MethodPost, "/session/logout", "")
	if resp.StatusCode != http.StatusOK || body["status"] != "unauthenticated" {
		t.Fatalf("unexpected logout: %d %+v", resp.StatusCode, body)
	}
	if _, ok, _ := g.store.Load(t.Context()); ok {
		t.Fatalf("credentials should be cleared")
	}
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	g := newGateway(t)

	if resp, _ := g.do(t, http.MethodGet, "/health", ""); resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /health, got %d", resp.StatusCode)
	}
	resp, err := http.Get(g.server.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200 from /metrics, got %d", resp.StatusCode)
	}
}
