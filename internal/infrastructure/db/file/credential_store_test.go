package file

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/colonydesk/backoffice/internal/core/domain"
)

func newStore(t *testing.T) *CredentialStore {
	t.Helper()
	s, err := NewCredentialStore(filepath.Join(t.TempDir(), "nested", "credentials.json"))
	if err != nil {
		t.Fatalf("NewCredentialStore: %v", err)
	}
	return s
}

func TestCredentialStore_MissingFileIsAbsent(t *testing.T) {
	s := newStore(t)

	cred, ok, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if ok || !cred.Empty() {
		t.Fatalf("expected absent credential, got %+v", cred)
	}
	if err := s.Clear(context.Background()); err != nil {
		t.Fatalf("Clear on missing file returned error: %v", err)
	}
}

func TestCredentialStore_SurvivesReopen(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	if err := s.Save(ctx, domain.Credential{AccessToken: "a1", RefreshToken: "r1"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	user := domain.UserProfile{ID: "u1", Name: "Ravi", Email: "ravi@example.com", Role: domain.RoleRef{ID: "r", Name: "Lawyer"}}
	if err := s.SaveProfile(ctx, user); err != nil {
		t.Fatalf("SaveProfile: %v", err)
	}

	reopened, err := NewCredentialStore(s.Path())
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	cred, ok, err := reopened.Load(ctx)
	if err != nil || !ok {
		t.Fatalf("Load after reopen: ok=%v err=%v", ok, err)
	}
	if cred.AccessToken != "a1" || cred.RefreshToken != "r1" {
		t.Fatalf("unexpected credential: %+v", cred)
	}
	got, ok, err := reopened.LoadProfile(ctx)
	if err != nil || !ok || got != user {
		t.Fatalf("unexpected profile: %+v ok=%v err=%v", got, ok, err)
	}
}

func TestCredentialStore_UsesFixedKeys(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_ = s.Save(ctx, domain.Credential{AccessToken: "a1", RefreshToken: "r1"})
	_ = s.SaveProfile(ctx, domain.UserProfile{ID: "u1"})

	data, err := os.ReadFile(s.Path())
	if err != nil {
		t.Fatalf("read file: %v", err)
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	for _, key := range []string{"token", "refreshToken", "user"} {
		if _, ok := m[key]; !ok {
			t.Fatalf("expected key %q in %s", key, data)
		}
	}
}

func TestCredentialStore_SaveAccessTokenKeepsRefresh(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_ = s.Save(ctx, domain.Credential{AccessToken: "a1", RefreshToken: "r1"})
	if err := s.SaveAccessToken(ctx, "a2"); err != nil {
		t.Fatalf("SaveAccessToken: %v", err)
	}
	cred, _, _ := s.Load(ctx)
	if cred.AccessToken != "a2" || cred.RefreshToken != "r1" {
		t.Fatalf("unexpected credential: %+v", cred)
	}

	if err := s.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(s.Path()); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err=%v", err)
	}
}
