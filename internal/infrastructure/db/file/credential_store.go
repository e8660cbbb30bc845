package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/core/ports"
)

const (
	defaultDir  = "backoffice"
	defaultName = "credentials.json"
)

// CredentialStore persists credentials as one JSON object on disk, keyed by
// the same names the browser dashboard used. Every write replaces the file
// atomically, so a crash never leaves a torn token pair behind.
type CredentialStore struct {
	path string
	mu   sync.Mutex
}

// DefaultPath returns <user config dir>/backoffice/credentials.json.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, defaultDir, defaultName), nil
}

// NewCredentialStore returns a store backed by path. The parent directory is
// created with owner-only permissions.
func NewCredentialStore(path string) (*CredentialStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create credential dir: %w", err)
	}
	return &CredentialStore{path: path}, nil
}

// Path returns the backing file.
func (s *CredentialStore) Path() string {
	return s.path
}

func (s *CredentialStore) Save(_ context.Context, cred domain.Credential) error {
	return s.update(func(m map[string]json.RawMessage) error {
		putString(m, ports.KeyAccessToken, cred.AccessToken)
		putString(m, ports.KeyRefreshToken, cred.RefreshToken)
		return nil
	})
}

func (s *CredentialStore) SaveAccessToken(_ context.Context, token string) error {
	return s.update(func(m map[string]json.RawMessage) error {
		putString(m, ports.KeyAccessToken, token)
		return nil
	})
}

func (s *CredentialStore) Load(_ context.Context) (domain.Credential, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return domain.Credential{}, false, err
	}
	cred := domain.Credential{
		AccessToken:  getString(m, ports.KeyAccessToken),
		RefreshToken: getString(m, ports.KeyRefreshToken),
	}
	return cred, !cred.Empty(), nil
}

func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) SaveProfile(_ context.Context, user domain.UserProfile) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	return s.update(func(m map[string]json.RawMessage) error {
		m[ports.KeyUser] = raw
		return nil
	})
}

func (s *CredentialStore) LoadProfile(_ context.Context) (domain.UserProfile, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return domain.UserProfile{}, false, err
	}
	raw, ok := m[ports.KeyUser]
	if !ok {
		return domain.UserProfile{}, false, nil
	}
	var user domain.UserProfile
	if err := json.Unmarshal(raw, &user); err != nil {
		return domain.UserProfile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	return user, true, nil
}

func (s *CredentialStore) update(fn func(map[string]json.RawMessage) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, err := s.read()
	if err != nil {
		return err
	}
	if err := fn(m); err != nil {
		return err
	}
	return s.write(m)
}

// read returns an empty map when the file does not exist yet.
func (s *CredentialStore) read() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	m := map[string]json.RawMessage{}
	if len(data) == 0 {
		return m, nil
	}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode credentials: %w", err)
	}
	return m, nil
}

func (s *CredentialStore) write(m map[string]json.RawMessage) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // no-op after a successful rename

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write credentials: %w", err)
	}
	if err := tmp.Chmod(0o600); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("chmod credentials: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close credentials: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace credentials: %w", err)
	}
	return nil
}

func putString(m map[string]json.RawMessage, key, value string) {
	if value == "" {
		delete(m, key)
		return
	}
	raw, _ := json.Marshal(value)
	m[key] = raw
}

func getString(m map[string]json.RawMessage, key string) string {
	raw, ok := m[key]
	if !ok {
		return ""
	}
	var v string
	if json.Unmarshal(raw, &v) != nil {
		return ""
	}
	return v
}
