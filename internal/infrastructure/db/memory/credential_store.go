package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/core/ports"
)

// CredentialStore keeps credentials in process memory. It is used by tests and
// by throwaway runs where nothing should survive a restart.
type CredentialStore struct {
	mu   sync.RWMutex
	data map[string]string
}

// NewCredentialStore returns an empty store.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{data: make(map[string]string)}
}

func (s *CredentialStore) Save(_ context.Context, cred domain.Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	setOrDelete(s.data, ports.KeyAccessToken, cred.AccessToken)
	setOrDelete(s.data, ports.KeyRefreshToken, cred.RefreshToken)
	return nil
}

func (s *CredentialStore) SaveAccessToken(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	setOrDelete(s.data, ports.KeyAccessToken, token)
	return nil
}

func (s *CredentialStore) Load(_ context.Context) (domain.Credential, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	cred := domain.Credential{
		AccessToken:  s.data[ports.KeyAccessToken],
		RefreshToken: s.data[ports.KeyRefreshToken],
	}
	return cred, !cred.Empty(), nil
}

func (s *CredentialStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, ports.KeyAccessToken)
	delete(s.data, ports.KeyRefreshToken)
	delete(s.data, ports.KeyUser)
	return nil
}

func (s *CredentialStore) SaveProfile(_ context.Context, user domain.UserProfile) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[ports.KeyUser] = string(raw)
	return nil
}

func (s *CredentialStore) LoadProfile(_ context.Context) (domain.UserProfile, bool, error) {
	s.mu.RLock()
	raw, ok := s.data[ports.KeyUser]
	s.mu.RUnlock()
	if !ok {
		return domain.UserProfile{}, false, nil
	}
	var user domain.UserProfile
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return domain.UserProfile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	return user, true, nil
}

func setOrDelete(m map[string]string, key, value string) {
	if value == "" {
		delete(m, key)
		return
	}
	m[key] = value
}
