package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/core/ports"
)

// CredentialStore keeps credentials in Redis.
// Key format: <namespace>:token, <namespace>:refreshToken, <namespace>:user
type CredentialStore struct {
	client    redis.UniversalClient
	namespace string
}

// NewCredentialStore wraps client. Keys are prefixed with namespace.
func NewCredentialStore(client redis.UniversalClient, namespace string) *CredentialStore {
	return &CredentialStore{client: client, namespace: namespace}
}

// Save writes both tokens in one MULTI/EXEC so readers never see half a pair.
func (s *CredentialStore) Save(ctx context.Context, cred domain.Credential) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		s.setOrDel(ctx, pipe, ports.KeyAccessToken, cred.AccessToken)
		s.setOrDel(ctx, pipe, ports.KeyRefreshToken, cred.RefreshToken)
		return nil
	})
	if err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) SaveAccessToken(ctx context.Context, token string) error {
	if token == "" {
		return s.client.Del(ctx, s.key(ports.KeyAccessToken)).Err()
	}
	if err := s.client.Set(ctx, s.key(ports.KeyAccessToken), token, 0).Err(); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	return nil
}

func (s *CredentialStore) Load(ctx context.Context) (domain.Credential, bool, error) {
	vals, err := s.client.MGet(ctx, s.key(ports.KeyAccessToken), s.key(ports.KeyRefreshToken)).Result()
	if err != nil {
		return domain.Credential{}, false, fmt.Errorf("load credential: %w", err)
	}
	cred := domain.Credential{
		AccessToken:  asString(vals[0]),
		RefreshToken: asString(vals[1]),
	}
	return cred, !cred.Empty(), nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	err := s.client.Del(ctx,
		s.key(ports.KeyAccessToken),
		s.key(ports.KeyRefreshToken),
		s.key(ports.KeyUser),
	).Err()
	if err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) SaveProfile(ctx context.Context, user domain.UserProfile) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if err := s.client.Set(ctx, s.key(ports.KeyUser), raw, 0).Err(); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *CredentialStore) LoadProfile(ctx context.Context) (domain.UserProfile, bool, error) {
	raw, err := s.client.Get(ctx, s.key(ports.KeyUser)).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.UserProfile{}, false, nil
	}
	if err != nil {
		return domain.UserProfile{}, false, fmt.Errorf("load profile: %w", err)
	}
	var user domain.UserProfile
	if err := json.Unmarshal(raw, &user); err != nil {
		return domain.UserProfile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	return user, true, nil
}

// Ping reports whether the backing server is reachable.
func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *CredentialStore) setOrDel(ctx context.Context, pipe redis.Pipeliner, name, value string) {
	if value == "" {
		pipe.Del(ctx, s.key(name))
		return
	}
	pipe.Set(ctx, s.key(name), value, 0)
}

func (s *CredentialStore) key(name string) string {
	return s.namespace + ":" + name
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}
