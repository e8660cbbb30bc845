package mongo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/colonydesk/backoffice/internal/core/domain"
	"github.com/colonydesk/backoffice/internal/core/ports"
)

const credentialCollection = "credentials"

// CredentialStore keeps one document per persisted key:
// {_id: "<namespace>:<key>", value: "...", updated_at: ...}
type CredentialStore struct {
	coll      *mongo.Collection
	namespace string
}

func NewCredentialStore(db *mongo.Database, namespace string) *CredentialStore {
	return &CredentialStore{coll: db.Collection(credentialCollection), namespace: namespace}
}

type credentialDoc struct {
	ID        string `bson:"_id"`
	Value     string `bson:"value"`
	UpdatedAt int64  `bson:"updated_at"`
}

// Save upserts or deletes both token documents in one ordered bulk write.
func (s *CredentialStore) Save(ctx context.Context, cred domain.Credential) error {
	models := []mongo.WriteModel{
		s.writeModel(ports.KeyAccessToken, cred.AccessToken),
		s.writeModel(ports.KeyRefreshToken, cred.RefreshToken),
	}
	if _, err := s.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(true)); err != nil {
		return fmt.Errorf("save credential: %w", err)
	}
	return nil
}

func (s *CredentialStore) SaveAccessToken(ctx context.Context, token string) error {
	if _, err := s.coll.BulkWrite(ctx, []mongo.WriteModel{s.writeModel(ports.KeyAccessToken, token)}); err != nil {
		return fmt.Errorf("save access token: %w", err)
	}
	return nil
}

func (s *CredentialStore) Load(ctx context.Context) (domain.Credential, bool, error) {
	filter := bson.M{"_id": bson.M{"$in": bson.A{s.key(ports.KeyAccessToken), s.key(ports.KeyRefreshToken)}}}
	cur, err := s.coll.Find(ctx, filter)
	if err != nil {
		return domain.Credential{}, false, fmt.Errorf("load credential: %w", err)
	}
	var docs []credentialDoc
	if err := cur.All(ctx, &docs); err != nil {
		return domain.Credential{}, false, fmt.Errorf("load credential: %w", err)
	}

	var cred domain.Credential
	for _, d := range docs {
		switch d.ID {
		case s.key(ports.KeyAccessToken):
			cred.AccessToken = d.Value
		case s.key(ports.KeyRefreshToken):
			cred.RefreshToken = d.Value
		}
	}
	return cred, !cred.Empty(), nil
}

func (s *CredentialStore) Clear(ctx context.Context) error {
	filter := bson.M{"_id": bson.M{"$in": bson.A{
		s.key(ports.KeyAccessToken),
		s.key(ports.KeyRefreshToken),
		s.key(ports.KeyUser),
	}}}
	if _, err := s.coll.DeleteMany(ctx, filter); err != nil {
		return fmt.Errorf("clear credentials: %w", err)
	}
	return nil
}

func (s *CredentialStore) SaveProfile(ctx context.Context, user domain.UserProfile) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("encode profile: %w", err)
	}
	if _, err := s.coll.BulkWrite(ctx, []mongo.WriteModel{s.writeModel(ports.KeyUser, string(raw))}); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

func (s *CredentialStore) LoadProfile(ctx context.Context) (domain.UserProfile, bool, error) {
	var doc credentialDoc
	err := s.coll.FindOne(ctx, bson.M{"_id": s.key(ports.KeyUser)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.UserProfile{}, false, nil
	}
	if err != nil {
		return domain.UserProfile{}, false, fmt.Errorf("load profile: %w", err)
	}
	var user domain.UserProfile
	if err := json.Unmarshal([]byte(doc.Value), &user); err != nil {
		return domain.UserProfile{}, false, fmt.Errorf("decode profile: %w", err)
	}
	return user, true, nil
}

// Ping reports whether the backing server is reachable.
func (s *CredentialStore) Ping(ctx context.Context) error {
	return s.coll.Database().Client().Ping(ctx, nil)
}

// writeModel deletes the key when value is empty so absence stays absence.
func (s *CredentialStore) writeModel(name, value string) mongo.WriteModel {
	id := s.key(name)
	if value == "" {
		return mongo.NewDeleteOneModel().SetFilter(bson.M{"_id": id})
	}
	return mongo.NewReplaceOneModel().
		SetFilter(bson.M{"_id": id}).
		SetReplacement(credentialDoc{ID: id, Value: value, UpdatedAt: time.Now().UTC().Unix()}).
		SetUpsert(true)
}

func (s *CredentialStore) key(name string) string {
	return s.namespace + ":" + name
}
