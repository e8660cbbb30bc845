package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/mongo"
)

func TestCredentialStore_WriteModel(t *testing.T) {
	s := &CredentialStore{namespace: "backoffice"}

	upsert, ok := s.writeModel("token", "a1").(*mongo.ReplaceOneModel)
	if !ok {
		t.Fatalf("non-empty value must upsert")
	}
	if upsert.Upsert == nil || !*upsert.Upsert {
		t.Fatalf("replace must be an upsert")
	}
	doc, ok := upsert.Replacement.(credentialDoc)
	if !ok || doc.ID != "backoffice:token" || doc.Value != "a1" {
		t.Fatalf("unexpected replacement: %+v", upsert.Replacement)
	}

	if _, ok := s.writeModel("refreshToken", "").(*mongo.DeleteOneModel); !ok {
		t.Fatalf("empty value must delete the key")
	}
}
