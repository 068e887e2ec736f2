package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/lost-pet-registry/internal/repository"
	"github.com/iliyamo/lost-pet-registry/internal/utils"
)

func TestUserRepo_CreateWithCredential(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepo(db)
	ctx := context.Background()

	phone := "555-0101"
	u, err := users.CreateWithCredential(ctx, "Ana Torres", &phone, nil,
		"Ana@Example.COM", "hunter22", testBcryptCost)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.ID == 0 {
		t.Fatal("expected generated id")
	}
	if u.FullName != "Ana Torres" {
		t.Fatalf("full name mismatch: %q", u.FullName)
	}
	if u.CreatedAt.IsZero() {
		t.Fatal("expected created_at to be populated")
	}

	// The credential is stored lower-cased and verifies the password.
	cred, err := users.GetCredentialByEmail(ctx, "ana@example.com")
	if err != nil {
		t.Fatalf("get credential: %v", err)
	}
	if cred.Email != "ana@example.com" {
		t.Fatalf("email not normalized: %q", cred.Email)
	}
	if cred.UserID != u.ID {
		t.Fatalf("credential user id mismatch: %d != %d", cred.UserID, u.ID)
	}
	if !utils.VerifyPassword(cred.PasswordHash, "hunter22") {
		t.Fatal("stored hash does not verify the password")
	}
}

func TestUserRepo_DuplicateEmailRollsBack(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepo(db)
	ctx := context.Background()

	createTestUser(t, users, "owner@example.com")
	usersBefore := countRows(t, db, "users")
	credsBefore := countRows(t, db, "credentials")

	// Same address, different case: the whole transaction must roll back.
	_, err := users.CreateWithCredential(ctx, "Someone Else", nil, nil,
		"OWNER@example.com", "other-password", testBcryptCost)
	if !errors.Is(err, repository.ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got %v", err)
	}

	if got := countRows(t, db, "users"); got != usersBefore {
		t.Fatalf("user table changed: %d -> %d", usersBefore, got)
	}
	if got := countRows(t, db, "credentials"); got != credsBefore {
		t.Fatalf("credentials table changed: %d -> %d", credsBefore, got)
	}
}

func TestUserRepo_GetCredentialByEmail_NotFound(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepo(db)

	_, err := users.GetCredentialByEmail(context.Background(), "nobody@example.com")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUserRepo_GetByID(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepo(db)

	u := createTestUser(t, users, "owner@example.com")
	got, err := users.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("get by id: %v", err)
	}
	if got.ID != u.ID || got.FullName != u.FullName {
		t.Fatalf("mismatch: %+v != %+v", got, u)
	}

	if _, err := users.GetByID(context.Background(), 9999); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing user, got %v", err)
	}
}
