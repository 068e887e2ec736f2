package repository_test

import (
	"context"
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/iliyamo/lost-pet-registry/internal/model"
	"github.com/iliyamo/lost-pet-registry/internal/repository"
)

// newTestDB opens an in-memory sqlite database with the registry schema.
// The sqlite dialect is close enough to MySQL for everything the
// repositories do (placeholders, COALESCE, LOWER, LastInsertId).
func newTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	schema := []string{
		`CREATE TABLE users (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			full_name  TEXT NOT NULL,
			phone      TEXT,
			location   TEXT,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE credentials (
			user_id       INTEGER PRIMARY KEY,
			email         TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL
		)`,
		`CREATE TABLE pets (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL,
			name       TEXT NOT NULL,
			location   TEXT,
			lat        REAL,
			lng        REAL,
			image_url  TEXT,
			status     TEXT NOT NULL DEFAULT 'lost',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE reports (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			pet_id         INTEGER NOT NULL,
			reporter_name  TEXT NOT NULL,
			reporter_phone TEXT NOT NULL,
			location       TEXT,
			details        TEXT,
			created_at     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("schema: %v", err)
		}
	}
	return db
}

// bcrypt at MinCost keeps signup tests fast.
const testBcryptCost = 4

func createTestUser(t *testing.T, users *repository.UserRepo, email string) model.User {
	t.Helper()
	u, err := users.CreateWithCredential(context.Background(),
		"Test Owner", nil, nil, email, "password123", testBcryptCost)
	if err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return u
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func strptr(s string) *string   { return &s }
func f64ptr(f float64) *float64 { return &f }
