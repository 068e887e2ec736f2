package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/iliyamo/lost-pet-registry/internal/model"
	"github.com/iliyamo/lost-pet-registry/internal/utils"
)

// UserRepo persists users and their login credentials.
type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// CreateWithCredential inserts a user row and its credential row in a single
// transaction. The email is normalized to lower case before the uniqueness
// check so that addresses differing only in case collide. On any failure the
// whole transaction is rolled back and no user row survives.
func (r *UserRepo) CreateWithCredential(ctx context.Context, fullName string, phone, location *string, email, password string, cost int) (model.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return model.User{}, err
	}

	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return model.User{}, err
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	err = tx.QueryRowContext(ctx,
		"SELECT 1 FROM credentials WHERE LOWER(email)=? LIMIT 1", email).Scan(&exists)
	if err == nil {
		return model.User{}, ErrEmailExists
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.User{}, err
	}

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (full_name, phone, location) VALUES (?,?,?)",
		fullName, phone, location)
	if err != nil {
		return model.User{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.User{}, err
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO credentials (user_id, email, password_hash) VALUES (?,?,?)",
		id, email, hash); err != nil {
		if isDuplicate(err) {
			return model.User{}, ErrEmailExists
		}
		return model.User{}, err
	}

	var u model.User
	err = tx.QueryRowContext(ctx,
		"SELECT id, full_name, phone, location, created_at FROM users WHERE id=?",
		id).Scan(&u.ID, &u.FullName, &u.Phone, &u.Location, &u.CreatedAt)
	if err != nil {
		return model.User{}, err
	}

	if err := tx.Commit(); err != nil {
		return model.User{}, err
	}
	return u, nil
}

// GetCredentialByEmail fetches the credential for a normalized email.
func (r *UserRepo) GetCredentialByEmail(ctx context.Context, email string) (model.Credential, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var c model.Credential
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, email, password_hash FROM credentials WHERE LOWER(email)=? LIMIT 1",
		email).Scan(&c.UserID, &c.Email, &c.PasswordHash)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Credential{}, ErrNotFound
	}
	return c, err
}

// GetByID fetches a user profile by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, full_name, phone, location, created_at FROM users WHERE id=? LIMIT 1",
		id).Scan(&u.ID, &u.FullName, &u.Phone, &u.Location, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.User{}, ErrNotFound
	}
	return u, err
}
