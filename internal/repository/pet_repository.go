package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/lost-pet-registry/internal/model"
)

// PetRepo provides CRUD operations for pets. Pets are owned exclusively by
// their creating user; every mutation checks ownership before writing.
type PetRepo struct{ DB *sql.DB }

func NewPetRepo(db *sql.DB) *PetRepo { return &PetRepo{DB: db} }

const petColumns = "id, user_id, name, location, lat, lng, image_url, status, created_at"

func scanPet(row *sql.Row) (model.Pet, error) {
	var p model.Pet
	err := row.Scan(&p.ID, &p.UserID, &p.Name, &p.Location, &p.Lat, &p.Lng,
		&p.ImageURL, &p.Status, &p.CreatedAt)
	return p, err
}

// Create inserts a new pet for the given owner. Status is always forced to
// "lost" regardless of what the caller supplied; found pets only come into
// existence through an update. Returns the persisted row including the
// generated id and timestamp.
func (r *PetRepo) Create(ctx context.Context, ownerID uint64, name string, location *string, lat, lng *float64, imageURL *string) (model.Pet, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO pets (user_id, name, location, lat, lng, image_url, status) VALUES (?,?,?,?,?,?,?)",
		ownerID, name, location, lat, lng, imageURL, model.StatusLost)
	if err != nil {
		return model.Pet{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Pet{}, err
	}
	return scanPet(r.DB.QueryRowContext(ctx,
		"SELECT "+petColumns+" FROM pets WHERE id=?", id))
}

// Update applies a partial update to a pet. It first resolves the current
// owner: ErrNotFound when the pet does not exist, ErrForbidden when callerID
// is not the owner — in both cases nothing is written. Nil patch fields keep
// the stored value (COALESCE), present fields overwrite it. Returns the full
// updated row.
func (r *PetRepo) Update(ctx context.Context, petID, callerID uint64, patch model.PetPatch) (model.Pet, error) {
	var ownerID uint64
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id FROM pets WHERE id=?", petID).Scan(&ownerID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Pet{}, ErrNotFound
	}
	if err != nil {
		return model.Pet{}, err
	}
	if ownerID != callerID {
		return model.Pet{}, ErrForbidden
	}

	if !patch.Empty() {
		_, err = r.DB.ExecContext(ctx,
			`UPDATE pets SET
				name      = COALESCE(?, name),
				location  = COALESCE(?, location),
				status    = COALESCE(?, status),
				lat       = COALESCE(?, lat),
				lng       = COALESCE(?, lng),
				image_url = COALESCE(?, image_url)
			WHERE id=?`,
			patch.Name, patch.Location, patch.Status, patch.Lat, patch.Lng, patch.ImageURL, petID)
		if err != nil {
			return model.Pet{}, err
		}
	}

	return scanPet(r.DB.QueryRowContext(ctx,
		"SELECT "+petColumns+" FROM pets WHERE id=?", petID))
}

// GetByID fetches a single pet.
func (r *PetRepo) GetByID(ctx context.Context, id uint64) (model.Pet, error) {
	p, err := scanPet(r.DB.QueryRowContext(ctx,
		"SELECT "+petColumns+" FROM pets WHERE id=?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return model.Pet{}, ErrNotFound
	}
	return p, err
}

// ListByOwner returns all pets of a user, most recently created first.
func (r *PetRepo) ListByOwner(ctx context.Context, ownerID uint64) ([]model.Pet, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+petColumns+" FROM pets WHERE user_id=? ORDER BY created_at DESC, id DESC",
		ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]model.Pet, 0)
	for rows.Next() {
		var p model.Pet
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Location, &p.Lat, &p.Lng,
			&p.ImageURL, &p.Status, &p.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// OwnerContact resolves the pet's name together with its owner's email via a
// join on credentials. Used by report ingestion to address the sighting
// notification; ErrNotFound when the pet does not exist.
func (r *PetRepo) OwnerContact(ctx context.Context, petID uint64) (petName, ownerEmail string, err error) {
	err = r.DB.QueryRowContext(ctx,
		`SELECT p.name, c.email
		   FROM pets p
		   JOIN credentials c ON c.user_id = p.user_id
		  WHERE p.id=?`, petID).Scan(&petName, &ownerEmail)
	if errors.Is(err, sql.ErrNoRows) {
		return "", "", ErrNotFound
	}
	return petName, ownerEmail, err
}
