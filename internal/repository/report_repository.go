package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/lost-pet-registry/internal/model"
)

// ReportRepo persists public sighting reports. Reports are append-only and
// never propagated to the search index.
type ReportRepo struct{ DB *sql.DB }

func NewReportRepo(db *sql.DB) *ReportRepo { return &ReportRepo{DB: db} }

// Create inserts a sighting report for an existing pet and returns the
// persisted row. Callers are expected to have resolved the pet beforehand
// (see PetRepo.OwnerContact); a dangling pet id surfaces as a foreign key
// error here rather than ErrNotFound.
func (r *ReportRepo) Create(ctx context.Context, petID uint64, reporterName, reporterPhone string, location, details *string) (model.Report, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO reports (pet_id, reporter_name, reporter_phone, location, details) VALUES (?,?,?,?,?)",
		petID, reporterName, reporterPhone, location, details)
	if err != nil {
		return model.Report{}, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return model.Report{}, err
	}

	var rep model.Report
	err = r.DB.QueryRowContext(ctx,
		"SELECT id, pet_id, reporter_name, reporter_phone, location, details, created_at FROM reports WHERE id=?",
		id).Scan(&rep.ID, &rep.PetID, &rep.ReporterName, &rep.ReporterPhone,
		&rep.Location, &rep.Details, &rep.CreatedAt)
	return rep, err
}

// CountByPet returns how many sighting reports exist for a pet.
func (r *ReportRepo) CountByPet(ctx context.Context, petID uint64) (int64, error) {
	var n int64
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM reports WHERE pet_id=?", petID).Scan(&n)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	return n, err
}
