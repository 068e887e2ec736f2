package repository_test

import (
	"context"
	"testing"

	"github.com/iliyamo/lost-pet-registry/internal/repository"
)

func TestReportRepo_Create(t *testing.T) {
	db := newTestDB(t)
	users := repository.NewUserRepo(db)
	pets := repository.NewPetRepo(db)
	reports := repository.NewReportRepo(db)
	ctx := context.Background()

	owner := createTestUser(t, users, "owner@example.com")
	p, err := pets.Create(ctx, owner.ID, "Rex", nil, nil, nil, nil)
	if err != nil {
		t.Fatalf("create pet: %v", err)
	}

	rep, err := reports.Create(ctx, p.ID, "Maria", "555-0199",
		strptr("Parque México"), strptr("seen near the fountain"))
	if err != nil {
		t.Fatalf("create report: %v", err)
	}
	if rep.ID == 0 || rep.CreatedAt.IsZero() {
		t.Fatal("expected generated id and timestamp")
	}
	if rep.PetID != p.ID || rep.ReporterName != "Maria" || rep.ReporterPhone != "555-0199" {
		t.Fatalf("unexpected report: %+v", rep)
	}

	n, err := reports.CountByPet(ctx, p.ID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Fatalf("expected 1 report, got %d", n)
	}
}

func TestReportRepo_CountByPetEmpty(t *testing.T) {
	db := newTestDB(t)
	reports := repository.NewReportRepo(db)

	n, err := reports.CountByPet(context.Background(), 77)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected 0 reports, got %d", n)
	}
}
