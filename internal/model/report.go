package model

import "time"

// Report is a public sighting submission for a pet. Reports are immutable
// once created, belong to no user and are never pushed to the search index.
type Report struct {
	ID            uint64    `json:"id"`            // reports.id
	PetID         uint64    `json:"petId"`         // reports.pet_id
	ReporterName  string    `json:"reporterName"`  // reports.reporter_name
	ReporterPhone string    `json:"reporterPhone"` // reports.reporter_phone
	Location      *string   `json:"location"`      // reports.location (nullable)
	Details       *string   `json:"details"`       // reports.details (nullable)
	CreatedAt     time.Time `json:"createdAt"`     // reports.created_at
}
