// Package queue defines message payloads exchanged over the message broker.
package queue

// ReportCreatedEvent is published after a sighting report has been
// persisted. It carries everything the notification consumer needs to
// address and format the owner email without querying the primary database,
// which also leaves room for out-of-band redelivery: the durable queue can
// replay the event even if the first send attempt is lost.
type ReportCreatedEvent struct {
	ReportID      uint64 `json:"report_id"`
	PetID         uint64 `json:"pet_id"`
	PetName       string `json:"pet_name"`
	OwnerEmail    string `json:"owner_email"`
	ReporterName  string `json:"reporter_name"`
	ReporterPhone string `json:"reporter_phone"`
	Location      string `json:"location,omitempty"`
	Details       string `json:"details,omitempty"`
	CreatedAt     string `json:"created_at"`
}
