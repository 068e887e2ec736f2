// Package search keeps the secondary, geo-queryable pet index in sync with
// the record store and serves public proximity queries. The index is
// eventually consistent by design: the relational store stays authoritative
// and a failed propagation only means the index is stale, never that a
// mutation failed.
package search

import "context"

// Document is the denormalized projection of a pet stored in the index.
// Lat/Lng are present only when the pet carries both coordinates.
type Document struct {
	ObjectID string   `json:"objectID"`
	Name     string   `json:"name"`
	Status   string   `json:"status"`
	Location string   `json:"location,omitempty"`
	ImageURL string   `json:"image_url,omitempty"`
	Lat      *float64 `json:"lat,omitempty"`
	Lng      *float64 `json:"lng,omitempty"`
}

// PetIndex is the narrow client contract against the search index. Upsert
// fully replaces the document for its id; partial store updates therefore
// land atomically in the index once propagated.
type PetIndex interface {
	Upsert(ctx context.Context, doc Document) error
	Remove(ctx context.Context, objectID string) error
	// SearchNearby returns lost-pet documents within radiusMeters of the
	// point, ordered as the index ranks them (distance ascending).
	SearchNearby(ctx context.Context, lat, lng, radiusMeters float64) ([]Document, error)
}

// Disabled is the no-op PetIndex used when no index backend is configured.
// All writes succeed and searches return nothing, degrading the system to
// "no public search" instead of failing mutations.
type Disabled struct{}

func (Disabled) Upsert(context.Context, Document) error { return nil }
func (Disabled) Remove(context.Context, string) error   { return nil }
func (Disabled) SearchNearby(context.Context, float64, float64, float64) ([]Document, error) {
	return []Document{}, nil
}
