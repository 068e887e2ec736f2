package search

import (
	"context"
	"log"
	"strconv"
	"time"

	"github.com/iliyamo/lost-pet-registry/internal/model"
)

// defaultPropagateTimeout bounds a single propagation attempt so a slow or
// unreachable index can never stall the mutation response.
const defaultPropagateTimeout = 2 * time.Second

// Synchronizer pushes pet state into the index after every successful store
// mutation. Calls are sequenced before the HTTP response is written but
// their outcome never gates it: errors are logged and swallowed, leaving the
// index stale until the next mutation of the same pet.
type Synchronizer struct {
	Index   PetIndex
	Timeout time.Duration
}

func NewSynchronizer(idx PetIndex) *Synchronizer {
	return &Synchronizer{Index: idx, Timeout: defaultPropagateTimeout}
}

// BuildDocument projects a pet into its index document. The geo point is set
// only when both coordinates are present.
func BuildDocument(p model.Pet) Document {
	doc := Document{
		ObjectID: strconv.FormatUint(p.ID, 10),
		Name:     p.Name,
		Status:   p.Status,
	}
	if p.Location != nil {
		doc.Location = *p.Location
	}
	if p.ImageURL != nil {
		doc.ImageURL = *p.ImageURL
	}
	if p.HasGeo() {
		lat, lng := *p.Lat, *p.Lng
		doc.Lat, doc.Lng = &lat, &lng
	}
	return doc
}

// Propagate replaces the pet's document in the index. Best-effort: any error
// is logged, never returned.
func (s *Synchronizer) Propagate(p model.Pet) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout())
	defer cancel()
	if err := s.Index.Upsert(ctx, BuildDocument(p)); err != nil {
		log.Printf("index: propagate pet %d failed: %v", p.ID, err)
	}
}

// Remove deletes the pet's document from the index. Pets are never hard
// deleted today, so nothing reaches this in the request path; it exists for
// parity with Propagate.
func (s *Synchronizer) Remove(petID uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout())
	defer cancel()
	if err := s.Index.Remove(ctx, strconv.FormatUint(petID, 10)); err != nil {
		log.Printf("index: remove pet %d failed: %v", petID, err)
	}
}

func (s *Synchronizer) timeout() time.Duration {
	if s.Timeout > 0 {
		return s.Timeout
	}
	return defaultPropagateTimeout
}
