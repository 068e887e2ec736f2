package model

import "time"

// Pet status values. A pet is created lost and flips to found (or back)
// only through an owner-issued update.
const (
	StatusLost  = "lost"
	StatusFound = "found"
)

// Pet is an animal record owned exclusively by the user who created it.
// Coordinates are optional but come in pairs: Lat and Lng are either both
// set or both nil.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owning user.
//  Name      – display name of the animal.
//  Location  – free-text last-seen location (nullable).
//  Lat, Lng  – geographic coordinates (nullable, paired).
//  ImageURL  – public photo URL (nullable).
//  Status    – "lost" or "found".
//  CreatedAt – creation timestamp.
type Pet struct {
	ID        uint64    `json:"id"`        // pets.id
	UserID    uint64    `json:"userId"`    // pets.user_id
	Name      string    `json:"name"`      // pets.name
	Location  *string   `json:"location"`  // pets.location (nullable)
	Lat       *float64  `json:"lat"`       // pets.lat (nullable)
	Lng       *float64  `json:"lng"`       // pets.lng (nullable)
	ImageURL  *string   `json:"imageUrl"`  // pets.image_url (nullable)
	Status    string    `json:"status"`    // pets.status
	CreatedAt time.Time `json:"createdAt"` // pets.created_at
}

// HasGeo reports whether both coordinates are present.
func (p Pet) HasGeo() bool { return p.Lat != nil && p.Lng != nil }

// PetPatch carries a partial update. A nil field means "leave the stored
// value unchanged"; there is no way to null out a column through a patch.
type PetPatch struct {
	Name     *string
	Location *string
	Status   *string
	Lat      *float64
	Lng      *float64
	ImageURL *string
}

// Empty reports whether the patch carries no fields at all.
func (p PetPatch) Empty() bool {
	return p.Name == nil && p.Location == nil && p.Status == nil &&
		p.Lat == nil && p.Lng == nil && p.ImageURL == nil
}
