package model

import "time"

// User is a registered pet owner. Profile fields are free text supplied at
// signup; users are never deleted.
//
// Fields:
//  ID        – primary key identifier.
//  FullName  – display name of the owner.
//  Phone     – contact phone (nullable).
//  Location  – free-text home location (nullable).
//  CreatedAt – creation timestamp.
type User struct {
	ID        uint64    `json:"id"`                 // users.id
	FullName  string    `json:"fullName"`           // users.full_name
	Phone     *string   `json:"phone"`              // users.phone (nullable)
	Location  *string   `json:"location"`           // users.location (nullable)
	CreatedAt time.Time `json:"createdAt"`          // users.created_at
}

// Credential is the login record paired one-to-one with a User. The email is
// stored lower-cased and is unique case-insensitively; only the bcrypt hash
// of the password is persisted.
type Credential struct {
	UserID       uint64 // credentials.user_id
	Email        string // credentials.email (normalized lower-case)
	PasswordHash string // credentials.password_hash
}
