// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a student account.
//
// The username is the natural identifier: it is what the student types at
// login and what the session identity is bound to. We still generate our own
// internal string ID (xid) so that other tables never reference the username
// directly — usernames are user-visible, IDs are not.
//
// PasswordHash is the bcrypt output of the password. The salt is embedded in
// the hash string itself, so no separate salt column exists anywhere.
// The plaintext password is never stored and never appears on this struct.
type User struct {
	ID           string    `json:"id"        db:"id"`
	Username     string    `json:"username"  db:"username"`
	PasswordHash string    `json:"-"         db:"password_hash"` // never serialized
	FirstName    string    `json:"firstName" db:"first_name"`
	LastName     string    `json:"lastName"  db:"last_name"`
	Admin        bool      `json:"admin"     db:"admin"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
}
