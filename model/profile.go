package model

import "time"

// Profile is the per-user profile record, one-to-one with Identity.
// ID, Email and CreatedAt are read-only from the client's perspective;
// only FullName is ever written back.
type Profile struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	CreatedAt time.Time `json:"created_at"`
}
