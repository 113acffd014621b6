// Package model defines the data structures used throughout the application.
package model

import "time"

// User represents a registered account.
//
// The Password field holds the bcrypt hash, never the plaintext. The `json:"-"`
// tag guarantees it is dropped from every serialized response — there is no
// code path that can leak it through encoding/json.
//
// WHY Bio string (not *string)?
// Bio is optional at registration time but required on profile update. We use
// the empty string as the zero value rather than a nullable pointer — simpler
// to work with and safe to display.
type User struct {
	ID        int64     `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Password  string    `json:"-"` // bcrypt hash, never serialized
	Bio       string    `json:"bio"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSummary is the reduced owner representation embedded in event responses.
type UserSummary struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
}

// Attendee is the reduced user representation for an event's attendee list.
// Unlike UserSummary it omits the email — attendees haven't agreed to share
// their address with everyone browsing the event.
type Attendee struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Bio       string `json:"bio"`
}
