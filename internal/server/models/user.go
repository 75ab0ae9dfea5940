// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is an account record. PasswordHash never leaves the server.
type User struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	PasswordHash   string
	ContactNumber  string
	Address        string
	Birthday       string
	ProfilePicture string // object-storage key, empty when unset
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ProfileUpdate lists the user attributes changeable through the profile
// form. A nil field is left untouched. Email and password are deliberately
// absent.
type ProfileUpdate struct {
	FirstName     *string
	LastName      *string
	ContactNumber *string
	Address       *string
	Birthday      *string
}
