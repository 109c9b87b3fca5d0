// Package models defines server-side data models persisted in the database.
package models

import "time"

// User is a row of the users table. Password material never leaves the
// repository and service layers.
type User struct {
	ID             int64
	UserName       string
	Email          string
	PasswordHash   string
	PasswordSalt   []byte
	PasswordScheme string
	CreatedAt      time.Time
	LastLogin      *time.Time
}
