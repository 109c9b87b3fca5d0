package models

import "time"

// Session backs an issued bearer token. Token holds the JWT id, not the JWT.
type Session struct {
	ID        int64
	UserID    int64
	Token     string
	CreatedAt time.Time
	ExpiresAt time.Time
}
