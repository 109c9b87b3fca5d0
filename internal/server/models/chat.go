package models

import "time"

// ChatTurn is one stored exchange between a user and the assistant.
type ChatTurn struct {
	ID          int64
	UserID      int64
	UserMessage string
	AIResponse  string
	Timestamp   time.Time
}
