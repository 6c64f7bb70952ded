package model

import "time"

// CalendarEvent is an independent entity; nothing in the workflow engines
// references it.
type CalendarEvent struct {
	ID          int       `json:"id"`
	CreatedAt   time.Time `json:"created_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
}
