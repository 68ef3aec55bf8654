package models

import "time"

// Notification is the in-app inbox entry written post-commit alongside
// the push; delivery never influences the state machine's outcome.
type Notification struct {
	ID          string         `bson:"id" json:"id"`
	PrincipalID string         `bson:"principalId" json:"principalId"`
	Role        string         `bson:"role" json:"role"`
	Type        string         `bson:"type" json:"type"`
	Title       string         `bson:"title" json:"title"`
	Message     string         `bson:"message" json:"message"`
	Data        map[string]any `bson:"data,omitempty" json:"data,omitempty"`
	CreatedAt   time.Time      `bson:"createdAt" json:"createdAt"`
	Read        bool           `bson:"read" json:"read"`
}

// ReminderPayload is the asynq task payload for session reminders.
type ReminderPayload struct {
	BookingID string    `json:"bookingId"`
	CoachID   string    `json:"coachId"`
	UserID    string    `json:"userId"`
	Start     time.Time `json:"start"`
}
