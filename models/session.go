package models

import "time"

// SessionProjection is the denormalized mirror of a booking's temporal
// and state fields, keyed by booking identity, consumed by live-session
// tooling. Rebuilt transactionally alongside every booking write; never
// the source of truth and never written independently.
type SessionProjection struct {
	BookingID     string        `bson:"bookingId" json:"bookingId"`
	CoachID       string        `bson:"coachId" json:"coachId"`
	UserID        string        `bson:"userId,omitempty" json:"userId,omitempty"`
	SessionTypeID string        `bson:"sessionTypeId" json:"sessionTypeId"`
	Start         time.Time     `bson:"start" json:"start"`
	End           time.Time     `bson:"end" json:"end"`
	State         BookingStatus `bson:"state" json:"state"`
	UpdatedAt     time.Time     `bson:"updatedAt" json:"updatedAt"`
}

// ProjectSession rebuilds the projection from its owning record.
func ProjectSession(b *BookingRecord, now time.Time) *SessionProjection {
	return &SessionProjection{
		BookingID:     b.ID,
		CoachID:       b.CoachID,
		UserID:        b.UserID,
		SessionTypeID: b.SessionTypeID,
		Start:         b.Start,
		End:           b.End,
		State:         b.Status,
		UpdatedAt:     now,
	}
}
