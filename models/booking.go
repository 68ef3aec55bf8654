package models

import "time"

// BookingKind distinguishes how a record entered the calendar.
type BookingKind string

const (
	KindAvailability BookingKind = "AVAILABILITY"
	KindFirm         BookingKind = "FIRM"
	KindRequest      BookingKind = "REQUEST"
)

// OvertimePolicy governs billing when a session runs past its end.
type OvertimePolicy string

const (
	OvertimeDisallowed OvertimePolicy = "disallowed"
	OvertimeBilled     OvertimePolicy = "billed"
	OvertimeGrace      OvertimePolicy = "grace"
)

// BookingRecord is the unifying calendar entity: an open availability
// window and an actual booking are the same document type, distinguished
// by IsAvailability. Availability records carve into remainders when
// booked and are the only records ever hard-deleted.
type BookingRecord struct {
	ID             string      `bson:"id" json:"id"`
	CoachID        string      `bson:"coachId" json:"coachId"`
	UserID         string      `bson:"userId,omitempty" json:"userId,omitempty"`
	Attendees      []string    `bson:"attendees,omitempty" json:"attendees,omitempty"`
	SessionTypeID  string      `bson:"sessionTypeId" json:"sessionTypeId"`
	IsAvailability bool        `bson:"isAvailability" json:"isAvailability"`
	BookingKind    BookingKind `bson:"bookingKind" json:"bookingKind"`

	Start    time.Time `bson:"start" json:"start"` // UTC instant
	End      time.Time `bson:"end" json:"end"`     // UTC instant
	Timezone string    `bson:"timezone,omitempty" json:"timezone,omitempty"` // display only, never used in arithmetic

	Status  BookingStatus `bson:"status" json:"status"`
	Price   PriceSnapshot `bson:"price,omitempty" json:"price,omitzero"`
	Payment PaymentInfo   `bson:"payment,omitempty" json:"payment,omitzero"`

	// Carried attributes: must propagate unchanged through carve/coalesce.
	OvertimePolicy         OvertimePolicy `bson:"overtimePolicy,omitempty" json:"overtimePolicy,omitempty"`
	InstantBookingEligible bool           `bson:"instantBookingEligible" json:"instantBookingEligible"`
	FirmBookingThreshold   float64        `bson:"firmBookingThreshold,omitempty" json:"firmBookingThreshold,omitempty"`
	RecurrencePattern      string         `bson:"recurrencePattern,omitempty" json:"recurrencePattern,omitempty"`

	CancellationPolicySnapshot *PolicyDocument `bson:"cancellationPolicy,omitempty" json:"cancellationPolicy,omitempty"`

	// Populated from the reschedule log for API responses; the log
	// collection is the source of truth.
	RescheduleRequests []RescheduleRequest      `bson:"-" json:"rescheduleRequests,omitempty"`
	RescheduleHistory  []RescheduleHistoryEntry `bson:"-" json:"rescheduleHistory,omitempty"`

	Metadata BookingMetadata `bson:"metadata,omitempty" json:"metadata,omitzero"`

	Version   int       `bson:"version" json:"version"` // optimistic concurrency stamp
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// BookingMetadata carries cross-record references.
type BookingMetadata struct {
	// OriginalAvailabilityID points back to the availability record the
	// booking was carved from, so cancellation restores the exact policy
	// context.
	OriginalAvailabilityID string `bson:"originalAvailabilityId,omitempty" json:"originalAvailabilityId,omitempty"`
	CoachInitiated         bool   `bson:"coachInitiated,omitempty" json:"coachInitiated,omitempty"`
}

// Interval returns the record's occupied range.
func (b *BookingRecord) Interval() Interval {
	return Interval{Start: b.Start, End: b.End}
}

// SetInterval updates the temporal bounds, normalized to UTC.
func (b *BookingRecord) SetInterval(iv Interval) {
	b.Start = iv.Start.UTC()
	b.End = iv.End.UTC()
}

// CarriedAttributesEqual reports whether two records agree on every
// attribute that must survive a split or merge. Coalescing never merges
// across a mismatch.
func (b *BookingRecord) CarriedAttributesEqual(other *BookingRecord) bool {
	return b.OvertimePolicy == other.OvertimePolicy &&
		b.InstantBookingEligible == other.InstantBookingEligible &&
		b.FirmBookingThreshold == other.FirmBookingThreshold &&
		b.RecurrencePattern == other.RecurrencePattern &&
		b.SessionTypeID == other.SessionTypeID
}

// CreateBookingRequest is the inbound payload for booking a session.
type CreateBookingRequest struct {
	CoachID        string    `json:"coachId" binding:"required"`
	UserID         string    `json:"userId" binding:"required"`
	SessionTypeID  string    `json:"sessionTypeId" binding:"required"`
	Start          time.Time `json:"start" binding:"required"`
	End            time.Time `json:"end" binding:"required"`
	Timezone       string    `json:"timezone"`
	DiscountCode   string    `json:"discountCode"`
	CoachInitiated bool      `json:"coachInitiated"`
	Attendees      []string  `json:"attendees"`
}

// CreateAvailabilityRequest is the inbound payload for publishing an
// open window.
type CreateAvailabilityRequest struct {
	CoachID                string         `json:"coachId" binding:"required"`
	SessionTypeID          string         `json:"sessionTypeId" binding:"required"`
	Start                  time.Time      `json:"start" binding:"required"`
	End                    time.Time      `json:"end" binding:"required"`
	Timezone               string         `json:"timezone"`
	OvertimePolicy         OvertimePolicy `json:"overtimePolicy"`
	InstantBookingEligible bool           `json:"instantBookingEligible"`
	FirmBookingThreshold   float64        `json:"firmBookingThreshold"`
	RecurrencePattern      string         `json:"recurrencePattern"`
}

// BookingResponse is the standard API envelope for lifecycle operations.
type BookingResponse struct {
	Booking    *BookingRecord     `json:"booking"`
	Projection *SessionProjection `json:"session,omitempty"`
}
