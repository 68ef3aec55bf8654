package booking

import (
	"time"

	"github.com/google/uuid"

	"bondigoo/models"
)

// Carve splits an availability record around a booked sub-interval and
// returns zero, one or two remainder availability records. Carried
// attributes propagate unchanged onto every remainder. Pure: the caller
// deletes the original and inserts the remainders in one transaction.
func Carve(avail *models.BookingRecord, booked models.Interval, now time.Time) ([]*models.BookingRecord, error) {
	if !avail.IsAvailability {
		return nil, NewValidationError("availability", "carve target is not an availability record")
	}
	if err := booked.Validate(); err != nil {
		return nil, &ValidationError{Field: "booked", Message: err.Error()}
	}
	if !avail.Interval().Contains(booked) {
		return nil, &SlotConflictError{
			CoachID:  avail.CoachID,
			Interval: booked,
			Message:  "booked interval not contained in availability " + avail.Interval().String(),
		}
	}

	var remainders []*models.BookingRecord
	if booked.Start.After(avail.Start) {
		remainders = append(remainders, remainderOf(avail, models.Interval{Start: avail.Start, End: booked.Start}, now))
	}
	if booked.End.Before(avail.End) {
		remainders = append(remainders, remainderOf(avail, models.Interval{Start: booked.End, End: avail.End}, now))
	}
	return remainders, nil
}

// remainderOf clones the availability record onto a sub-interval with a
// fresh identity. Everything except identity, bounds and timestamps is
// preserved bit-for-bit.
func remainderOf(avail *models.BookingRecord, iv models.Interval, now time.Time) *models.BookingRecord {
	r := *avail
	r.ID = uuid.New().String()
	r.SetInterval(iv)
	r.Version = 0
	r.CreatedAt = now
	r.UpdatedAt = now
	return &r
}

// Coalesce restores a freed interval as availability, merging with
// directly-adjacent neighbors whose carried attributes match. donor
// supplies the attribute context (the availability the booking was
// originally carved from, or the booking itself which carries the same
// fields). Returns the restored record and the IDs of absorbed
// neighbors, which the caller deletes in the same transaction.
func Coalesce(freed models.Interval, donor *models.BookingRecord, neighbors []*models.BookingRecord, now time.Time) (*models.BookingRecord, []string) {
	restored := &models.BookingRecord{
		ID:             uuid.New().String(),
		CoachID:        donor.CoachID,
		SessionTypeID:  donor.SessionTypeID,
		IsAvailability: true,
		BookingKind:    models.KindAvailability,
		Timezone:       donor.Timezone,
		Status:         models.StatusConfirmed,

		OvertimePolicy:         donor.OvertimePolicy,
		InstantBookingEligible: donor.InstantBookingEligible,
		FirmBookingThreshold:   donor.FirmBookingThreshold,
		RecurrencePattern:      donor.RecurrencePattern,

		CancellationPolicySnapshot: donor.CancellationPolicySnapshot,
		CreatedAt:                  now,
		UpdatedAt:                  now,
	}
	restored.SetInterval(freed)

	var absorbed []string
	for _, n := range neighbors {
		if !n.IsAvailability || n.CoachID != restored.CoachID {
			continue
		}
		if !restored.CarriedAttributesEqual(n) {
			continue
		}
		switch {
		case n.Interval().AdjacentBefore(restored.Interval()):
			restored.Start = n.Start
		case n.Interval().AdjacentAfter(restored.Interval()):
			restored.End = n.End
		default:
			continue
		}
		absorbed = append(absorbed, n.ID)
	}
	return restored, absorbed
}
