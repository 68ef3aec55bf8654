package booking

import "bondigoo/models"

// allowedTransitions is the single source of truth for the booking
// lifecycle. Operations never compare statuses ad hoc; they ask
// CanTransition. Terminal states have no entry.
var allowedTransitions = map[models.BookingStatus][]models.BookingStatus{
	models.StatusRequested: {
		models.StatusConfirmed,
		models.StatusDeclined,
		models.StatusTimeSuggested,
		models.StatusCancelledClient,
		models.StatusCancelledAdmin,
	},
	models.StatusPendingPayment: {
		models.StatusConfirmed,
		models.StatusDeclined,
		models.StatusCancelledClient,
		models.StatusCancelledCoach,
		models.StatusCancelledAdmin,
	},
	models.StatusConfirmed: {
		models.StatusCancelledClient,
		models.StatusCancelledCoach,
		models.StatusCancelledAdmin,
		models.StatusPendingResClient,
		models.StatusPendingResCoach,
		models.StatusScheduled,
		models.StatusCompleted,
		models.StatusNoShow,
	},
	models.StatusTimeSuggested: {
		models.StatusConfirmed,
		models.StatusDeclined,
		models.StatusCancelledClient,
		models.StatusCancelledAdmin,
	},
	models.StatusPendingResClient: {
		models.StatusConfirmed,
		models.StatusCancelledClient,
		models.StatusCancelledCoach,
		models.StatusCancelledAdmin,
		models.StatusPendingResCoach,
	},
	models.StatusPendingResCoach: {
		models.StatusConfirmed,
		models.StatusCancelledClient,
		models.StatusCancelledCoach,
		models.StatusCancelledAdmin,
		models.StatusPendingResClient,
	},
	models.StatusResPendingAtt: {
		models.StatusConfirmed,
		models.StatusCancelledCoach,
		models.StatusCancelledAdmin,
	},
	models.StatusPendingMinAtt: {
		models.StatusConfirmed,
		models.StatusCancelledCoach,
		models.StatusCancelledAdmin,
	},
	models.StatusScheduled: {
		models.StatusCompleted,
		models.StatusNoShow,
		models.StatusCancelledCoach,
		models.StatusCancelledAdmin,
	},
}

// CanTransition consults the transition table.
func CanTransition(from, to models.BookingStatus) bool {
	for _, t := range allowedTransitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// transition moves the record to the target status or reports
// InvalidTransition, leaving the record untouched.
func transition(b *models.BookingRecord, to models.BookingStatus) error {
	if !CanTransition(b.Status, to) {
		return &InvalidTransitionError{BookingID: b.ID, From: b.Status, To: to}
	}
	b.Status = to
	return nil
}

// InitialStatus computes the creation-time status. Availability publishes
// are immediately confirmed; firm bookings with a positive price wait on
// payment; coach-initiated bookings skip the request step.
func InitialStatus(isAvailability, coachInitiated bool, kind models.BookingKind, priceAmount float64) models.BookingStatus {
	if isAvailability {
		return models.StatusConfirmed
	}
	if kind == models.KindFirm && priceAmount > 0 {
		return models.StatusPendingPayment
	}
	if coachInitiated {
		return models.StatusConfirmed
	}
	return models.StatusRequested
}
