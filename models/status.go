package models

// BookingStatus is the closed set of lifecycle states for a booking record.
// Every operation consults the transition table in services/booking; no
// call site compares raw strings on its own.
type BookingStatus string

const (
	StatusRequested        BookingStatus = "requested"
	StatusPendingPayment   BookingStatus = "pending_payment"
	StatusConfirmed        BookingStatus = "confirmed"
	StatusDeclined         BookingStatus = "declined"
	StatusTimeSuggested    BookingStatus = "time_suggested"
	StatusCancelledClient  BookingStatus = "cancelled_by_client"
	StatusCancelledCoach   BookingStatus = "cancelled_by_coach"
	StatusCancelledAdmin   BookingStatus = "cancelled_by_admin"
	StatusPendingResClient BookingStatus = "pending_reschedule_client_request"
	StatusPendingResCoach  BookingStatus = "pending_reschedule_coach_request"
	StatusResPendingAtt    BookingStatus = "rescheduled_pending_attendee_actions"
	StatusPendingMinAtt    BookingStatus = "pending_minimum_attendees"
	StatusScheduled        BookingStatus = "scheduled"
	StatusCompleted        BookingStatus = "completed"
	StatusNoShow           BookingStatus = "no_show"
)

// IsTerminal reports whether a status permits no further transitions.
func (s BookingStatus) IsTerminal() bool {
	switch s {
	case StatusDeclined, StatusCancelledClient, StatusCancelledCoach,
		StatusCancelledAdmin, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Actor identifies which party performed a transition.
type Actor string

const (
	ActorClient Actor = "client"
	ActorCoach  Actor = "coach"
	ActorAdmin  Actor = "admin"
	ActorSystem Actor = "system"
)
