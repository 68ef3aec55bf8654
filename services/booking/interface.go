package booking

import (
	"context"
	"time"

	"bondigoo/models"
)

// LifecycleEngine is the exposed surface of the booking and availability
// lifecycle core. Every method returns the updated record (and session
// projection where one exists) or a typed error from errors.go.
type LifecycleEngine interface {
	CreateAvailability(ctx context.Context, req models.CreateAvailabilityRequest) (*models.BookingResponse, error)
	RestructureAvailability(ctx context.Context, availabilityID string, req models.CreateAvailabilityRequest) (*models.BookingResponse, error)
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.BookingResponse, error)

	AcceptBooking(ctx context.Context, bookingID string, actor models.Actor) (*models.BookingResponse, error)
	DeclineBooking(ctx context.Context, bookingID string) (*models.BookingResponse, error)
	SuggestAlternative(ctx context.Context, bookingID string, slots []models.Interval, message string) (*models.BookingResponse, error)
	ConfirmPayment(ctx context.Context, bookingID, intentID string) (*models.BookingResponse, error)
	Cancel(ctx context.Context, bookingID string, actor models.Actor) (*models.BookingResponse, error)

	StartSession(ctx context.Context, bookingID string) (*models.BookingResponse, error)
	CompleteSession(ctx context.Context, bookingID string) (*models.BookingResponse, error)
	MarkNoShow(ctx context.Context, bookingID string) (*models.BookingResponse, error)

	CheckRescheduleEligibility(ctx context.Context, bookingID string) (models.RescheduleEligibility, error)
	ProposeReschedule(ctx context.Context, bookingID string, req models.ProposeRescheduleRequest) (*models.BookingResponse, error)
	RespondToReschedule(ctx context.Context, bookingID string, req models.RespondRescheduleRequest) (*models.BookingResponse, error)

	GetBooking(ctx context.Context, bookingID string) (*models.BookingResponse, error)
	ListCalendar(ctx context.Context, coachID string, from, to time.Time) ([]*models.BookingRecord, error)
}
