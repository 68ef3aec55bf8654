package calendarRepo

import (
	"context"
	"errors"
	"time"

	"bondigoo/models"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("calendar record not found")

// ErrVersionConflict is returned when a version-guarded write matched no
// document: the record was mutated or deleted by a concurrent
// transaction. The retry policy treats it as transient.
var ErrVersionConflict = errors.New("calendar record version conflict")

// CalendarRepository is the storage boundary for a coach's set of
// BookingRecords. All mutating methods must be called inside
// WithTransaction so calendar, booking and projection writes commit or
// abort together.
type CalendarRepository interface {
	// WithTransaction runs fn inside a single all-or-nothing transaction
	// with snapshot isolation. The ctx passed to fn must be used for
	// every repository call within the unit of work.
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error

	InsertBooking(ctx context.Context, b *models.BookingRecord) error
	GetBooking(ctx context.Context, id string) (*models.BookingRecord, error)

	// ReplaceBooking writes b guarded by its Version and increments the
	// stamp. ErrVersionConflict if the stored version moved on.
	ReplaceBooking(ctx context.Context, b *models.BookingRecord) error

	// DeleteAvailability removes an availability record guarded by
	// version. The one legitimate hard delete: carving and coalescing
	// restructure availability by delete-and-insert.
	DeleteAvailability(ctx context.Context, id string, version int) error

	// FindAvailabilityContaining returns the availability record fully
	// containing iv for the coach, or ErrNotFound.
	FindAvailabilityContaining(ctx context.Context, coachID string, iv models.Interval) (*models.BookingRecord, error)

	// FindAdjacentAvailability returns availability records ending
	// exactly at iv.Start or starting exactly at iv.End.
	FindAdjacentAvailability(ctx context.Context, coachID string, iv models.Interval) ([]*models.BookingRecord, error)

	// FindOverlapping returns non-terminal, non-availability bookings of
	// the coach overlapping iv, excluding excludeID.
	FindOverlapping(ctx context.Context, coachID string, iv models.Interval, excludeID string) ([]*models.BookingRecord, error)

	// ListCalendar returns every record of the coach intersecting
	// [from, to), availability and bookings alike.
	ListCalendar(ctx context.Context, coachID string, from, to time.Time) ([]*models.BookingRecord, error)
}
