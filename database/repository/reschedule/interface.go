package rescheduleRepo

import (
	"context"
	"time"

	"bondigoo/models"
)

// RescheduleRepository is the append-only log of reschedule requests and
// completed reschedules, keyed by booking ID. Requests are never mutated
// in place except to close their status; history entries are never
// touched after insert.
type RescheduleRepository interface {
	AppendRequest(ctx context.Context, req *models.RescheduleRequest) error
	FindPendingByBooking(ctx context.Context, bookingID string) (*models.RescheduleRequest, error)
	CloseRequest(ctx context.Context, requestID string, status models.RescheduleStatus, resolvedAt time.Time) error
	ListRequestsByBooking(ctx context.Context, bookingID string) ([]models.RescheduleRequest, error)

	AppendHistory(ctx context.Context, entry *models.RescheduleHistoryEntry) error
	ListHistoryByBooking(ctx context.Context, bookingID string) ([]models.RescheduleHistoryEntry, error)
}
