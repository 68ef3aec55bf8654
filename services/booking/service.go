package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"

	calendarRepo "bondigoo/database/repository/calendar"
	rescheduleRepo "bondigoo/database/repository/reschedule"
	sessionRepo "bondigoo/database/repository/session"
	"bondigoo/models"
	"bondigoo/services/notification"
	"bondigoo/services/tasks"
)

// DefaultLifecycleEngine is the production implementation of
// LifecycleEngine. All calendar mutation flows through it; clients never
// touch another actor's records directly.
type DefaultLifecycleEngine struct {
	Calendar    calendarRepo.CalendarRepository
	Sessions    sessionRepo.SessionRepository
	Reschedules rescheduleRepo.RescheduleRepository

	Pricing   PricingService
	Policy    PolicyEngine
	Gateway   PaymentGateway
	Notifier  notification.NotificationService
	Reminders tasks.ReminderScheduler

	Cache *redis.Client
	Retry calendarRepo.RetryPolicy

	// ExemptSessionTypes declares which session types may be booked by a
	// coach outside published availability (no carving). Declarative,
	// not inferred from type identifiers.
	ExemptSessionTypes map[string]bool

	Logger *zap.Logger
}

// runUnit executes one unit of work inside a transaction, re-running it
// from scratch on transient write contention per the injected retry
// policy. Exhaustion surfaces as TransientConflictError.
func (se *DefaultLifecycleEngine) runUnit(ctx context.Context, fn func(ctx context.Context) error) error {
	attempts, err := se.Retry.Run(ctx, func(ctx context.Context) error {
		return se.Calendar.WithTransaction(ctx, fn)
	})
	if err == nil {
		return nil
	}
	if calendarRepo.IsTransient(err) {
		se.Logger.Warn("calendar unit of work exhausted retries",
			zap.Int("attempts", attempts), zap.Error(err))
		return &TransientConflictError{Attempts: attempts, Last: err}
	}
	return err
}

// projectionNeeded reports whether the status requires a live-session
// projection. Creation is lazy: early request-phase states do not
// materialize one.
func projectionNeeded(s models.BookingStatus) bool {
	switch s {
	case models.StatusConfirmed, models.StatusScheduled,
		models.StatusCompleted, models.StatusNoShow:
		return true
	}
	return false
}

// syncProjection rebuilds the session projection from the booking record
// inside the same transaction as the booking write, keeping
// projection.state equal to booking.status after every commit.
func (se *DefaultLifecycleEngine) syncProjection(ctx context.Context, b *models.BookingRecord, now time.Time) (*models.SessionProjection, error) {
	if b.IsAvailability {
		return nil, nil
	}
	existing, err := se.Sessions.Get(ctx, b.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil && !projectionNeeded(b.Status) {
		return nil, nil
	}
	p := models.ProjectSession(b, now)
	if err := se.Sessions.Upsert(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// attachRescheduleView mirrors the append-only log onto the record for
// API responses. The log collections remain the source of truth.
func (se *DefaultLifecycleEngine) attachRescheduleView(ctx context.Context, b *models.BookingRecord) error {
	requests, err := se.Reschedules.ListRequestsByBooking(ctx, b.ID)
	if err != nil {
		return err
	}
	history, err := se.Reschedules.ListHistoryByBooking(ctx, b.ID)
	if err != nil {
		return err
	}
	b.RescheduleRequests = requests
	b.RescheduleHistory = history
	return nil
}

// containmentExempt reports whether a booking may bypass the
// availability-containment check and the carve that goes with it.
func (se *DefaultLifecycleEngine) containmentExempt(coachInitiated bool, sessionTypeID string) bool {
	return coachInitiated && se.ExemptSessionTypes[sessionTypeID]
}

const calendarVersionPrefix = "calendarver:"

// bumpCalendarVersion invalidates cached calendar views for the coach.
// Cached entries embed the version, so a bump orphans them and the TTL
// reaps them.
func (se *DefaultLifecycleEngine) bumpCalendarVersion(ctx context.Context, coachID string) {
	if se.Cache == nil {
		return
	}
	if err := se.Cache.Incr(ctx, calendarVersionPrefix+coachID).Err(); err != nil {
		se.Logger.Warn("failed to bump calendar cache version",
			zap.String("coachId", coachID), zap.Error(err))
	}
}

// notifyAsync dispatches post-commit notifications without blocking the
// request; delivery failure never surfaces to the caller.
func (se *DefaultLifecycleEngine) notifyAsync(b *models.BookingRecord, event string) {
	if se.Notifier == nil {
		return
	}
	record := *b
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		se.Notifier.NotifyBookingUpdate(ctx, &record, event)
	}()
}

// scheduleReminder enqueues the session reminder once a booking is
// confirmed. Best effort: a failed enqueue is logged, never returned.
func (se *DefaultLifecycleEngine) scheduleReminder(ctx context.Context, b *models.BookingRecord) {
	if se.Reminders == nil {
		return
	}
	payload := models.ReminderPayload{
		BookingID: b.ID,
		CoachID:   b.CoachID,
		UserID:    b.UserID,
		Start:     b.Start,
	}
	if err := se.Reminders.ScheduleSessionReminder(ctx, payload); err != nil {
		se.Logger.Warn("failed to schedule session reminder",
			zap.String("bookingId", b.ID), zap.Error(err))
	}
}

// markPaymentState records a post-commit gateway outcome on the booking
// in its own small transaction. Calendar state is already final; this
// only touches the payment sub-document.
func (se *DefaultLifecycleEngine) markPaymentState(ctx context.Context, bookingID string, mutate func(p *models.PaymentInfo)) {
	err := se.runUnit(ctx, func(ctx context.Context) error {
		b, err := se.Calendar.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		mutate(&b.Payment)
		b.Payment.UpdatedAt = time.Now().UTC()
		return se.Calendar.ReplaceBooking(ctx, b)
	})
	if err != nil {
		se.Logger.Error("failed to record payment state",
			zap.String("bookingId", bookingID), zap.Error(err))
	}
}

// respond assembles the standard API envelope.
func respond(b *models.BookingRecord, p *models.SessionProjection) *models.BookingResponse {
	return &models.BookingResponse{Booking: b, Projection: p}
}

// requireFuture validates that an interval is well-formed and starts in
// the future.
func requireFuture(iv models.Interval, now time.Time, field string) error {
	if err := iv.Validate(); err != nil {
		return &ValidationError{Field: field, Message: err.Error()}
	}
	if !iv.Start.After(now) {
		return NewValidationError(field, fmt.Sprintf("start %s must be in the future", iv.Start.Format(time.RFC3339)))
	}
	return nil
}
