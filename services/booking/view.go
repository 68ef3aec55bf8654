package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"bondigoo/models"
)

const calendarCacheTTL = 5 * time.Minute

// GetBooking returns the record with its reschedule log mirrored on, and
// the session projection where one exists.
func (se *DefaultLifecycleEngine) GetBooking(ctx context.Context, bookingID string) (*models.BookingResponse, error) {
	b, err := se.Calendar.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !b.IsAvailability {
		if err := se.attachRescheduleView(ctx, b); err != nil {
			return nil, err
		}
	}
	p, err := se.Sessions.Get(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	return respond(b, p), nil
}

// ListCalendar returns every record of the coach intersecting the
// window, served from the redis view cache when a mutation has not
// bumped it since.
func (se *DefaultLifecycleEngine) ListCalendar(ctx context.Context, coachID string, from, to time.Time) ([]*models.BookingRecord, error) {
	if !from.Before(to) {
		return nil, NewValidationError("range", "from must be before to")
	}

	key := se.calendarCacheKey(ctx, coachID, from, to)
	if key != "" {
		if cached, err := se.Cache.Get(ctx, key).Result(); err == nil {
			var records []*models.BookingRecord
			if err := json.Unmarshal([]byte(cached), &records); err == nil {
				return records, nil
			}
		}
	}

	records, err := se.Calendar.ListCalendar(ctx, coachID, from.UTC(), to.UTC())
	if err != nil {
		return nil, err
	}

	if key != "" {
		if data, err := json.Marshal(records); err == nil {
			if err := se.Cache.Set(ctx, key, data, calendarCacheTTL).Err(); err != nil {
				se.Logger.Debug("calendar view cache write failed", zap.Error(err))
			}
		}
	}
	return records, nil
}

// calendarCacheKey embeds the coach's mutation version so stale entries
// are orphaned rather than explicitly deleted. Empty when caching is
// disabled or redis is unreachable.
func (se *DefaultLifecycleEngine) calendarCacheKey(ctx context.Context, coachID string, from, to time.Time) string {
	if se.Cache == nil {
		return ""
	}
	ver, err := se.Cache.Get(ctx, calendarVersionPrefix+coachID).Result()
	if err != nil {
		ver = "0"
	}
	return fmt.Sprintf("calendar:%s:%s:%d:%d", coachID, ver, from.UTC().Unix(), to.UTC().Unix())
}
