package booking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	calendarRepo "bondigoo/database/repository/calendar"
	"bondigoo/models"
)

func TestRetryPolicyRerunsTransientConflicts(t *testing.T) {
	policy := calendarRepo.RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}

	calls := 0
	attempts, err := policy.Run(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return calendarRepo.ErrVersionConflict
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestRetryPolicyStopsOnPermanentError(t *testing.T) {
	policy := calendarRepo.RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}
	boom := errors.New("malformed filter")

	calls := 0
	attempts, err := policy.Run(context.Background(), func(ctx context.Context) error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, calls)
}

func TestRetryPolicyExhaustionKeepsLastError(t *testing.T) {
	policy := calendarRepo.RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond}

	calls := 0
	attempts, err := policy.Run(context.Background(), func(ctx context.Context) error {
		calls++
		return calendarRepo.ErrVersionConflict
	})
	require.ErrorIs(t, err, calendarRepo.ErrVersionConflict)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, calls)
}

func TestIsTransientClassification(t *testing.T) {
	cases := []struct {
		name      string
		err       error
		transient bool
	}{
		{"version conflict", calendarRepo.ErrVersionConflict, true},
		{"transient txn label", mongo.CommandError{Labels: []string{"TransientTransactionError"}}, true},
		{"unknown commit label", mongo.CommandError{Labels: []string{"UnknownTransactionCommitResult"}}, true},
		{"write conflict name", mongo.CommandError{Name: "WriteConflict"}, true},
		{"other command error", mongo.CommandError{Name: "BadValue"}, false},
		{"plain error", errors.New("boom"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.transient, calendarRepo.IsTransient(tc.err))
		})
	}
}

func TestUnitRerunsAfterCommitConflict(t *testing.T) {
	f := newFixture(t)
	f.publishAvailability(t, 9, 12, nil)
	b := f.book(t, 10, 11)

	f.calendar.commitConflicts = 2
	resp, err := f.engine.AcceptBooking(context.Background(), b.ID, models.ActorCoach)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, resp.Booking.Status)
	assert.Equal(t, 0, f.calendar.commitConflicts)

	stored := f.calendar.records[b.ID]
	assert.Equal(t, models.StatusConfirmed, stored.Status)
}

func TestUnitExhaustionSurfacesTransientConflict(t *testing.T) {
	f := newFixture(t)
	f.publishAvailability(t, 9, 12, nil)
	b := f.book(t, 10, 11)

	f.calendar.commitConflicts = 5
	_, err := f.engine.AcceptBooking(context.Background(), b.ID, models.ActorCoach)

	var transient *TransientConflictError
	require.ErrorAs(t, err, &transient)
	assert.Equal(t, 3, transient.Attempts)

	// Every attempt rolled back; the booking never moved.
	assert.Equal(t, models.StatusRequested, f.calendar.records[b.ID].Status)
}

func TestContendedWindowExactlyOneCommits(t *testing.T) {
	f := newFixture(t)
	f.publishAvailability(t, 9, 12, nil)

	bookAs := func(userID string) error {
		_, err := f.engine.CreateBooking(context.Background(), models.CreateBookingRequest{
			CoachID:       "coach-1",
			UserID:        userID,
			SessionTypeID: "deep-work",
			Start:         f.at(10),
			End:           f.at(11),
		})
		return err
	}

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, user := range []string{"client-a", "client-b"} {
		wg.Add(1)
		go func(i int, user string) {
			defer wg.Done()
			errs[i] = bookAs(user)
		}(i, user)
	}
	wg.Wait()

	var conflicts, commits int
	for _, err := range errs {
		if err == nil {
			commits++
			continue
		}
		var conflict *SlotConflictError
		require.ErrorAs(t, err, &conflict)
		conflicts++
	}
	assert.Equal(t, 1, commits)
	assert.Equal(t, 1, conflicts)

	window := models.Interval{Start: f.at(10), End: f.at(11)}
	var claimed int
	for _, r := range f.calendar.records {
		if !r.IsAvailability && !r.Status.IsTerminal() && r.Interval().Overlaps(window) {
			claimed++
		}
	}
	assert.Equal(t, 1, claimed)
}

func TestConcurrentCancelAndRebook(t *testing.T) {
	f := newFixture(t)
	f.publishAvailability(t, 9, 12, nil)
	b := f.book(t, 10, 11)
	_, err := f.engine.AcceptBooking(context.Background(), b.ID, models.ActorCoach)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var cancelErr, rebookErr error
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, cancelErr = f.engine.Cancel(context.Background(), b.ID, models.ActorClient)
	}()
	go func() {
		defer wg.Done()
		_, rebookErr = f.engine.CreateBooking(context.Background(), models.CreateBookingRequest{
			CoachID:       "coach-1",
			UserID:        "client-2",
			SessionTypeID: "deep-work",
			Start:         f.at(10),
			End:           f.at(11),
		})
	}()
	wg.Wait()

	require.NoError(t, cancelErr)

	window := models.Interval{Start: f.at(10), End: f.at(11)}
	var active []*models.BookingRecord
	for _, r := range f.calendar.records {
		if !r.IsAvailability && !r.Status.IsTerminal() && r.Interval().Overlaps(window) {
			active = append(active, r)
		}
	}

	if rebookErr != nil {
		// Rebook ran before the cancellation freed the slot.
		var conflict *SlotConflictError
		require.ErrorAs(t, rebookErr, &conflict)
		assert.Empty(t, active)
	} else {
		require.Len(t, active, 1)
		assert.Equal(t, "client-2", active[0].UserID)
	}
}
