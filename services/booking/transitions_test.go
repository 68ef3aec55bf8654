package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bondigoo/models"
)

func TestTerminalStatesHaveNoExits(t *testing.T) {
	terminal := []models.BookingStatus{
		models.StatusDeclined,
		models.StatusCancelledClient,
		models.StatusCancelledCoach,
		models.StatusCancelledAdmin,
		models.StatusCompleted,
		models.StatusNoShow,
	}
	for _, from := range terminal {
		assert.True(t, from.IsTerminal(), "%s should be terminal", from)
		assert.Empty(t, allowedTransitions[from], "%s must have no outgoing transitions", from)
	}
}

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to models.BookingStatus
		allowed  bool
	}{
		{models.StatusRequested, models.StatusConfirmed, true},
		{models.StatusRequested, models.StatusDeclined, true},
		{models.StatusRequested, models.StatusTimeSuggested, true},
		{models.StatusRequested, models.StatusCancelledCoach, false},
		{models.StatusPendingPayment, models.StatusConfirmed, true},
		{models.StatusConfirmed, models.StatusRequested, false},
		{models.StatusConfirmed, models.StatusScheduled, true},
		{models.StatusConfirmed, models.StatusPendingResClient, true},
		{models.StatusConfirmed, models.StatusPendingResCoach, true},
		{models.StatusTimeSuggested, models.StatusConfirmed, true},
		{models.StatusTimeSuggested, models.StatusScheduled, false},
		// Counter-proposals bounce the pending state between the parties.
		{models.StatusPendingResClient, models.StatusPendingResCoach, true},
		{models.StatusPendingResCoach, models.StatusPendingResClient, true},
		{models.StatusPendingResClient, models.StatusConfirmed, true},
		{models.StatusScheduled, models.StatusCompleted, true},
		{models.StatusScheduled, models.StatusNoShow, true},
		{models.StatusScheduled, models.StatusCancelledClient, false},
		{models.StatusCompleted, models.StatusConfirmed, false},
		{models.StatusNoShow, models.StatusConfirmed, false},
		{models.StatusCancelledClient, models.StatusRequested, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, CanTransition(tc.from, tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestEveryTransitionTargetIsKnown(t *testing.T) {
	known := map[models.BookingStatus]bool{
		models.StatusRequested: true, models.StatusPendingPayment: true,
		models.StatusConfirmed: true, models.StatusDeclined: true,
		models.StatusTimeSuggested: true, models.StatusCancelledClient: true,
		models.StatusCancelledCoach: true, models.StatusCancelledAdmin: true,
		models.StatusPendingResClient: true, models.StatusPendingResCoach: true,
		models.StatusResPendingAtt: true, models.StatusPendingMinAtt: true,
		models.StatusScheduled: true, models.StatusCompleted: true,
		models.StatusNoShow: true,
	}
	for from, targets := range allowedTransitions {
		assert.True(t, known[from], "unknown source status %s", from)
		for _, to := range targets {
			assert.True(t, known[to], "unknown target status %s", to)
		}
	}
}

func TestTransitionRejectsAndLeavesRecordUntouched(t *testing.T) {
	b := &models.BookingRecord{ID: "b1", Status: models.StatusCompleted}
	err := transition(b, models.StatusConfirmed)

	var transErr *InvalidTransitionError
	require.ErrorAs(t, err, &transErr)
	assert.Equal(t, models.StatusCompleted, transErr.From)
	assert.Equal(t, models.StatusConfirmed, transErr.To)
	assert.Equal(t, models.StatusCompleted, b.Status)
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, models.StatusConfirmed, InitialStatus(true, false, models.KindAvailability, 0))
	assert.Equal(t, models.StatusRequested, InitialStatus(false, false, models.KindRequest, 60))
	assert.Equal(t, models.StatusPendingPayment, InitialStatus(false, false, models.KindFirm, 60))
	assert.Equal(t, models.StatusConfirmed, InitialStatus(false, true, models.KindRequest, 60))
	// A firm booking with nothing to pay skips the payment gate.
	assert.Equal(t, models.StatusConfirmed, InitialStatus(false, true, models.KindFirm, 0))
}
