package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bondigoo/models"
)

func dayAt(hour int) time.Time {
	return time.Date(2026, 9, 14, hour, 0, 0, 0, time.UTC)
}

func testAvailability(start, end time.Time) *models.BookingRecord {
	a := &models.BookingRecord{
		ID:             "avail-1",
		CoachID:        "coach-1",
		SessionTypeID:  "deep-work",
		IsAvailability: true,
		BookingKind:    models.KindAvailability,
		Status:         models.StatusConfirmed,

		OvertimePolicy:         models.OvertimeDisallowed,
		InstantBookingEligible: true,
		FirmBookingThreshold:   100,
		RecurrencePattern:      "weekly",
	}
	a.SetInterval(models.Interval{Start: start, End: end})
	return a
}

func TestCarveMiddleProducesTwoRemainders(t *testing.T) {
	now := time.Now().UTC()
	avail := testAvailability(dayAt(9), dayAt(12))

	remainders, err := Carve(avail, models.Interval{Start: dayAt(10), End: dayAt(11)}, now)
	require.NoError(t, err)
	require.Len(t, remainders, 2)

	before, after := remainders[0], remainders[1]
	assert.Equal(t, dayAt(9), before.Start)
	assert.Equal(t, dayAt(10), before.End)
	assert.Equal(t, dayAt(11), after.Start)
	assert.Equal(t, dayAt(12), after.End)

	for _, r := range remainders {
		assert.NotEqual(t, avail.ID, r.ID)
		assert.True(t, r.IsAvailability)
		assert.Equal(t, 0, r.Version)
		assert.True(t, avail.CarriedAttributesEqual(r), "carried attributes must survive the split")
	}
}

func TestCarveAtWindowEdges(t *testing.T) {
	now := time.Now().UTC()

	remainders, err := Carve(testAvailability(dayAt(9), dayAt(12)), models.Interval{Start: dayAt(9), End: dayAt(10)}, now)
	require.NoError(t, err)
	require.Len(t, remainders, 1)
	assert.Equal(t, dayAt(10), remainders[0].Start)
	assert.Equal(t, dayAt(12), remainders[0].End)

	remainders, err = Carve(testAvailability(dayAt(9), dayAt(12)), models.Interval{Start: dayAt(11), End: dayAt(12)}, now)
	require.NoError(t, err)
	require.Len(t, remainders, 1)
	assert.Equal(t, dayAt(9), remainders[0].Start)
	assert.Equal(t, dayAt(11), remainders[0].End)
}

func TestCarveExactWindowLeavesNothing(t *testing.T) {
	remainders, err := Carve(testAvailability(dayAt(9), dayAt(12)), models.Interval{Start: dayAt(9), End: dayAt(12)}, time.Now().UTC())
	require.NoError(t, err)
	assert.Empty(t, remainders)
}

func TestCarveRejectsUncontainedInterval(t *testing.T) {
	_, err := Carve(testAvailability(dayAt(9), dayAt(12)), models.Interval{Start: dayAt(11), End: dayAt(13)}, time.Now().UTC())

	var conflict *SlotConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, "coach-1", conflict.CoachID)
}

func TestCarveRejectsNonAvailability(t *testing.T) {
	b := testAvailability(dayAt(9), dayAt(12))
	b.IsAvailability = false

	_, err := Carve(b, models.Interval{Start: dayAt(10), End: dayAt(11)}, time.Now().UTC())
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
}

func TestCoalesceIsCarveInverse(t *testing.T) {
	now := time.Now().UTC()
	avail := testAvailability(dayAt(9), dayAt(12))
	booked := models.Interval{Start: dayAt(10), End: dayAt(11)}

	remainders, err := Carve(avail, booked, now)
	require.NoError(t, err)
	require.Len(t, remainders, 2)

	restored, absorbed := Coalesce(booked, avail, remainders, now)
	assert.Len(t, absorbed, 2)
	assert.Equal(t, dayAt(9), restored.Start)
	assert.Equal(t, dayAt(12), restored.End)
	assert.True(t, restored.IsAvailability)
	assert.True(t, avail.CarriedAttributesEqual(restored))
}

func TestCoalesceSkipsIncompatibleNeighbors(t *testing.T) {
	now := time.Now().UTC()
	donor := testAvailability(dayAt(10), dayAt(11))

	incompatible := testAvailability(dayAt(9), dayAt(10))
	incompatible.ID = "avail-2"
	incompatible.OvertimePolicy = models.OvertimeBilled

	compatible := testAvailability(dayAt(11), dayAt(12))
	compatible.ID = "avail-3"

	restored, absorbed := Coalesce(models.Interval{Start: dayAt(10), End: dayAt(11)}, donor,
		[]*models.BookingRecord{incompatible, compatible}, now)

	assert.Equal(t, []string{"avail-3"}, absorbed)
	assert.Equal(t, dayAt(10), restored.Start)
	assert.Equal(t, dayAt(12), restored.End)
}

func TestCoalesceSkipsNonAdjacentAndForeignRecords(t *testing.T) {
	now := time.Now().UTC()
	donor := testAvailability(dayAt(10), dayAt(11))

	gap := testAvailability(dayAt(12), dayAt(13))
	gap.ID = "avail-2"

	otherCoach := testAvailability(dayAt(11), dayAt(12))
	otherCoach.ID = "avail-3"
	otherCoach.CoachID = "coach-2"

	restored, absorbed := Coalesce(models.Interval{Start: dayAt(10), End: dayAt(11)}, donor,
		[]*models.BookingRecord{gap, otherCoach}, now)

	assert.Empty(t, absorbed)
	assert.Equal(t, dayAt(10), restored.Start)
	assert.Equal(t, dayAt(11), restored.End)
}
