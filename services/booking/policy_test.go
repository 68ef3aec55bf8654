package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bondigoo/models"
)

var testPolicy = models.PolicyDocument{
	MinCancelNoticeHours:     12,
	MinRescheduleNoticeHours: 12,
	FullRefundNoticeHours:    48,
	PartialRefundRate:        0.5,
}

func paidBooking(start time.Time) *models.BookingRecord {
	b := &models.BookingRecord{
		ID:      "b1",
		CoachID: "coach-1",
		Status:  models.StatusConfirmed,
		Price:   models.PriceSnapshot{Amount: 80, Currency: "USD"},
		Payment: models.PaymentInfo{Status: models.PaymentCaptured, IntentID: "pi_1"},
	}
	b.SetInterval(models.Interval{Start: start, End: start.Add(time.Hour)})
	return b
}

func TestRefundDetailsFullRefundOutsideNoticeWindow(t *testing.T) {
	engine := &DefaultPolicyEngine{Defaults: testPolicy}
	now := time.Now().UTC()
	b := paidBooking(now.Add(72 * time.Hour))

	refund := engine.RefundDetails(b, testPolicy, now)
	assert.True(t, refund.CanCancel)
	assert.Equal(t, 80.0, refund.RefundAmount)
}

func TestRefundDetailsPartialRefundInsideFullWindow(t *testing.T) {
	engine := &DefaultPolicyEngine{Defaults: testPolicy}
	now := time.Now().UTC()
	b := paidBooking(now.Add(24 * time.Hour))

	refund := engine.RefundDetails(b, testPolicy, now)
	assert.True(t, refund.CanCancel)
	assert.Equal(t, 40.0, refund.RefundAmount)
}

func TestRefundDetailsRejectsInsideCancelNotice(t *testing.T) {
	engine := &DefaultPolicyEngine{Defaults: testPolicy}
	now := time.Now().UTC()
	b := paidBooking(now.Add(6 * time.Hour))

	refund := engine.RefundDetails(b, testPolicy, now)
	assert.False(t, refund.CanCancel)
	assert.Equal(t, ReasonInsideCancelWindow, refund.ReasonCode)
}

func TestRefundDetailsRejectsStartedSession(t *testing.T) {
	engine := &DefaultPolicyEngine{Defaults: testPolicy}
	now := time.Now().UTC()
	b := paidBooking(now.Add(-time.Minute))

	refund := engine.RefundDetails(b, testPolicy, now)
	assert.False(t, refund.CanCancel)
	assert.Equal(t, ReasonSessionStarted, refund.ReasonCode)
}

func TestRefundDetailsNothingCapturedNothingRefunded(t *testing.T) {
	engine := &DefaultPolicyEngine{Defaults: testPolicy}
	now := time.Now().UTC()
	b := paidBooking(now.Add(72 * time.Hour))
	b.Payment.Status = models.PaymentIntentPending

	refund := engine.RefundDetails(b, testPolicy, now)
	assert.True(t, refund.CanCancel)
	assert.Zero(t, refund.RefundAmount)
}

func TestRescheduleEligibility(t *testing.T) {
	engine := &DefaultPolicyEngine{Defaults: testPolicy}
	now := time.Now().UTC()

	ok := engine.RescheduleEligibility(paidBooking(now.Add(24*time.Hour)), testPolicy, now)
	assert.True(t, ok.CanReschedule)

	late := engine.RescheduleEligibility(paidBooking(now.Add(3*time.Hour)), testPolicy, now)
	assert.False(t, late.CanReschedule)
	assert.Equal(t, ReasonInsideRescheduleWindow, late.ReasonCode)

	started := engine.RescheduleEligibility(paidBooking(now.Add(-time.Hour)), testPolicy, now)
	assert.False(t, started.CanReschedule)
	assert.Equal(t, ReasonSessionStarted, started.ReasonCode)
}

func TestApplicablePolicyPrefersSnapshot(t *testing.T) {
	engine := &DefaultPolicyEngine{Defaults: testPolicy}

	b := paidBooking(time.Now().UTC().Add(24 * time.Hour))
	assert.Equal(t, testPolicy, engine.ApplicablePolicy(b))

	snapshot := models.PolicyDocument{MinCancelNoticeHours: 2, FullRefundNoticeHours: 4, PartialRefundRate: 0.9}
	b.CancellationPolicySnapshot = &snapshot
	assert.Equal(t, snapshot, engine.ApplicablePolicy(b))
}
