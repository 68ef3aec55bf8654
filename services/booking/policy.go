package booking

import (
	"time"

	"bondigoo/models"
)

// Policy violation reason codes surfaced to callers.
const (
	ReasonInsideCancelWindow     = "inside_cancel_notice_window"
	ReasonInsideRescheduleWindow = "inside_reschedule_notice_window"
	ReasonSessionStarted         = "session_already_started"
)

// PolicyEngine is the cancellation/reschedule policy collaborator,
// consulted before cancel and reschedule transitions are allowed.
type PolicyEngine interface {
	ApplicablePolicy(b *models.BookingRecord) models.PolicyDocument
	RefundDetails(b *models.BookingRecord, policy models.PolicyDocument, now time.Time) models.RefundDetails
	RescheduleEligibility(b *models.BookingRecord, policy models.PolicyDocument, now time.Time) models.RescheduleEligibility
}

// DefaultPolicyEngine evaluates the policy snapshot carried on the
// booking, falling back to configured defaults when the record predates
// policy snapshots.
type DefaultPolicyEngine struct {
	Defaults models.PolicyDocument
}

func (e *DefaultPolicyEngine) ApplicablePolicy(b *models.BookingRecord) models.PolicyDocument {
	if b.CancellationPolicySnapshot != nil {
		return *b.CancellationPolicySnapshot
	}
	return e.Defaults
}

// RefundDetails resolves whether the booking may be cancelled now and
// how much of the captured amount comes back. Coach and admin
// cancellations bypass this check at the call site; the notice window
// binds the client only.
func (e *DefaultPolicyEngine) RefundDetails(b *models.BookingRecord, policy models.PolicyDocument, now time.Time) models.RefundDetails {
	if !now.Before(b.Start) {
		return models.RefundDetails{CanCancel: false, ReasonCode: ReasonSessionStarted}
	}
	notice := b.Start.Sub(now)
	if notice < time.Duration(policy.MinCancelNoticeHours)*time.Hour {
		return models.RefundDetails{CanCancel: false, ReasonCode: ReasonInsideCancelWindow}
	}

	captured := 0.0
	if b.Payment.Status == models.PaymentCaptured {
		captured = b.Price.Amount
	}
	if notice >= time.Duration(policy.FullRefundNoticeHours)*time.Hour {
		return models.RefundDetails{CanCancel: true, RefundAmount: captured}
	}
	return models.RefundDetails{CanCancel: true, RefundAmount: captured * policy.PartialRefundRate}
}

func (e *DefaultPolicyEngine) RescheduleEligibility(b *models.BookingRecord, policy models.PolicyDocument, now time.Time) models.RescheduleEligibility {
	if !now.Before(b.Start) {
		return models.RescheduleEligibility{CanReschedule: false, ReasonCode: ReasonSessionStarted}
	}
	if b.Start.Sub(now) < time.Duration(policy.MinRescheduleNoticeHours)*time.Hour {
		return models.RescheduleEligibility{CanReschedule: false, ReasonCode: ReasonInsideRescheduleWindow}
	}
	return models.RescheduleEligibility{CanReschedule: true}
}
