package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bondigoo/models"
)

// updateBooking is the shared mutation shell: load, apply, version-write
// and projection-sync inside one transaction.
func (se *DefaultLifecycleEngine) updateBooking(ctx context.Context, bookingID string, fn func(ctx context.Context, b *models.BookingRecord) error) (*models.BookingRecord, *models.SessionProjection, error) {
	var booking *models.BookingRecord
	var projection *models.SessionProjection
	now := time.Now().UTC()

	err := se.runUnit(ctx, func(ctx context.Context) error {
		b, err := se.Calendar.GetBooking(ctx, bookingID)
		if err != nil {
			return err
		}
		if b.IsAvailability {
			return NewValidationError("bookingId", "record is an availability window, not a booking")
		}
		if err := fn(ctx, b); err != nil {
			return err
		}
		if err := se.Calendar.ReplaceBooking(ctx, b); err != nil {
			return err
		}
		p, err := se.syncProjection(ctx, b, now)
		if err != nil {
			return err
		}
		booking, projection = b, p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return booking, projection, nil
}

// restoreInterval coalesces a booking's interval back into availability.
// No-op for bookings that were never carved from a window (containment
// exempt). Runs inside the caller's transaction.
func (se *DefaultLifecycleEngine) restoreInterval(ctx context.Context, b *models.BookingRecord, now time.Time) error {
	if b.Metadata.OriginalAvailabilityID == "" {
		return nil
	}
	freed := b.Interval()
	neighbors, err := se.Calendar.FindAdjacentAvailability(ctx, b.CoachID, freed)
	if err != nil {
		return err
	}
	restored, absorbedIDs := Coalesce(freed, b, neighbors, now)
	absorbed := make(map[string]bool, len(absorbedIDs))
	for _, id := range absorbedIDs {
		absorbed[id] = true
	}
	for _, n := range neighbors {
		if !absorbed[n.ID] {
			continue
		}
		if err := se.Calendar.DeleteAvailability(ctx, n.ID, n.Version); err != nil {
			return err
		}
	}
	return se.Calendar.InsertBooking(ctx, restored)
}

// AcceptBooking confirms a requested (or time-suggested) booking.
func (se *DefaultLifecycleEngine) AcceptBooking(ctx context.Context, bookingID string, actor models.Actor) (*models.BookingResponse, error) {
	b, p, err := se.updateBooking(ctx, bookingID, func(ctx context.Context, b *models.BookingRecord) error {
		return transition(b, models.StatusConfirmed)
	})
	if err != nil {
		return nil, err
	}

	se.bumpCalendarVersion(ctx, b.CoachID)
	se.scheduleReminder(ctx, b)
	se.notifyAsync(b, "booking_confirmed")
	se.Logger.Info("booking accepted",
		zap.String("bookingId", b.ID), zap.String("actor", string(actor)))
	return respond(b, p), nil
}

// DeclineBooking rejects a requested booking and coalesces its reserved
// interval back into availability.
func (se *DefaultLifecycleEngine) DeclineBooking(ctx context.Context, bookingID string) (*models.BookingResponse, error) {
	now := time.Now().UTC()
	b, p, err := se.updateBooking(ctx, bookingID, func(ctx context.Context, b *models.BookingRecord) error {
		if err := transition(b, models.StatusDeclined); err != nil {
			return err
		}
		return se.restoreInterval(ctx, b, now)
	})
	if err != nil {
		return nil, err
	}

	se.bumpCalendarVersion(ctx, b.CoachID)
	if b.Payment.Status == models.PaymentIntentPending && b.Payment.IntentID != "" {
		se.voidIntent(ctx, b)
	}
	se.notifyAsync(b, "booking_declined")
	return respond(b, p), nil
}

// SuggestAlternative moves a requested booking to time_suggested and
// records the coach's candidate slots as a pending reschedule offer. The
// reserved interval stays occupied until the client settles on a time or
// cancels.
func (se *DefaultLifecycleEngine) SuggestAlternative(ctx context.Context, bookingID string, slots []models.Interval, message string) (*models.BookingResponse, error) {
	now := time.Now().UTC()
	if len(slots) == 0 {
		return nil, NewValidationError("slots", "at least one candidate interval is required")
	}
	for _, s := range slots {
		if err := requireFuture(s, now, "slots"); err != nil {
			return nil, err
		}
	}

	var request *models.RescheduleRequest
	b, p, err := se.updateBooking(ctx, bookingID, func(ctx context.Context, b *models.BookingRecord) error {
		if err := transition(b, models.StatusTimeSuggested); err != nil {
			return err
		}
		pending, err := se.Reschedules.FindPendingByBooking(ctx, b.ID)
		if err != nil {
			return err
		}
		if pending != nil {
			return NewValidationError("bookingId", "a pending reschedule request already exists")
		}
		request = &models.RescheduleRequest{
			ID:            uuid.New().String(),
			BookingID:     b.ID,
			ProposedBy:    models.ActorCoach,
			ProposedSlots: slots,
			Message:       message,
			Status:        models.ReschedulePendingClient,
			CreatedAt:     now,
		}
		return se.Reschedules.AppendRequest(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	b.RescheduleRequests = []models.RescheduleRequest{*request}
	se.notifyAsync(b, "time_suggested")
	return respond(b, p), nil
}

// ConfirmPayment moves a pending_payment booking to confirmed once the
// gateway reports capture. Races with a concurrent decline or cancel
// surface as InvalidTransition; the payment then reconciles out of band.
func (se *DefaultLifecycleEngine) ConfirmPayment(ctx context.Context, bookingID, intentID string) (*models.BookingResponse, error) {
	b, p, err := se.updateBooking(ctx, bookingID, func(ctx context.Context, b *models.BookingRecord) error {
		if b.Payment.IntentID == "" {
			return NewValidationError("intentId", "no payment intent is attached to this booking")
		}
		if b.Payment.IntentID != intentID {
			return NewValidationError("intentId", "payment intent does not match booking")
		}
		if err := transition(b, models.StatusConfirmed); err != nil {
			return err
		}
		b.Payment.Status = models.PaymentCaptured
		b.Payment.UpdatedAt = time.Now().UTC()
		return nil
	})
	if err != nil {
		return nil, err
	}

	se.bumpCalendarVersion(ctx, b.CoachID)
	se.scheduleReminder(ctx, b)
	se.notifyAsync(b, "payment_confirmed")
	return respond(b, p), nil
}

// cancelTarget maps the cancelling actor to the terminal status.
func cancelTarget(actor models.Actor) (models.BookingStatus, error) {
	switch actor {
	case models.ActorClient:
		return models.StatusCancelledClient, nil
	case models.ActorCoach:
		return models.StatusCancelledCoach, nil
	case models.ActorAdmin:
		return models.StatusCancelledAdmin, nil
	}
	return "", NewValidationError("actor", "unknown cancelling actor")
}

// Cancel ends a booking, coalesces its interval back into availability
// and computes refund eligibility. The notice-window policy binds the
// client; coach and admin cancellations always refund the captured
// amount in full. The gateway refund itself is issued only after the
// calendar transaction commits.
func (se *DefaultLifecycleEngine) Cancel(ctx context.Context, bookingID string, actor models.Actor) (*models.BookingResponse, error) {
	now := time.Now().UTC()
	target, err := cancelTarget(actor)
	if err != nil {
		return nil, err
	}

	b, p, err := se.updateBooking(ctx, bookingID, func(ctx context.Context, b *models.BookingRecord) error {
		policy := se.Policy.ApplicablePolicy(b)
		refund := se.Policy.RefundDetails(b, policy, now)
		if actor == models.ActorClient && !refund.CanCancel {
			return &PolicyViolationError{BookingID: b.ID, ReasonCode: refund.ReasonCode}
		}
		if actor != models.ActorClient && b.Payment.Status == models.PaymentCaptured {
			refund.RefundAmount = b.Price.Amount
		}
		if err := transition(b, target); err != nil {
			return err
		}
		b.Payment.RefundAmount = refund.RefundAmount
		return se.restoreInterval(ctx, b, now)
	})
	if err != nil {
		return nil, err
	}

	se.bumpCalendarVersion(ctx, b.CoachID)
	se.settlePayment(ctx, b)
	se.notifyAsync(b, "booking_cancelled")
	se.Logger.Info("booking cancelled",
		zap.String("bookingId", b.ID),
		zap.String("actor", string(actor)),
		zap.Float64("refund", b.Payment.RefundAmount))
	return respond(b, p), nil
}

// settlePayment issues the post-commit gateway call owed by a
// cancellation or decline: refund a captured payment, void a pending
// intent. Gateway failure marks the payment sub-state and stops there.
func (se *DefaultLifecycleEngine) settlePayment(ctx context.Context, b *models.BookingRecord) {
	switch b.Payment.Status {
	case models.PaymentCaptured:
		if b.Payment.RefundAmount <= 0 {
			return
		}
		refundID, err := se.Gateway.Refund(ctx, b.Payment.IntentID, b.Payment.RefundAmount, b.Price.Currency)
		if err != nil {
			se.Logger.Error("refund failed", zap.String("bookingId", b.ID), zap.Error(err))
			se.markPaymentState(ctx, b.ID, func(p *models.PaymentInfo) {
				p.Status = models.PaymentRefundFailed
			})
			return
		}
		se.markPaymentState(ctx, b.ID, func(p *models.PaymentInfo) {
			p.Status = models.PaymentRefunded
			p.RefundID = refundID
		})
	case models.PaymentIntentPending:
		se.voidIntent(ctx, b)
	}
}

func (se *DefaultLifecycleEngine) voidIntent(ctx context.Context, b *models.BookingRecord) {
	if b.Payment.IntentID == "" {
		return
	}
	if err := se.Gateway.CancelIntent(ctx, b.Payment.IntentID); err != nil {
		se.Logger.Error("intent cancellation failed", zap.String("bookingId", b.ID), zap.Error(err))
		se.markPaymentState(ctx, b.ID, func(p *models.PaymentInfo) {
			p.Status = models.PaymentCancelFailed
		})
		return
	}
	se.markPaymentState(ctx, b.ID, func(p *models.PaymentInfo) {
		p.Status = models.PaymentIntentCanceled
	})
}

// StartSession marks a confirmed booking as in progress for live-session
// tooling.
func (se *DefaultLifecycleEngine) StartSession(ctx context.Context, bookingID string) (*models.BookingResponse, error) {
	b, p, err := se.updateBooking(ctx, bookingID, func(ctx context.Context, b *models.BookingRecord) error {
		return transition(b, models.StatusScheduled)
	})
	if err != nil {
		return nil, err
	}
	return respond(b, p), nil
}

// CompleteSession closes out a held session.
func (se *DefaultLifecycleEngine) CompleteSession(ctx context.Context, bookingID string) (*models.BookingResponse, error) {
	b, p, err := se.updateBooking(ctx, bookingID, func(ctx context.Context, b *models.BookingRecord) error {
		return transition(b, models.StatusCompleted)
	})
	if err != nil {
		return nil, err
	}
	se.notifyAsync(b, "session_completed")
	return respond(b, p), nil
}

// MarkNoShow records that the client did not attend.
func (se *DefaultLifecycleEngine) MarkNoShow(ctx context.Context, bookingID string) (*models.BookingResponse, error) {
	b, p, err := se.updateBooking(ctx, bookingID, func(ctx context.Context, b *models.BookingRecord) error {
		return transition(b, models.StatusNoShow)
	})
	if err != nil {
		return nil, err
	}
	se.notifyAsync(b, "session_no_show")
	return respond(b, p), nil
}
