package booking

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	calendarRepo "bondigoo/database/repository/calendar"
	"bondigoo/models"
)

// CreateAvailability publishes an open window on the coach's calendar.
// The record is immediately confirmed; it is not a "real" booking state.
func (se *DefaultLifecycleEngine) CreateAvailability(ctx context.Context, req models.CreateAvailabilityRequest) (*models.BookingResponse, error) {
	now := time.Now().UTC()
	iv := models.NewInterval(req.Start, req.End)
	if err := requireFuture(iv, now, "availability"); err != nil {
		return nil, err
	}

	record := &models.BookingRecord{
		ID:             uuid.New().String(),
		CoachID:        req.CoachID,
		SessionTypeID:  req.SessionTypeID,
		IsAvailability: true,
		BookingKind:    models.KindAvailability,
		Timezone:       req.Timezone,
		Status:         InitialStatus(true, false, models.KindAvailability, 0),

		OvertimePolicy:         req.OvertimePolicy,
		InstantBookingEligible: req.InstantBookingEligible,
		FirmBookingThreshold:   req.FirmBookingThreshold,
		RecurrencePattern:      req.RecurrencePattern,

		CreatedAt: now,
		UpdatedAt: now,
	}
	record.SetInterval(iv)
	policy := se.Policy.ApplicablePolicy(record)
	record.CancellationPolicySnapshot = &policy

	err := se.runUnit(ctx, func(ctx context.Context) error {
		existing, err := se.Calendar.ListCalendar(ctx, req.CoachID, iv.Start, iv.End)
		if err != nil {
			return err
		}
		for _, r := range existing {
			if r.IsAvailability && r.Interval().Overlaps(iv) {
				return &SlotConflictError{CoachID: req.CoachID, Interval: iv,
					Message: "window overlaps published availability " + r.ID}
			}
		}
		return se.Calendar.InsertBooking(ctx, record)
	})
	if err != nil {
		return nil, err
	}

	se.bumpCalendarVersion(ctx, req.CoachID)
	se.Logger.Info("availability published",
		zap.String("coachId", req.CoachID),
		zap.String("availabilityId", record.ID))
	return respond(record, nil), nil
}

// RestructureAvailability replaces an untouched availability window
// wholesale. The one legitimate hard delete outside carving.
func (se *DefaultLifecycleEngine) RestructureAvailability(ctx context.Context, availabilityID string, req models.CreateAvailabilityRequest) (*models.BookingResponse, error) {
	now := time.Now().UTC()
	iv := models.NewInterval(req.Start, req.End)
	if err := requireFuture(iv, now, "availability"); err != nil {
		return nil, err
	}

	replacement := &models.BookingRecord{
		ID:             uuid.New().String(),
		CoachID:        req.CoachID,
		SessionTypeID:  req.SessionTypeID,
		IsAvailability: true,
		BookingKind:    models.KindAvailability,
		Timezone:       req.Timezone,
		Status:         models.StatusConfirmed,

		OvertimePolicy:         req.OvertimePolicy,
		InstantBookingEligible: req.InstantBookingEligible,
		FirmBookingThreshold:   req.FirmBookingThreshold,
		RecurrencePattern:      req.RecurrencePattern,

		CreatedAt: now,
		UpdatedAt: now,
	}
	replacement.SetInterval(iv)
	policy := se.Policy.ApplicablePolicy(replacement)
	replacement.CancellationPolicySnapshot = &policy

	err := se.runUnit(ctx, func(ctx context.Context) error {
		current, err := se.Calendar.GetBooking(ctx, availabilityID)
		if err != nil {
			return err
		}
		if !current.IsAvailability {
			return NewValidationError("availabilityId", "record is not an availability window")
		}
		if current.CoachID != req.CoachID {
			return NewValidationError("coachId", "availability belongs to a different coach")
		}
		if err := se.Calendar.DeleteAvailability(ctx, current.ID, current.Version); err != nil {
			return err
		}
		return se.Calendar.InsertBooking(ctx, replacement)
	})
	if err != nil {
		return nil, err
	}

	se.bumpCalendarVersion(ctx, req.CoachID)
	return respond(replacement, nil), nil
}

// CreateBooking converts part of an availability window into a booking.
// The interval is carved out of its containing availability record in
// the same transaction the booking is inserted in; carried attributes
// and the policy snapshot propagate from the window onto the booking.
func (se *DefaultLifecycleEngine) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.BookingResponse, error) {
	now := time.Now().UTC()
	iv := models.NewInterval(req.Start, req.End)
	if err := requireFuture(iv, now, "booking"); err != nil {
		return nil, err
	}
	if req.UserID == "" && len(req.Attendees) == 0 {
		return nil, NewValidationError("userId", "a booking needs a principal client or attendees")
	}

	price, err := se.Pricing.PriceSession(ctx, req.CoachID, req.SessionTypeID, iv, req.UserID, req.DiscountCode)
	if err != nil {
		return nil, &ValidationError{Field: "price", Message: err.Error()}
	}

	var booking *models.BookingRecord
	var projection *models.SessionProjection

	err = se.runUnit(ctx, func(ctx context.Context) error {
		overlapping, err := se.Calendar.FindOverlapping(ctx, req.CoachID, iv, "")
		if err != nil {
			return err
		}
		if len(overlapping) > 0 {
			return &SlotConflictError{CoachID: req.CoachID, Interval: iv,
				Message: "interval overlaps booking " + overlapping[0].ID}
		}

		booking = &models.BookingRecord{
			ID:            uuid.New().String(),
			CoachID:       req.CoachID,
			UserID:        req.UserID,
			Attendees:     req.Attendees,
			SessionTypeID: req.SessionTypeID,
			Timezone:      req.Timezone,
			Price:         *price,
			Metadata:      models.BookingMetadata{CoachInitiated: req.CoachInitiated},
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		booking.SetInterval(iv)

		exempt := se.containmentExempt(req.CoachInitiated, req.SessionTypeID)
		instantEligible := false
		if exempt {
			booking.BookingKind = models.KindRequest
			if req.CoachInitiated {
				booking.BookingKind = models.KindFirm
			}
			policy := se.Policy.ApplicablePolicy(booking)
			booking.CancellationPolicySnapshot = &policy
		} else {
			avail, err := se.Calendar.FindAvailabilityContaining(ctx, req.CoachID, iv)
			if err != nil {
				if errors.Is(err, calendarRepo.ErrNotFound) {
					return &SlotConflictError{CoachID: req.CoachID, Interval: iv,
						Message: "interval not covered by published availability"}
				}
				return err
			}

			remainders, err := Carve(avail, iv, now)
			if err != nil {
				return err
			}
			if err := se.Calendar.DeleteAvailability(ctx, avail.ID, avail.Version); err != nil {
				return err
			}
			for _, r := range remainders {
				if err := se.Calendar.InsertBooking(ctx, r); err != nil {
					return err
				}
			}

			booking.OvertimePolicy = avail.OvertimePolicy
			booking.InstantBookingEligible = avail.InstantBookingEligible
			booking.FirmBookingThreshold = avail.FirmBookingThreshold
			booking.RecurrencePattern = avail.RecurrencePattern
			booking.CancellationPolicySnapshot = avail.CancellationPolicySnapshot
			booking.Metadata.OriginalAvailabilityID = avail.ID

			booking.BookingKind = models.KindRequest
			if avail.FirmBookingThreshold > 0 && price.Amount >= avail.FirmBookingThreshold {
				booking.BookingKind = models.KindFirm
			}
			instantEligible = avail.InstantBookingEligible
		}

		booking.Status = InitialStatus(false, req.CoachInitiated, booking.BookingKind, price.Amount)
		if booking.Status == models.StatusRequested && instantEligible {
			booking.Status = models.StatusConfirmed
		}

		if err := se.Calendar.InsertBooking(ctx, booking); err != nil {
			return err
		}
		projection, err = se.syncProjection(ctx, booking, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	se.bumpCalendarVersion(ctx, req.CoachID)

	if booking.Status == models.StatusPendingPayment {
		intentID, gwErr := se.Gateway.CreateIntent(ctx, price.Amount, price.Currency, booking.ID)
		if gwErr != nil {
			// Calendar state stands; the intent is retried out of band.
			se.Logger.Error("payment intent creation failed", zap.String("bookingId", booking.ID), zap.Error(gwErr))
			se.markPaymentState(ctx, booking.ID, func(p *models.PaymentInfo) {
				p.Status = models.PaymentIntentFailed
			})
			booking.Payment.Status = models.PaymentIntentFailed
		} else {
			se.markPaymentState(ctx, booking.ID, func(p *models.PaymentInfo) {
				p.Status = models.PaymentIntentPending
				p.IntentID = intentID
			})
			booking.Payment.Status = models.PaymentIntentPending
			booking.Payment.IntentID = intentID
		}
	}

	event := "booking_requested"
	if booking.Status == models.StatusConfirmed {
		event = "booking_confirmed"
		se.scheduleReminder(ctx, booking)
	}
	se.notifyAsync(booking, event)

	return respond(booking, projection), nil
}
