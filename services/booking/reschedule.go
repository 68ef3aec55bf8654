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

// CheckRescheduleEligibility reports whether the booking may enter the
// reschedule protocol right now.
func (se *DefaultLifecycleEngine) CheckRescheduleEligibility(ctx context.Context, bookingID string) (models.RescheduleEligibility, error) {
	b, err := se.Calendar.GetBooking(ctx, bookingID)
	if err != nil {
		return models.RescheduleEligibility{}, err
	}
	policy := se.Policy.ApplicablePolicy(b)
	return se.Policy.RescheduleEligibility(b, policy, time.Now().UTC()), nil
}

// pendingStateFor maps the proposing actor to the booking state entered
// while their request is open.
func pendingStateFor(actor models.Actor) (models.BookingStatus, models.RescheduleStatus, error) {
	switch actor {
	case models.ActorClient:
		return models.StatusPendingResClient, models.ReschedulePendingCoach, nil
	case models.ActorCoach:
		return models.StatusPendingResCoach, models.ReschedulePendingClient, nil
	}
	return "", "", NewValidationError("actor", "only client or coach may propose a reschedule")
}

// ProposeReschedule opens a reschedule request from either party.
// Calendar occupancy is untouched until the other party approves.
func (se *DefaultLifecycleEngine) ProposeReschedule(ctx context.Context, bookingID string, req models.ProposeRescheduleRequest) (*models.BookingResponse, error) {
	now := time.Now().UTC()
	pendingState, requestStatus, err := pendingStateFor(req.Actor)
	if err != nil {
		return nil, err
	}
	if len(req.ProposedSlots) == 0 {
		return nil, NewValidationError("proposedSlots", "at least one candidate interval is required")
	}
	for _, s := range req.ProposedSlots {
		if err := requireFuture(s, now, "proposedSlots"); err != nil {
			return nil, err
		}
	}

	var request *models.RescheduleRequest
	b, p, err := se.updateBooking(ctx, bookingID, func(ctx context.Context, b *models.BookingRecord) error {
		policy := se.Policy.ApplicablePolicy(b)
		eligibility := se.Policy.RescheduleEligibility(b, policy, now)
		if !eligibility.CanReschedule {
			return &PolicyViolationError{BookingID: b.ID, ReasonCode: eligibility.ReasonCode}
		}
		pending, err := se.Reschedules.FindPendingByBooking(ctx, b.ID)
		if err != nil {
			return err
		}
		if pending != nil {
			return NewValidationError("bookingId", "a pending reschedule request already exists")
		}
		if err := transition(b, pendingState); err != nil {
			return err
		}
		request = &models.RescheduleRequest{
			ID:            uuid.New().String(),
			BookingID:     b.ID,
			ProposedBy:    req.Actor,
			ProposedSlots: req.ProposedSlots,
			Message:       req.Message,
			Status:        requestStatus,
			CreatedAt:     now,
		}
		return se.Reschedules.AppendRequest(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	b.RescheduleRequests = []models.RescheduleRequest{*request}
	se.notifyAsync(b, "reschedule_proposed")
	return respond(b, p), nil
}

// recipientOf returns which actor a pending request is waiting on.
func recipientOf(status models.RescheduleStatus) models.Actor {
	if status == models.ReschedulePendingCoach {
		return models.ActorCoach
	}
	return models.ActorClient
}

// RespondToReschedule resolves a pending request: approve one candidate,
// decline, or counter-propose with the roles swapped. Approval executes
// the coalesce-old / carve-new pair atomically; if the selected
// candidate has been claimed in the meantime, the transaction aborts
// with SlotConflict and the booking stays pending for another pick.
func (se *DefaultLifecycleEngine) RespondToReschedule(ctx context.Context, bookingID string, req models.RespondRescheduleRequest) (*models.BookingResponse, error) {
	now := time.Now().UTC()

	var event string
	b, p, err := se.updateBooking(ctx, bookingID, func(ctx context.Context, b *models.BookingRecord) error {
		pending, err := se.Reschedules.FindPendingByBooking(ctx, b.ID)
		if err != nil {
			return err
		}
		if pending == nil {
			return NewValidationError("bookingId", "no pending reschedule request")
		}
		if recipientOf(pending.Status) != req.Actor {
			return NewValidationError("actor", "request is not awaiting this party")
		}

		switch req.Action {
		case models.RescheduleActionDecline:
			event = "reschedule_declined"
			return se.declineRequest(ctx, b, pending, now)
		case models.RescheduleActionCounter:
			event = "reschedule_countered"
			return se.counterRequest(ctx, b, pending, req, now)
		case models.RescheduleActionApprove:
			event = "reschedule_approved"
			return se.approveRequest(ctx, b, pending, req, now)
		}
		return NewValidationError("action", "unknown reschedule response action")
	})
	if err != nil {
		return nil, err
	}

	if err := se.attachRescheduleView(ctx, b); err != nil {
		se.Logger.Warn("failed to attach reschedule view", zap.String("bookingId", b.ID), zap.Error(err))
	}
	if event == "reschedule_approved" {
		se.bumpCalendarVersion(ctx, b.CoachID)
		se.scheduleReminder(ctx, b)
	}
	se.notifyAsync(b, event)
	return respond(b, p), nil
}

// declineRequest closes the offer; the booking keeps its original
// interval. Bookings parked in a pending reschedule state return to
// confirmed; a time-suggested booking stays put for the client to accept
// the original time or cancel.
func (se *DefaultLifecycleEngine) declineRequest(ctx context.Context, b *models.BookingRecord, pending *models.RescheduleRequest, now time.Time) error {
	if err := se.Reschedules.CloseRequest(ctx, pending.ID, models.RescheduleDeclined, now); err != nil {
		return err
	}
	if b.Status == models.StatusPendingResClient || b.Status == models.StatusPendingResCoach {
		return transition(b, models.StatusConfirmed)
	}
	return nil
}

// counterRequest swaps the roles: close the current offer and open a new
// one from the responder. The protocol is symmetric and may bounce
// indefinitely. Suggested-time offers are outside it: the booking was
// never confirmed, so the client approves a slot, declines, or cancels.
func (se *DefaultLifecycleEngine) counterRequest(ctx context.Context, b *models.BookingRecord, pending *models.RescheduleRequest, req models.RespondRescheduleRequest, now time.Time) error {
	if b.Status == models.StatusTimeSuggested {
		return NewValidationError("action", "a suggested time can be approved or declined, not countered")
	}
	if len(req.CounterSlots) == 0 {
		return NewValidationError("counterSlots", "a counter-proposal needs at least one candidate interval")
	}
	for _, s := range req.CounterSlots {
		if err := requireFuture(s, now, "counterSlots"); err != nil {
			return err
		}
	}

	closed := models.RescheduleCounteredClient
	if req.Actor == models.ActorCoach {
		closed = models.RescheduleCounteredCoach
	}
	if err := se.Reschedules.CloseRequest(ctx, pending.ID, closed, now); err != nil {
		return err
	}

	pendingState, requestStatus, err := pendingStateFor(req.Actor)
	if err != nil {
		return err
	}
	if b.Status != pendingState {
		if err := transition(b, pendingState); err != nil {
			return err
		}
	}
	counter := &models.RescheduleRequest{
		ID:            uuid.New().String(),
		BookingID:     b.ID,
		ProposedBy:    req.Actor,
		ProposedSlots: req.CounterSlots,
		Message:       req.Message,
		Status:        requestStatus,
		CreatedAt:     now,
	}
	return se.Reschedules.AppendRequest(ctx, counter)
}

// approveRequest moves the booking to the selected candidate. Program
// order inside the transaction: free the old interval, then claim the
// new one; isolation keeps third parties from grabbing the freed span
// before the claim lands.
func (se *DefaultLifecycleEngine) approveRequest(ctx context.Context, b *models.BookingRecord, pending *models.RescheduleRequest, req models.RespondRescheduleRequest, now time.Time) error {
	if req.SelectedSlot == nil {
		return NewValidationError("selectedSlot", "approval must select one proposed candidate")
	}
	selected := *req.SelectedSlot
	proposed := false
	for _, s := range pending.ProposedSlots {
		if s.Equal(selected) {
			proposed = true
			break
		}
	}
	if !proposed {
		return NewValidationError("selectedSlot", "selected slot is not among the proposed candidates")
	}
	if err := requireFuture(selected, now, "selectedSlot"); err != nil {
		return err
	}

	oldInterval := b.Interval()

	if err := se.restoreInterval(ctx, b, now); err != nil {
		return err
	}

	overlapping, err := se.Calendar.FindOverlapping(ctx, b.CoachID, selected, b.ID)
	if err != nil {
		return err
	}
	if len(overlapping) > 0 {
		return &SlotConflictError{CoachID: b.CoachID, Interval: selected,
			Message: "candidate overlaps booking " + overlapping[0].ID}
	}

	if se.containmentExempt(b.Metadata.CoachInitiated, b.SessionTypeID) {
		b.Metadata.OriginalAvailabilityID = ""
	} else {
		avail, err := se.Calendar.FindAvailabilityContaining(ctx, b.CoachID, selected)
		if err != nil {
			if errors.Is(err, calendarRepo.ErrNotFound) {
				return &SlotConflictError{CoachID: b.CoachID, Interval: selected,
					Message: "candidate not covered by published availability"}
			}
			return err
		}
		remainders, err := Carve(avail, selected, now)
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
		b.OvertimePolicy = avail.OvertimePolicy
		b.InstantBookingEligible = avail.InstantBookingEligible
		b.FirmBookingThreshold = avail.FirmBookingThreshold
		b.RecurrencePattern = avail.RecurrencePattern
		b.CancellationPolicySnapshot = avail.CancellationPolicySnapshot
		b.Metadata.OriginalAvailabilityID = avail.ID
	}

	b.SetInterval(selected)
	if err := transition(b, models.StatusConfirmed); err != nil {
		return err
	}
	if err := se.Reschedules.CloseRequest(ctx, pending.ID, models.RescheduleApproved, now); err != nil {
		return err
	}
	history := &models.RescheduleHistoryEntry{
		ID:         uuid.New().String(),
		BookingID:  b.ID,
		RequestID:  pending.ID,
		From:       oldInterval,
		To:         selected,
		ApprovedBy: req.Actor,
		OccurredAt: now,
	}
	return se.Reschedules.AppendHistory(ctx, history)
}
