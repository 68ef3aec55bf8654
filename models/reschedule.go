package models

import "time"

// RescheduleStatus tracks a single offer within the negotiation.
type RescheduleStatus string

const (
	ReschedulePendingCoach    RescheduleStatus = "pending_coach_action"
	ReschedulePendingClient   RescheduleStatus = "pending_client_action"
	RescheduleApproved        RescheduleStatus = "approved"
	RescheduleDeclined        RescheduleStatus = "declined"
	RescheduleCounteredCoach  RescheduleStatus = "counter_proposed_by_coach"
	RescheduleCounteredClient RescheduleStatus = "counter_proposed_by_client"
)

// Pending reports whether the request still awaits a response.
func (s RescheduleStatus) Pending() bool {
	return s == ReschedulePendingCoach || s == ReschedulePendingClient
}

// RescheduleRequest is one offer in the negotiation protocol. Stored as
// an append-only log document keyed by booking ID; at most one request
// per booking may be pending at a time.
type RescheduleRequest struct {
	ID            string           `bson:"id" json:"id"`
	BookingID     string           `bson:"bookingId" json:"bookingId"`
	ProposedBy    Actor            `bson:"proposedBy" json:"proposedBy"`
	ProposedSlots []Interval       `bson:"proposedSlots" json:"proposedSlots"`
	Message       string           `bson:"message,omitempty" json:"message,omitempty"`
	Status        RescheduleStatus `bson:"status" json:"status"`
	CreatedAt     time.Time        `bson:"createdAt" json:"createdAt"`
	ResolvedAt    *time.Time       `bson:"resolvedAt,omitempty" json:"resolvedAt,omitempty"`
}

// RescheduleHistoryEntry records one completed reschedule.
type RescheduleHistoryEntry struct {
	ID         string    `bson:"id" json:"id"`
	BookingID  string    `bson:"bookingId" json:"bookingId"`
	RequestID  string    `bson:"requestId" json:"requestId"`
	From       Interval  `bson:"from" json:"from"`
	To         Interval  `bson:"to" json:"to"`
	ApprovedBy Actor     `bson:"approvedBy" json:"approvedBy"`
	OccurredAt time.Time `bson:"occurredAt" json:"occurredAt"`
}

// ProposeRescheduleRequest is the inbound payload for opening a request.
type ProposeRescheduleRequest struct {
	Actor         Actor      `json:"actor" binding:"required"`
	ProposedSlots []Interval `json:"proposedSlots" binding:"required,min=1"`
	Message       string     `json:"message"`
}

// RescheduleResponseAction enumerates the recipient's possible replies.
type RescheduleResponseAction string

const (
	RescheduleActionApprove RescheduleResponseAction = "approve"
	RescheduleActionDecline RescheduleResponseAction = "decline"
	RescheduleActionCounter RescheduleResponseAction = "counter"
)

// RespondRescheduleRequest is the inbound payload for answering a
// pending request. SelectedSlot is required for approve; CounterSlots
// for counter.
type RespondRescheduleRequest struct {
	Actor        Actor                    `json:"actor" binding:"required"`
	Action       RescheduleResponseAction `json:"action" binding:"required"`
	SelectedSlot *Interval                `json:"selectedSlot,omitempty"`
	CounterSlots []Interval               `json:"counterSlots,omitempty"`
	Message      string                   `json:"message"`
}
