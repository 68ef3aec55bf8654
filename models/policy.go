package models

// PolicyDocument is the cancellation/reschedule policy snapshot attached
// to availability at publish time and propagated to bookings carved from
// it. Produced by the policy collaborator; this core only reads it.
type PolicyDocument struct {
	MinCancelNoticeHours     int     `bson:"minCancelNoticeHours" json:"minCancelNoticeHours"`
	MinRescheduleNoticeHours int     `bson:"minRescheduleNoticeHours" json:"minRescheduleNoticeHours"`
	FullRefundNoticeHours    int     `bson:"fullRefundNoticeHours" json:"fullRefundNoticeHours"`
	PartialRefundRate        float64 `bson:"partialRefundRate" json:"partialRefundRate"` // 0..1, applied inside the full-refund window
}

// RefundDetails is the policy engine's verdict on a cancellation.
type RefundDetails struct {
	CanCancel    bool    `json:"canCancel"`
	RefundAmount float64 `json:"refundAmount"`
	ReasonCode   string  `json:"reasonCode,omitempty"`
}

// RescheduleEligibility is the policy engine's verdict on entering the
// reschedule protocol.
type RescheduleEligibility struct {
	CanReschedule bool   `json:"canReschedule"`
	ReasonCode    string `json:"reasonCode,omitempty"`
}
