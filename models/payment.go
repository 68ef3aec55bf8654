package models

import "time"

// PriceSnapshot is the opaque output of the pricing collaborator,
// captured once at booking creation.
type PriceSnapshot struct {
	Amount       float64   `bson:"amount" json:"amount"`
	Currency     string    `bson:"currency" json:"currency"`
	DiscountCode string    `bson:"discountCode,omitempty" json:"discountCode,omitempty"`
	TaxAmount    float64   `bson:"taxAmount,omitempty" json:"taxAmount,omitempty"`
	PricedAt     time.Time `bson:"pricedAt,omitempty" json:"pricedAt,omitempty"`
}

// PaymentStatus tracks the gateway sub-state, reconciled out of band.
type PaymentStatus string

const (
	PaymentNone           PaymentStatus = ""
	PaymentIntentPending  PaymentStatus = "intent_pending"
	PaymentCaptured       PaymentStatus = "captured"
	PaymentRefunded       PaymentStatus = "refunded"
	PaymentRefundFailed   PaymentStatus = "refund_failed"
	PaymentIntentFailed   PaymentStatus = "intent_failed"
	PaymentIntentCanceled PaymentStatus = "intent_canceled"
	PaymentCancelFailed   PaymentStatus = "cancel_failed"
)

// PaymentInfo is the payment sub-document on a booking record.
type PaymentInfo struct {
	Status       PaymentStatus `bson:"status,omitempty" json:"status,omitempty"`
	IntentID     string        `bson:"intentId,omitempty" json:"intentId,omitempty"`
	RefundID     string        `bson:"refundId,omitempty" json:"refundId,omitempty"`
	RefundAmount float64       `bson:"refundAmount,omitempty" json:"refundAmount,omitempty"`
	UpdatedAt    time.Time     `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}
