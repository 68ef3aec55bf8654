package booking

import (
	"context"
	"math"
	"strings"

	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
	"github.com/stripe/stripe-go/v76/refund"
	"go.uber.org/zap"
)

// PaymentGateway is the charge/refund collaborator. Calls are issued
// only after the calendar transaction commits; a gateway failure never
// rolls calendar state back, it marks the payment sub-state for
// out-of-band reconciliation.
type PaymentGateway interface {
	CreateIntent(ctx context.Context, amount float64, currency, bookingID string) (string, error)
	Refund(ctx context.Context, intentID string, amount float64, currency string) (string, error)
	CancelIntent(ctx context.Context, intentID string) error
}

// StripeGateway implements PaymentGateway on the Stripe API. The global
// stripe.Key is set at startup.
type StripeGateway struct {
	Logger *zap.Logger
}

func NewStripeGateway(logger *zap.Logger) *StripeGateway {
	return &StripeGateway{Logger: logger}
}

// minorUnits converts a decimal amount to the currency's minor unit.
func minorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

func (g *StripeGateway) CreateIntent(_ context.Context, amount float64, currency, bookingID string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(minorUnits(amount)),
		Currency: stripe.String(strings.ToLower(currency)),
	}
	params.AddMetadata("bookingId", bookingID)

	pi, err := paymentintent.New(params)
	if err != nil {
		return "", &GatewayError{Op: "create_intent", Err: err}
	}
	g.Logger.Info("payment intent created",
		zap.String("bookingId", bookingID),
		zap.String("intentId", pi.ID))
	return pi.ID, nil
}

func (g *StripeGateway) Refund(_ context.Context, intentID string, amount float64, currency string) (string, error) {
	params := &stripe.RefundParams{
		PaymentIntent: stripe.String(intentID),
		Amount:        stripe.Int64(minorUnits(amount)),
	}
	r, err := refund.New(params)
	if err != nil {
		return "", &GatewayError{Op: "refund", IntentID: intentID, Err: err}
	}
	g.Logger.Info("refund issued",
		zap.String("intentId", intentID),
		zap.String("refundId", r.ID),
		zap.Float64("amount", amount),
		zap.String("currency", currency))
	return r.ID, nil
}

func (g *StripeGateway) CancelIntent(_ context.Context, intentID string) error {
	if _, err := paymentintent.Cancel(intentID, nil); err != nil {
		return &GatewayError{Op: "cancel_intent", IntentID: intentID, Err: err}
	}
	return nil
}
