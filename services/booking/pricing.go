package booking

import (
	"context"
	"time"

	"bondigoo/models"
)

// PricingService is the price/discount/tax collaborator. Called once at
// booking creation; its snapshot is opaque to this engine.
type PricingService interface {
	PriceSession(ctx context.Context, coachID, sessionTypeID string, iv models.Interval, userID, discountCode string) (*models.PriceSnapshot, error)
}

// FlatRatePricing prices sessions at a per-hour rate, optionally
// overridden per session type. Stands in for the full pricing engine in
// deployments that have not wired one.
type FlatRatePricing struct {
	HourlyRate   float64
	Currency     string
	TypeOverride map[string]float64 // sessionTypeID -> hourly rate
}

func (p *FlatRatePricing) PriceSession(_ context.Context, _, sessionTypeID string, iv models.Interval, _, discountCode string) (*models.PriceSnapshot, error) {
	rate := p.HourlyRate
	if override, ok := p.TypeOverride[sessionTypeID]; ok {
		rate = override
	}
	amount := rate * iv.Duration().Hours()
	return &models.PriceSnapshot{
		Amount:       amount,
		Currency:     p.Currency,
		DiscountCode: discountCode,
		PricedAt:     time.Now().UTC(),
	}, nil
}
