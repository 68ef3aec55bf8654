package sessionRepo

import (
	"context"

	"bondigoo/models"
)

// SessionRepository persists the denormalized SessionProjection. All
// writes happen inside the calendar transaction the owning booking is
// mutated in; the projection is never written on its own.
type SessionRepository interface {
	Upsert(ctx context.Context, p *models.SessionProjection) error
	Get(ctx context.Context, bookingID string) (*models.SessionProjection, error)
}
