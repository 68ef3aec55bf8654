package booking

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	calendarRepo "bondigoo/database/repository/calendar"
	"bondigoo/models"
)

// fakeCalendar is an in-memory CalendarRepository with the same
// contracts as the mongo implementation: version-guarded writes and
// all-or-nothing transactions.
type fakeCalendar struct {
	mu      sync.Mutex
	records map[string]*models.BookingRecord

	// commitConflicts injects a version conflict at commit time for the
	// next N transactions, so the caller's retry loop must re-run them.
	commitConflicts int
}

func newFakeCalendar() *fakeCalendar {
	return &fakeCalendar{records: make(map[string]*models.BookingRecord)}
}

func cloneRecord(b *models.BookingRecord) *models.BookingRecord {
	c := *b
	return &c
}

func (f *fakeCalendar) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot := make(map[string]*models.BookingRecord, len(f.records))
	for id, r := range f.records {
		snapshot[id] = cloneRecord(r)
	}
	if err := fn(ctx); err != nil {
		f.records = snapshot
		return err
	}
	if f.commitConflicts > 0 {
		f.commitConflicts--
		f.records = snapshot
		return calendarRepo.ErrVersionConflict
	}
	return nil
}

func (f *fakeCalendar) InsertBooking(_ context.Context, b *models.BookingRecord) error {
	f.records[b.ID] = cloneRecord(b)
	return nil
}

func (f *fakeCalendar) GetBooking(_ context.Context, id string) (*models.BookingRecord, error) {
	b, ok := f.records[id]
	if !ok {
		return nil, calendarRepo.ErrNotFound
	}
	return cloneRecord(b), nil
}

func (f *fakeCalendar) ReplaceBooking(_ context.Context, b *models.BookingRecord) error {
	current, ok := f.records[b.ID]
	if !ok || current.Version != b.Version {
		return calendarRepo.ErrVersionConflict
	}
	b.Version++
	b.UpdatedAt = time.Now().UTC()
	f.records[b.ID] = cloneRecord(b)
	return nil
}

func (f *fakeCalendar) DeleteAvailability(_ context.Context, id string, version int) error {
	current, ok := f.records[id]
	if !ok || !current.IsAvailability || current.Version != version {
		return calendarRepo.ErrVersionConflict
	}
	delete(f.records, id)
	return nil
}

func (f *fakeCalendar) FindAvailabilityContaining(_ context.Context, coachID string, iv models.Interval) (*models.BookingRecord, error) {
	for _, r := range f.records {
		if r.IsAvailability && r.CoachID == coachID && r.Interval().Contains(iv) {
			return cloneRecord(r), nil
		}
	}
	return nil, calendarRepo.ErrNotFound
}

func (f *fakeCalendar) FindAdjacentAvailability(_ context.Context, coachID string, iv models.Interval) ([]*models.BookingRecord, error) {
	var out []*models.BookingRecord
	for _, r := range f.records {
		if !r.IsAvailability || r.CoachID != coachID {
			continue
		}
		if r.Interval().AdjacentBefore(iv) || r.Interval().AdjacentAfter(iv) {
			out = append(out, cloneRecord(r))
		}
	}
	return out, nil
}

func (f *fakeCalendar) FindOverlapping(_ context.Context, coachID string, iv models.Interval, excludeID string) ([]*models.BookingRecord, error) {
	var out []*models.BookingRecord
	for _, r := range f.records {
		if r.IsAvailability || r.CoachID != coachID || r.ID == excludeID {
			continue
		}
		if r.Status.IsTerminal() {
			continue
		}
		if r.Interval().Overlaps(iv) {
			out = append(out, cloneRecord(r))
		}
	}
	return out, nil
}

func (f *fakeCalendar) ListCalendar(_ context.Context, coachID string, from, to time.Time) ([]*models.BookingRecord, error) {
	window := models.Interval{Start: from, End: to}
	var out []*models.BookingRecord
	for _, r := range f.records {
		if r.CoachID == coachID && r.Interval().Overlaps(window) {
			out = append(out, cloneRecord(r))
		}
	}
	return out, nil
}

// availabilityRecords returns the coach's availability sorted by nothing
// in particular; tests assert on membership, not order.
func (f *fakeCalendar) availabilityRecords(coachID string) []*models.BookingRecord {
	var out []*models.BookingRecord
	for _, r := range f.records {
		if r.IsAvailability && r.CoachID == coachID {
			out = append(out, cloneRecord(r))
		}
	}
	return out
}

type fakeSessions struct {
	projections map[string]*models.SessionProjection
}

func newFakeSessions() *fakeSessions {
	return &fakeSessions{projections: make(map[string]*models.SessionProjection)}
}

func (f *fakeSessions) Upsert(_ context.Context, p *models.SessionProjection) error {
	c := *p
	f.projections[p.BookingID] = &c
	return nil
}

func (f *fakeSessions) Get(_ context.Context, bookingID string) (*models.SessionProjection, error) {
	p, ok := f.projections[bookingID]
	if !ok {
		return nil, nil
	}
	c := *p
	return &c, nil
}

type fakeReschedules struct {
	requests []models.RescheduleRequest
	history  []models.RescheduleHistoryEntry
}

func newFakeReschedules() *fakeReschedules {
	return &fakeReschedules{}
}

func (f *fakeReschedules) AppendRequest(_ context.Context, req *models.RescheduleRequest) error {
	f.requests = append(f.requests, *req)
	return nil
}

func (f *fakeReschedules) FindPendingByBooking(_ context.Context, bookingID string) (*models.RescheduleRequest, error) {
	for i := range f.requests {
		if f.requests[i].BookingID == bookingID && f.requests[i].Status.Pending() {
			c := f.requests[i]
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeReschedules) CloseRequest(_ context.Context, requestID string, status models.RescheduleStatus, resolvedAt time.Time) error {
	for i := range f.requests {
		if f.requests[i].ID == requestID {
			f.requests[i].Status = status
			t := resolvedAt
			f.requests[i].ResolvedAt = &t
			return nil
		}
	}
	return calendarRepo.ErrNotFound
}

func (f *fakeReschedules) ListRequestsByBooking(_ context.Context, bookingID string) ([]models.RescheduleRequest, error) {
	var out []models.RescheduleRequest
	for _, r := range f.requests {
		if r.BookingID == bookingID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeReschedules) AppendHistory(_ context.Context, entry *models.RescheduleHistoryEntry) error {
	f.history = append(f.history, *entry)
	return nil
}

func (f *fakeReschedules) ListHistoryByBooking(_ context.Context, bookingID string) ([]models.RescheduleHistoryEntry, error) {
	var out []models.RescheduleHistoryEntry
	for _, h := range f.history {
		if h.BookingID == bookingID {
			out = append(out, h)
		}
	}
	return out, nil
}

// fakeGateway records every call. Its mutex matters: refund and void
// calls may arrive from post-commit goroutines.
type fakeGateway struct {
	mu          sync.Mutex
	intents     []string
	refunds     []float64
	cancelled   []string
	failIntents bool
}

func (f *fakeGateway) CreateIntent(_ context.Context, amount float64, currency, bookingID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIntents {
		return "", &GatewayError{Op: "create_intent", Err: context.DeadlineExceeded}
	}
	id := "pi_" + bookingID
	f.intents = append(f.intents, id)
	return id, nil
}

func (f *fakeGateway) Refund(_ context.Context, intentID string, amount float64, currency string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refunds = append(f.refunds, amount)
	return "re_" + intentID, nil
}

func (f *fakeGateway) CancelIntent(_ context.Context, intentID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cancelled = append(f.cancelled, intentID)
	return nil
}

func (f *fakeGateway) refundTotal() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	var sum float64
	for _, r := range f.refunds {
		sum += r
	}
	return sum
}

func newTestEngine(cal *fakeCalendar, sessions *fakeSessions, reschedules *fakeReschedules, gateway *fakeGateway) *DefaultLifecycleEngine {
	return &DefaultLifecycleEngine{
		Calendar:    cal,
		Sessions:    sessions,
		Reschedules: reschedules,
		Pricing:     &FlatRatePricing{HourlyRate: 60, Currency: "USD"},
		Policy: &DefaultPolicyEngine{Defaults: models.PolicyDocument{
			MinCancelNoticeHours:     12,
			MinRescheduleNoticeHours: 12,
			FullRefundNoticeHours:    48,
			PartialRefundRate:        0.5,
		}},
		Gateway:            gateway,
		Retry:              calendarRepo.RetryPolicy{MaxAttempts: 3, Backoff: time.Millisecond},
		ExemptSessionTypes: map[string]bool{"office-hours": true},
		Logger:             zap.NewNop(),
	}
}
