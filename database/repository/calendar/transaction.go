package calendarRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
)

// WithTransaction runs fn inside a mongo multi-document transaction.
// Calendar, booking and projection writes inside fn all commit or abort
// together; the SessionContext flows to them through ctx.
func (repo *MongoCalendarRepo) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := fn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

// RetryPolicy bounds the internal retry of transient write contention at
// the transaction-execution boundary. Injectable so call sites never
// duplicate ad hoc retry loops.
type RetryPolicy struct {
	MaxAttempts int
	Backoff     time.Duration
}

// DefaultRetryPolicy matches the contention profile of a single coach
// calendar under concurrent booking attempts.
var DefaultRetryPolicy = RetryPolicy{MaxAttempts: 3, Backoff: 50 * time.Millisecond}

// Run executes the unit of work, re-running it from scratch on transient
// conflicts with linear backoff. Stale reads are never reused: every
// attempt re-reads inside its own transaction.
func (p RetryPolicy) Run(ctx context.Context, fn func(ctx context.Context) error) (attempts int, err error) {
	for attempts = 1; attempts <= p.MaxAttempts; attempts++ {
		err = fn(ctx)
		if err == nil || !IsTransient(err) {
			return attempts, err
		}
		if attempts == p.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return attempts, ctx.Err()
		case <-time.After(time.Duration(attempts) * p.Backoff):
		}
	}
	return attempts, err
}

// IsTransient classifies errors worth re-running the whole transaction
// for: version guards that matched nothing, and mongo's own transient
// transaction and write-conflict labels.
func IsTransient(err error) bool {
	if errors.Is(err, ErrVersionConflict) {
		return true
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return cmdErr.HasErrorLabel("TransientTransactionError") ||
			cmdErr.HasErrorLabel("UnknownTransactionCommitResult") ||
			cmdErr.Name == "WriteConflict"
	}
	return false
}
