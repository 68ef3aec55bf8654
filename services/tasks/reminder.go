package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"

	"bondigoo/models"
)

const TypeSessionReminder = "session:reminder"

// ReminderLead is how far ahead of the session start the reminder fires.
const ReminderLead = time.Hour

func NewSessionReminderTask(payload models.ReminderPayload) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeSessionReminder, b)
	opts := []asynq.Option{asynq.ProcessAt(payload.Start.Add(-ReminderLead))}
	return task, opts, nil
}

// ReminderScheduler enqueues session reminders at confirmation time.
// Delivery-time filtering of since-cancelled bookings happens in the
// worker, not here.
type ReminderScheduler interface {
	ScheduleSessionReminder(ctx context.Context, payload models.ReminderPayload) error
}

// AsynqReminderScheduler implements ReminderScheduler on an asynq
// client.
type AsynqReminderScheduler struct {
	Client *asynq.Client
}

func NewAsynqReminderScheduler(client *asynq.Client) *AsynqReminderScheduler {
	return &AsynqReminderScheduler{Client: client}
}

func (s *AsynqReminderScheduler) ScheduleSessionReminder(ctx context.Context, payload models.ReminderPayload) error {
	task, opts, err := NewSessionReminderTask(payload)
	if err != nil {
		return err
	}
	_, err = s.Client.EnqueueContext(ctx, task, opts...)
	return err
}
