package cron

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"bondigoo/config"
	calendarRepo "bondigoo/database/repository/calendar"
	"bondigoo/models"
	"bondigoo/services/notification"
	"bondigoo/services/tasks"
	"bondigoo/utils"
)

// InitReminderWorker runs the async reminder worker in background.
func InitReminderWorker(calendar calendarRepo.CalendarRepository, notifSvc notification.NotificationService) {
	redisOpts := asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisReminderQueueDB,
	}

	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				"default": 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeSessionReminder, handleSessionReminder(calendar, notifSvc))

	go func() {
		logger := utils.GetLogger()
		logger.Info("starting session reminder worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			if err := srv.Run(mux); err != nil {
				logger.Warn("reminder worker failed to start",
					zap.Int("attempt", attempts), zap.Error(err))
				if attempts == maxAttempts {
					log.Fatal("reminder worker: max retry attempts reached")
				}
				time.Sleep(time.Duration(attempts*2) * time.Second)
			} else {
				break
			}
		}
	}()
}

// handleSessionReminder delivers a scheduled reminder. Bookings that
// have since reached a terminal state are skipped, not failed: the
// enqueue happened at confirmation time and the calendar may have moved
// on.
func handleSessionReminder(calendar calendarRepo.CalendarRepository, notifSvc notification.NotificationService) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		logger := utils.GetLogger()

		var p models.ReminderPayload
		if err := json.Unmarshal(task.Payload(), &p); err != nil {
			logger.Error("invalid reminder payload", zap.Error(err))
			return err
		}

		b, err := calendar.GetBooking(ctx, p.BookingID)
		if err != nil {
			logger.Warn("reminder target booking not found",
				zap.String("bookingId", p.BookingID), zap.Error(err))
			return nil
		}
		if b.Status.IsTerminal() {
			logger.Debug("skipping reminder for terminal booking",
				zap.String("bookingId", b.ID), zap.String("status", string(b.Status)))
			return nil
		}

		notifSvc.NotifyBookingUpdate(ctx, b, "session_reminder")
		return nil
	}
}
