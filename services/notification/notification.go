package notification

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/google/uuid"
	"go.uber.org/zap"

	deviceRepo "bondigoo/database/repository/device"
	notificationRepo "bondigoo/database/repository/notification"
	"bondigoo/models"
	"bondigoo/utils"
)

// NotificationService dispatches booking lifecycle notifications.
// Fire-and-forget: invoked post-commit with the final booking state,
// never blocks or influences the state machine's outcome.
type NotificationService interface {
	NotifyBookingUpdate(ctx context.Context, b *models.BookingRecord, event string)
}

// DefaultNotificationService writes an inbox entry for each party of a
// booking and sends them an FCM push.
type DefaultNotificationService struct {
	Devices deviceRepo.DeviceRepository
	Inbox   notificationRepo.NotificationRepository
	Logger  *zap.Logger
}

func NewDefaultNotificationService(devices deviceRepo.DeviceRepository, inbox notificationRepo.NotificationRepository, logger *zap.Logger) *DefaultNotificationService {
	return &DefaultNotificationService{Devices: devices, Inbox: inbox, Logger: logger}
}

// bookingEventCopy maps lifecycle events to user-facing text.
var bookingEventCopy = map[string][2]string{
	"booking_requested":    {"Booking Requested", "Your booking request for %s has been sent."},
	"booking_confirmed":    {"Booking Confirmed!", "Your session on %s is confirmed."},
	"booking_declined":     {"Booking Declined", "Your booking request for %s was declined."},
	"time_suggested":       {"Alternative Times Suggested", "Your coach suggested alternative times for %s."},
	"booking_cancelled":    {"Booking Cancelled", "The session on %s has been cancelled."},
	"payment_confirmed":    {"Payment Received", "Payment for your session on %s has been processed."},
	"reschedule_proposed":  {"Reschedule Requested", "A reschedule has been proposed for the session on %s."},
	"reschedule_approved":  {"Session Rescheduled", "Your session has been moved to %s."},
	"reschedule_declined":  {"Reschedule Declined", "The reschedule request for %s was declined."},
	"reschedule_countered": {"New Times Proposed", "A counter-proposal was made for the session on %s."},
	"session_completed":    {"Session Completed", "Your session on %s is complete."},
	"session_no_show":      {"Missed Session", "The session on %s was marked as a no-show."},
	"session_reminder":     {"Upcoming Session", "Reminder: your session starts at %s."},
}

func (s *DefaultNotificationService) NotifyBookingUpdate(ctx context.Context, b *models.BookingRecord, event string) {
	copyPair, ok := bookingEventCopy[event]
	if !ok {
		copyPair = [2]string{"Booking Update", "Your session on %s has been updated."}
	}
	when := b.Start.Format("2 January, 3:04 PM")
	title := copyPair[0]
	message := fmt.Sprintf(copyPair[1], when)

	data := map[string]string{
		"type":      event,
		"bookingId": b.ID,
		"coachId":   b.CoachID,
		"start":     b.Start.Format(time.RFC3339),
		"end":       b.End.Format(time.RFC3339),
		"status":    string(b.Status),
	}

	if b.UserID != "" {
		s.deliver(ctx, b.UserID, "client", event, title, message, data)
	}
	s.deliver(ctx, b.CoachID, "coach", event, title, message, data)
}

// deliver writes the recipient's inbox entry, then pushes. The inbox
// write happens regardless of whether a device token exists.
func (s *DefaultNotificationService) deliver(ctx context.Context, principalID, role, event, title, message string, data map[string]string) {
	entry := &models.Notification{
		ID:          uuid.New().String(),
		PrincipalID: principalID,
		Role:        role,
		Type:        event,
		Title:       title,
		Message:     message,
		CreatedAt:   time.Now().UTC(),
	}
	entry.Data = make(map[string]any, len(data))
	for k, v := range data {
		entry.Data[k] = v
	}
	if s.Inbox != nil {
		if err := s.Inbox.Save(ctx, entry); err != nil {
			s.Logger.Warn("failed to save inbox notification",
				zap.String("principalId", principalID),
				zap.String("role", role),
				zap.Error(err))
		}
	}
	s.sendPush(ctx, principalID, role, entry.ID, title, message, data)
}

func (s *DefaultNotificationService) sendPush(ctx context.Context, principalID, role, notificationID, title, body string, data map[string]string) {
	token, err := s.Devices.GetToken(ctx, principalID, role)
	if err != nil {
		s.Logger.Debug("push skipped, no device token",
			zap.String("principalId", principalID),
			zap.String("role", role))
		return
	}

	payload := make(map[string]string, len(data)+2)
	for k, v := range data {
		payload[k] = v
	}
	payload["role"] = role
	payload["notificationId"] = notificationID

	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: payload,
	}
	if _, err := utils.FCMClient.Send(ctx, msg); err != nil {
		s.Logger.Warn("failed to send push notification",
			zap.String("principalId", principalID),
			zap.String("role", role),
			zap.Error(err))
	}
}
