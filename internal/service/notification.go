package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"voltfind/internal/booking"
	"voltfind/internal/domain"
)

// NotificationType represents the type of notification.
type NotificationType string

const (
	NotificationBookingConfirmed NotificationType = "BOOKING_CONFIRMED"
	NotificationPaymentFailed    NotificationType = "PAYMENT_FAILED"
	NotificationBookingCancelled NotificationType = "BOOKING_CANCELLED"
	NotificationChargingReminder NotificationType = "CHARGING_REMINDER"
)

// Notification represents a notification to be sent.
type Notification struct {
	Type      NotificationType `json:"type"`
	SessionID string           `json:"session_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Data      map[string]any   `json:"data,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// Dispatcher hands a notification to its delivery channel. A zero deliverAt
// means as soon as possible.
type Dispatcher interface {
	Dispatch(ctx context.Context, n Notification, deliverAt time.Time) error
}

// LogDispatcher delivers notifications by logging them.
type LogDispatcher struct {
	logger *zap.Logger
}

// NewLogDispatcher creates a LogDispatcher.
func NewLogDispatcher(logger *zap.Logger) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

// Dispatch logs n. Scheduled notifications are logged right away with their
// due time.
func (d *LogDispatcher) Dispatch(ctx context.Context, n Notification, deliverAt time.Time) error {
	fields := []zap.Field{
		zap.String("type", string(n.Type)),
		zap.String("session_id", n.SessionID),
		zap.String("title", n.Title),
		zap.String("message", n.Message),
		zap.Any("data", n.Data),
	}
	if !deliverAt.IsZero() {
		fields = append(fields, zap.Time("deliver_at", deliverAt))
	}
	d.logger.Info("notification", fields...)
	return nil
}

// NotificationService builds booking notifications and hands them to a Dispatcher.
type NotificationService struct {
	dispatcher   Dispatcher
	logger       *zap.Logger
	reminderLead time.Duration
	now          func() time.Time
}

// NewNotificationService creates a new NotificationService. A reminder is
// scheduled reminderLead before each confirmed charging slot; zero disables it.
func NewNotificationService(dispatcher Dispatcher, logger *zap.Logger, reminderLead time.Duration) *NotificationService {
	return &NotificationService{
		dispatcher:   dispatcher,
		logger:       logger,
		reminderLead: reminderLead,
		now:          time.Now,
	}
}

// SetClock overrides the time source.
func (s *NotificationService) SetClock(now func() time.Time) {
	s.now = now
}

// NotifyBookingConfirmed announces a paid booking and schedules the
// charging reminder.
func (s *NotificationService) NotifyBookingConfirmed(ctx context.Context, session *domain.BookingSession) error {
	code := ""
	if session.Confirmation != nil {
		code = session.Confirmation.Code
	}
	err := s.send(ctx, Notification{
		Type:      NotificationBookingConfirmed,
		SessionID: session.ID,
		Title:     "Booking Confirmed",
		Message:   fmt.Sprintf("Your charging slot at %s is booked for %s", session.Charger.Name, session.Draft.Time),
		Data: map[string]any{
			"confirmation_code": code,
			"charger_id":        session.Charger.ID,
		},
		CreatedAt: s.now(),
	}, time.Time{})
	if err != nil {
		return err
	}

	start, ok := SlotStart(session)
	if !ok || s.reminderLead <= 0 {
		return nil
	}
	remindAt := start.Add(-s.reminderLead)
	if !remindAt.After(s.now()) {
		return nil
	}
	return s.send(ctx, Notification{
		Type:      NotificationChargingReminder,
		SessionID: session.ID,
		Title:     "Charging Soon",
		Message:   fmt.Sprintf("Your charging slot at %s starts at %s", session.Charger.Name, session.Draft.Time),
		Data: map[string]any{
			"confirmation_code": code,
			"address":           session.Charger.Address,
		},
		CreatedAt: s.now(),
	}, remindAt)
}

// NotifyPaymentFailed announces a declined charge.
func (s *NotificationService) NotifyPaymentFailed(ctx context.Context, session *domain.BookingSession, payment *domain.Payment) error {
	return s.send(ctx, Notification{
		Type:      NotificationPaymentFailed,
		SessionID: session.ID,
		Title:     "Payment Failed",
		Message:   fmt.Sprintf("Payment of $%s failed. Please try again.", booking.FormatAmount(payment.Amount)),
		Data: map[string]any{
			"payment_id": payment.ID,
			"attempt":    payment.Attempt,
		},
		CreatedAt: s.now(),
	}, time.Time{})
}

// NotifyBookingCancelled announces a session closed before confirmation.
func (s *NotificationService) NotifyBookingCancelled(ctx context.Context, session *domain.BookingSession) error {
	return s.send(ctx, Notification{
		Type:      NotificationBookingCancelled,
		SessionID: session.ID,
		Title:     "Booking Cancelled",
		Message:   fmt.Sprintf("Your booking at %s was not completed", session.Charger.Name),
		CreatedAt: s.now(),
	}, time.Time{})
}

func (s *NotificationService) send(ctx context.Context, n Notification, deliverAt time.Time) error {
	if err := s.dispatcher.Dispatch(ctx, n, deliverAt); err != nil {
		s.logger.Warn("notification dispatch failed",
			zap.String("type", string(n.Type)),
			zap.String("session_id", n.SessionID),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// SlotStart returns the start of the booked slot: the selected date at the
// selected time of day, in the date's location. Dates arrive as UTC days and
// chargers carry no time zone, so in practice this is UTC wall-clock time.
func SlotStart(session *domain.BookingSession) (time.Time, bool) {
	d := session.Draft
	if d.Date == nil || d.Time == "" {
		return time.Time{}, false
	}
	clock, err := time.Parse("15:04", d.Time)
	if err != nil {
		return time.Time{}, false
	}
	day := *d.Date
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, day.Location()), true
}
