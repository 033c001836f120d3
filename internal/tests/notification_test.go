package tests

import (
	"context"
	"testing"
	"time"

	"voltfind/internal/service"
)

func TestNotifications_BookingConfirmed(t *testing.T) {
	f := newBookingFixture(t)
	session := f.openAtPayment(t)

	confirmed, err := f.service.SubmitPayment(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("SubmitPayment failed: %v", err)
	}

	sent := f.notifier.Sent(service.NotificationBookingConfirmed)
	if len(sent) != 1 {
		t.Fatalf("expected 1 confirmation notification, got %d", len(sent))
	}
	if !sent[0].DeliverAt.IsZero() {
		t.Errorf("expected immediate delivery, got %s", sent[0].DeliverAt)
	}
	if sent[0].Notification.Data["confirmation_code"] != confirmed.Confirmation.Code {
		t.Errorf("expected confirmation code in data, got %v", sent[0].Notification.Data)
	}

	reminders := f.notifier.Sent(service.NotificationChargingReminder)
	if len(reminders) != 1 {
		t.Fatalf("expected 1 reminder, got %d", len(reminders))
	}
	// Slot is 14:00 two days out; the reminder fires 30 minutes earlier.
	want := time.Date(2026, time.March, 12, 13, 30, 0, 0, time.UTC)
	if !reminders[0].DeliverAt.Equal(want) {
		t.Errorf("expected reminder at %s, got %s", want, reminders[0].DeliverAt)
	}
}

func TestNotifications_PaymentFailedAndCancelled(t *testing.T) {
	f := newBookingFixture(t)
	ctx := context.Background()
	session := f.openAtPayment(t)

	f.psp.SetFailure(true, nil)
	if _, err := f.service.SubmitPayment(ctx, session.ID); err == nil {
		t.Fatal("expected decline")
	}
	failed := f.notifier.Sent(service.NotificationPaymentFailed)
	if len(failed) != 1 {
		t.Fatalf("expected 1 payment failed notification, got %d", len(failed))
	}
	if failed[0].Notification.Data["attempt"] != 1 {
		t.Errorf("expected attempt 1, got %v", failed[0].Notification.Data["attempt"])
	}

	if err := f.service.Close(ctx, session.ID); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if n := len(f.notifier.Sent(service.NotificationBookingCancelled)); n != 1 {
		t.Errorf("expected 1 cancellation notification, got %d", n)
	}
	if n := len(f.notifier.Sent(service.NotificationBookingConfirmed)); n != 0 {
		t.Errorf("expected no confirmation notification, got %d", n)
	}
}

func TestNotifications_DispatchFailureDoesNotFailBooking(t *testing.T) {
	f := newBookingFixture(t)
	session := f.openAtPayment(t)
	f.notifier.DispatchError = ErrMockTimeout

	confirmed, err := f.service.SubmitPayment(context.Background(), session.ID)
	if err != nil {
		t.Fatalf("expected booking to succeed, got %v", err)
	}
	if !confirmed.Draft.Complete {
		t.Error("expected booking to be confirmed")
	}
}

func TestSlotStart(t *testing.T) {
	f := newBookingFixture(t)
	session := f.openAtPayment(t)

	start, ok := service.SlotStart(session)
	if !ok {
		t.Fatal("expected slot start to be known")
	}
	want := time.Date(2026, time.March, 12, 14, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Errorf("expected %s, got %s", want, start)
	}
	if start.Location() != time.UTC {
		t.Errorf("expected slot start in UTC, got %s", start.Location())
	}

	session.Draft.Time = ""
	if _, ok := service.SlotStart(session); ok {
		t.Error("expected no slot start without a time")
	}
}
