package worker

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voltfind/internal/config"
	"voltfind/internal/service"
)

type recordingDispatcher struct {
	mu   sync.Mutex
	sent []service.Notification
	err  error
}

func (d *recordingDispatcher) Dispatch(ctx context.Context, n service.Notification, deliverAt time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sent = append(d.sent, n)
	return d.err
}

func TestHandleNotificationTask(t *testing.T) {
	n := service.Notification{
		Type:      service.NotificationBookingConfirmed,
		SessionID: "session-1",
		Title:     "Booking Confirmed",
		Message:   "Your charging slot is booked",
		Data:      map[string]any{"confirmation_code": "VF-ABCD1234"},
		CreatedAt: time.Date(2026, time.March, 10, 12, 0, 0, 0, time.UTC),
	}
	task, err := NewNotificationTask(n)
	require.NoError(t, err)
	assert.Equal(t, TypeNotificationDeliver, task.Type())

	deliver := &recordingDispatcher{}
	require.NoError(t, HandleNotificationTask(deliver)(context.Background(), task))

	require.Len(t, deliver.sent, 1)
	got := deliver.sent[0]
	assert.Equal(t, n.Type, got.Type)
	assert.Equal(t, n.SessionID, got.SessionID)
	assert.Equal(t, n.Message, got.Message)
	assert.Equal(t, "VF-ABCD1234", got.Data["confirmation_code"])
	assert.True(t, n.CreatedAt.Equal(got.CreatedAt))
}

func TestHandleNotificationTask_Errors(t *testing.T) {
	deliver := &recordingDispatcher{}
	handler := HandleNotificationTask(deliver)

	err := handler(context.Background(), asynq.NewTask(TypeNotificationDeliver, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
	assert.Empty(t, deliver.sent)

	// Delivery failures are returned so the task is retried.
	deliver.err = errors.New("push gateway unavailable")
	task, err := NewNotificationTask(service.Notification{Type: service.NotificationPaymentFailed, SessionID: "s"})
	require.NoError(t, err)
	assert.ErrorIs(t, handler(context.Background(), task), deliver.err)
}

func TestRedisOpt(t *testing.T) {
	opt := RedisOpt(config.RedisConfig{Addr: "redis:6379", Password: "secret", DB: 2})

	assert.Equal(t, "redis:6379", opt.Addr)
	assert.Equal(t, "secret", opt.Password)
	assert.Equal(t, 2, opt.DB)
}
