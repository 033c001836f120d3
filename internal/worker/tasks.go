package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"voltfind/internal/service"
)

const (
	TypeNotificationDeliver = "notification:deliver"
	QueueNotifications      = "notifications"

	notificationMaxRetry = 5
)

// NewNotificationTask wraps a notification in a delivery task.
func NewNotificationTask(n service.Notification) (*asynq.Task, error) {
	payload, err := json.Marshal(n)
	if err != nil {
		return nil, fmt.Errorf("marshal notification: %w", err)
	}
	return asynq.NewTask(TypeNotificationDeliver, payload), nil
}

// QueueDispatcher enqueues notifications for the worker to deliver.
type QueueDispatcher struct {
	client *asynq.Client
}

// NewQueueDispatcher creates a QueueDispatcher.
func NewQueueDispatcher(client *asynq.Client) *QueueDispatcher {
	return &QueueDispatcher{client: client}
}

// Dispatch enqueues n. Scheduled notifications carry a task ID derived from
// the session so each session has at most one pending notification per type.
func (d *QueueDispatcher) Dispatch(ctx context.Context, n service.Notification, deliverAt time.Time) error {
	task, err := NewNotificationTask(n)
	if err != nil {
		return err
	}

	opts := []asynq.Option{
		asynq.Queue(QueueNotifications),
		asynq.MaxRetry(notificationMaxRetry),
	}
	if !deliverAt.IsZero() {
		opts = append(opts,
			asynq.ProcessAt(deliverAt),
			asynq.TaskID(string(n.Type)+":"+n.SessionID),
		)
	}

	if _, err := d.client.EnqueueContext(ctx, task, opts...); err != nil {
		if errors.Is(err, asynq.ErrTaskIDConflict) {
			return nil
		}
		return fmt.Errorf("enqueue %s: %w", n.Type, err)
	}
	return nil
}

// HandleNotificationTask decodes a delivery task and passes it to deliver.
// Malformed payloads are not retried.
func HandleNotificationTask(deliver service.Dispatcher) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		var n service.Notification
		if err := json.Unmarshal(task.Payload(), &n); err != nil {
			return fmt.Errorf("decode notification: %v: %w", err, asynq.SkipRetry)
		}
		return deliver.Dispatch(ctx, n, time.Time{})
	}
}

var _ service.Dispatcher = (*QueueDispatcher)(nil)
