package worker

import (
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"voltfind/internal/config"
	"voltfind/internal/service"
)

// RedisOpt returns the asynq connection settings for the configured Redis.
func RedisOpt(cfg config.RedisConfig) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}
}

// Worker processes queued notifications in the background.
type Worker struct {
	server *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

// New creates a notification worker that hands each task to deliver.
func New(opt asynq.RedisClientOpt, concurrency int, deliver service.Dispatcher, logger *zap.Logger) *Worker {
	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			QueueNotifications: 1,
		},
		Logger: logger.Sugar(),
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeNotificationDeliver, HandleNotificationTask(deliver))

	return &Worker{server: server, mux: mux, logger: logger}
}

// Start begins processing without blocking.
func (w *Worker) Start() error {
	if err := w.server.Start(w.mux); err != nil {
		return err
	}
	w.logger.Info("notification worker started", zap.String("queue", QueueNotifications))
	return nil
}

// Shutdown waits for active tasks and stops the worker.
func (w *Worker) Shutdown() {
	w.server.Shutdown()
	w.logger.Info("notification worker stopped")
}
