package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"voltfind/internal/app"
	"voltfind/internal/config"
	"voltfind/internal/handler"
	"voltfind/internal/logging"
	internalRedis "voltfind/internal/redis"
	"voltfind/internal/repository"
	"voltfind/internal/repository/memory"
	"voltfind/internal/repository/postgres"
	"voltfind/internal/service"
	"voltfind/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize New Relic FIRST (before database so we can instrument DB).
	var nrApp *newrelic.Application
	if cfg.NewRelic.Enabled && cfg.NewRelic.LicenseKey != "" {
		nrApp, err = newrelic.NewApplication(
			newrelic.ConfigAppName(cfg.NewRelic.AppName),
			newrelic.ConfigLicense(cfg.NewRelic.LicenseKey),
			newrelic.ConfigDistributedTracerEnabled(true),
			newrelic.ConfigAppLogForwardingEnabled(true),
		)
		if err != nil {
			logger.Error("failed to initialize New Relic", zap.Error(err))
		} else {
			logger.Info("New Relic enabled", zap.String("app", cfg.NewRelic.AppName))
		}
	}

	var db *sql.DB
	if cfg.Database.Enabled {
		db, err = app.NewDatabase(ctx, cfg.Database, nrApp)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		logger.Info("connected to PostgreSQL")
	}

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = app.NewRedisClient(ctx, cfg.Redis, nrApp)
		if err != nil {
			logger.Fatal("failed to connect to redis", zap.Error(err))
		}
		defer redisClient.Close()
		logger.Info("connected to Redis")
	}

	// Notifications go through the asynq queue when Redis is available.
	var dispatcher service.Dispatcher = service.NewLogDispatcher(logger)
	if redisClient != nil {
		queueOpt := worker.RedisOpt(cfg.Redis)
		queueClient := asynq.NewClient(queueOpt)
		defer queueClient.Close()
		dispatcher = worker.NewQueueDispatcher(queueClient)

		notificationWorker := worker.New(queueOpt, cfg.Notify.WorkerConcurrency, service.NewLogDispatcher(logger), logger)
		if err := notificationWorker.Start(); err != nil {
			logger.Fatal("failed to start notification worker", zap.Error(err))
		}
		defer notificationWorker.Shutdown()
	}

	server := wireServer(db, redisClient, dispatcher, nrApp, logger, cfg)

	go func() {
		logger.Info("starting server", zap.String("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	// Leave room for an in-flight simulated payment to finish.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second+cfg.Booking.PaymentDelay)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Fatal("server forced to shutdown", zap.Error(err))
	}

	if nrApp != nil {
		nrApp.Shutdown(5 * time.Second)
	}
	logger.Info("server exited")
}

// wireServer wires all dependencies and returns the HTTP server. Postgres and
// Redis are optional. Without them the in-process stores are used.
func wireServer(db *sql.DB, redisClient *redis.Client, dispatcher service.Dispatcher, nrApp *newrelic.Application, logger *zap.Logger, cfg *config.Config) *http.Server {
	var chargerRepo repository.ChargerRepository = memory.NewChargerRepository(memory.DefaultChargers())
	var paymentRepo repository.PaymentRepository = memory.NewPaymentRepository()
	var sessionRepo repository.SessionRepository = memory.NewSessionRepository(cfg.Booking.SessionTTL)
	var lockStore internalRedis.LockStoreInterface = memory.NewLockStore()
	var chargerCache internalRedis.ChargerCacheInterface

	if db != nil {
		chargerRepo = postgres.NewChargerRepository(db)
		paymentRepo = postgres.NewPaymentRepository(db)
	}

	if redisClient != nil {
		sessionRepo = internalRedis.NewSessionStore(redisClient, cfg.Booking.SessionTTL)
		lockStore = internalRedis.NewLockStore(redisClient)
		chargerCache = internalRedis.NewCacheStore(redisClient)
	}

	// Initialize services.
	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notify.ReminderLead)
	receiptService := service.NewReceiptService()
	directoryService := service.NewDirectoryService(chargerRepo, chargerCache, logger)
	psp := service.NewSimulatedPSP(cfg.Booking.PaymentDelay, cfg.Booking.DeclineRate)
	paymentService := service.NewPaymentService(paymentRepo, psp)
	bookingService := service.NewBookingService(
		sessionRepo,
		directoryService,
		paymentService,
		lockStore,
		notificationService,
		receiptService,
		logger,
		service.BookingConfig{
			MaxAdvance:         cfg.Booking.MaxAdvance(),
			MaxPaymentAttempts: cfg.Booking.MaxPaymentAttempts,
			LockTTL:            10 * time.Second,
			ProcessingTimeout:  cfg.Booking.ProcessingTimeout(),
		},
	)

	// Initialize handlers.
	bookingHandler := handler.NewBookingHandler(bookingService, cfg.Booking.MaxAdvanceDays)
	chargerHandler := handler.NewChargerHandler(directoryService)

	router := app.NewRouter(app.RouterDeps{
		BookingHandler: bookingHandler,
		ChargerHandler: chargerHandler,
		RedisClient:    redisClient,
		NewRelicApp:    nrApp,
		Logger:         logger,
		RateLimit:      cfg.RateLimit,
	})

	return &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout + cfg.Booking.PaymentDelay,
	}
}
