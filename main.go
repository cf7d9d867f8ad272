package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"calbot/config"
	"calbot/cron"
	"calbot/database"
	recordsRepo "calbot/database/repository/records"
	"calbot/handlers"
	"calbot/middleware"
	"calbot/routes"
	"calbot/services/calendar"
	"calbot/services/dates"
	"calbot/services/dialogue"
	"calbot/services/session"
	"calbot/services/tasks"
	"calbot/utils"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	cfg := config.AppConfig
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	healthDeps := map[string]utils.Pinger{}

	// Session store.
	var store session.Store
	switch cfg.SessionStore {
	case "redis":
		client := utils.GetSessionCacheClient()
		store = session.NewRedisStore(client, cfg.SessionTTL())
		healthDeps["redis"] = utils.PingFunc(func(ctx context.Context) error { return client.Ping(ctx).Err() })
	case "sql":
		db, err := database.OpenGorm(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			logger.Fatal("main: failed to open session database", zap.Error(err))
		}
		gormStore, err := session.NewGormStore(db, cfg.SessionTTL(), nil)
		if err != nil {
			logger.Fatal("main: failed to migrate session table", zap.Error(err))
		}
		go sweepExpiredSessions(ctx, gormStore, cfg.SessionTTL(), logger)
		store = gormStore
		healthDeps["sql"] = utils.PingFunc(func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		})
	default:
		logger.Warn("main: using in-memory session store; sessions are lost on restart")
		store = session.NewMemoryStore(cfg.SessionTTL(), nil)
	}

	// Cal.com client.
	calClient := calendar.NewClient(calendar.Options{
		BaseURL:           cfg.CalBaseURL,
		APIKey:            cfg.CalAPIKey,
		EventTypeID:       cfg.CalEventTypeID,
		Location:          cfg.Location(),
		HorizonDays:       cfg.BookingHorizonDays,
		RequestsPerSecond: cfg.CalRequestsPerSec,
		Logger:            logger.Named("calendar"),
	})

	dialogueService := &dialogue.DefaultDialogueService{
		Store:       store,
		Dates:       dates.NewDefaultResolver(cfg.Location(), cfg.BookingHorizonDays, dates.NewWhenParser()),
		Slots:       calClient,
		Booker:      calClient,
		Location:    cfg.Location(),
		HorizonDays: cfg.BookingHorizonDays,
		Logger:      logger.Named("dialogue"),
	}

	// Optional booking records: queued through asynq, written to MongoDB by the worker.
	var worker *asynq.Server
	var queue *asynq.Client
	if cfg.RecordBookings {
		if err := database.InitDB(logger); err != nil {
			logger.Fatal("main: failed to connect to MongoDB", zap.Error(err))
		}
		repo := recordsRepo.NewMongoBookingRecordRepo()
		if err := repo.EnsureIndexes(); err != nil {
			logger.Warn("main: failed to ensure booking record indexes", zap.Error(err))
		}
		queue = asynq.NewClient(cron.QueueRedisOpt())
		dialogueService.Recorder = &tasks.AsyncBookingRecorder{Client: queue}
		worker = cron.InitBookingRecordWorker(repo, logger.Named("worker"))
		healthDeps["mongo"] = utils.PingFunc(func(ctx context.Context) error { return database.MongoClient.Ping(ctx, nil) })
	}

	utils.StartHealthMonitor(ctx, healthDeps, 30*time.Second)

	// Create the Gin router.
	router := gin.New()
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestIDMiddleware(logger))
	router.Use(middleware.RequestLogger(logger.Named("http")))
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	signalHandler := handlers.NewSignalHandler(dialogueService)
	handlerBundle := &handlers.HandlerBundle{
		SignalHandler: signalHandler.HandleSignal,
		HealthHandler: handlers.HealthHandler,
	}
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Sugar().Errorf("main: server forced to shutdown: %v", err)
	}
	if worker != nil {
		worker.Shutdown()
	}
	if queue != nil {
		_ = queue.Close()
	}
	if database.MongoClient != nil {
		_ = database.MongoClient.Disconnect(shutdownCtx)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}

// sweepExpiredSessions deletes expired SQL session rows once per TTL.
func sweepExpiredSessions(ctx context.Context, store *session.GormStore, every time.Duration, logger *zap.Logger) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := store.Sweep(ctx)
			if err != nil {
				logger.Warn("Session sweep failed", zap.Error(err))
				continue
			}
			if n > 0 {
				logger.Debug("Expired sessions swept", zap.Int64("rows", n))
			}
		}
	}
}
