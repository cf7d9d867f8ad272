package cron

import (
	"context"
	"errors"
	"fmt"
	"time"

	"calbot/config"
	recordsRepo "calbot/database/repository/records"
	"calbot/models"
	"calbot/services/tasks"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// RecordWriter persists booking records.
type RecordWriter interface {
	Create(ctx context.Context, record models.BookingRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.BookingRecord, error)
}

// QueueRedisOpt is the asynq connection shared by the recorder client and the worker.
func QueueRedisOpt() asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	}
}

// InitBookingRecordWorker starts the booking record worker in background. The
// caller owns shutdown of the returned server.
func InitBookingRecordWorker(repo RecordWriter, logger *zap.Logger) *asynq.Server {
	srv := asynq.NewServer(
		QueueRedisOpt(),
		asynq.Config{
			Concurrency: 5,
			Queues: map[string]int{
				"default": 1,
			},
			Logger: logger.Sugar().Named("asynq"),
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(tasks.TypeBookingRecord, HandleBookingRecordTask(repo, logger))

	go func() {
		logger.Info("Starting booking record worker")
		const maxAttempts = 5

		for attempts := 1; attempts <= maxAttempts; attempts++ {
			err := srv.Start(mux)
			if err == nil {
				return
			}
			logger.Error("Booking record worker failed to start",
				zap.Int("attempt", attempts), zap.Int("maxAttempts", maxAttempts), zap.Error(err))
			if attempts == maxAttempts {
				logger.Fatal("Booking record worker gave up")
			}
			time.Sleep(time.Duration(attempts*2) * time.Second)
		}
	}()
	return srv
}

// HandleBookingRecordTask stores one queued booking record.
func HandleBookingRecordTask(repo RecordWriter, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		record, err := tasks.ParseBookingRecordTask(task)
		if err != nil {
			logger.Error("Invalid booking record payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		// asynq retries after a lost ack; a record already stored under the id is done.
		if record.ID != "" {
			_, err := repo.GetByID(ctx, record.ID)
			if err == nil {
				logger.Info("Booking record already stored", zap.String("id", record.ID))
				return nil
			}
			if !errors.Is(err, recordsRepo.ErrRecordNotFound) {
				logger.Error("Failed to look up booking record", zap.String("id", record.ID), zap.Error(err))
				return err
			}
		}

		id, err := repo.Create(ctx, record)
		if errors.Is(err, recordsRepo.ErrDuplicateRecord) {
			logger.Info("Booking record already stored", zap.String("id", id))
			return nil
		}
		if err != nil {
			logger.Error("Failed to store booking record", zap.String("user", record.UserID), zap.Error(err))
			return err
		}
		logger.Info("Booking record stored",
			zap.String("id", id), zap.String("user", record.UserID), zap.String("slot", record.SlotStart))
		return nil
	}
}
