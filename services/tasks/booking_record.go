package tasks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"calbot/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TypeBookingRecord = "booking:record"

// NewBookingRecordTask wraps a completed booking for the records worker.
func NewBookingRecordTask(record models.BookingRecord) (*asynq.Task, []asynq.Option, error) {
	b, err := json.Marshal(record)
	if err != nil {
		return nil, nil, err
	}
	task := asynq.NewTask(TypeBookingRecord, b)
	opts := []asynq.Option{asynq.MaxRetry(10), asynq.Timeout(30 * time.Second)}

	return task, opts, nil
}

// ParseBookingRecordTask is the inverse of NewBookingRecordTask.
func ParseBookingRecordTask(task *asynq.Task) (models.BookingRecord, error) {
	var record models.BookingRecord
	if err := json.Unmarshal(task.Payload(), &record); err != nil {
		return record, fmt.Errorf("decode %s payload: %w", TypeBookingRecord, err)
	}
	return record, nil
}

// TaskEnqueuer is the part of *asynq.Client the recorder needs.
type TaskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// AsyncBookingRecorder queues booking records instead of writing them inline.
type AsyncBookingRecorder struct {
	Client TaskEnqueuer
}

// RecordBooking assigns the record id up front so that worker retries of the
// same task store it once.
func (r *AsyncBookingRecorder) RecordBooking(ctx context.Context, record models.BookingRecord) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	task, opts, err := NewBookingRecordTask(record)
	if err != nil {
		return err
	}
	if _, err := r.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue %s: %w", TypeBookingRecord, err)
	}
	return nil
}
