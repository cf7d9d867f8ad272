package tasks

import (
	"context"
	"errors"
	"testing"
	"time"

	"calbot/models"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureEnqueuer struct {
	tasks []*asynq.Task
	err   error
}

func (c *captureEnqueuer) EnqueueContext(_ context.Context, task *asynq.Task, _ ...asynq.Option) (*asynq.TaskInfo, error) {
	if c.err != nil {
		return nil, c.err
	}
	c.tasks = append(c.tasks, task)
	return &asynq.TaskInfo{ID: "t1", Type: task.Type()}, nil
}

func sampleRecord() models.BookingRecord {
	return models.BookingRecord{
		UserID:        "+919876543210",
		AttendeeName:  "Jane Doe",
		AttendeeEmail: "jane@x.com",
		SlotStart:     "2026-10-17T04:30:00.000Z",
		ConfirmedAt:   time.Date(2026, 10, 17, 4, 30, 0, 0, time.UTC),
		MeetingURL:    "https://cal.com/video/abc",
		HostName:      "Host",
		Duration:      30,
		BookedAt:      time.Date(2026, 10, 16, 4, 30, 0, 0, time.UTC),
	}
}

func TestRecordBookingEnqueuesTask(t *testing.T) {
	q := &captureEnqueuer{}
	rec := &AsyncBookingRecorder{Client: q}

	require.NoError(t, rec.RecordBooking(context.Background(), sampleRecord()))
	require.Len(t, q.tasks, 1)
	assert.Equal(t, TypeBookingRecord, q.tasks[0].Type())

	got, err := ParseBookingRecordTask(q.tasks[0])
	require.NoError(t, err)
	assert.NotEmpty(t, got.ID)
	want := sampleRecord()
	want.ID = got.ID
	assert.Equal(t, want, got)
}

func TestRecordBookingKeepsExistingID(t *testing.T) {
	q := &captureEnqueuer{}
	rec := sampleRecord()
	rec.ID = "rec-1"

	require.NoError(t, (&AsyncBookingRecorder{Client: q}).RecordBooking(context.Background(), rec))
	got, err := ParseBookingRecordTask(q.tasks[0])
	require.NoError(t, err)
	assert.Equal(t, "rec-1", got.ID)
}

func TestRecordBookingWrapsQueueError(t *testing.T) {
	rec := &AsyncBookingRecorder{Client: &captureEnqueuer{err: errors.New("redis down")}}

	err := rec.RecordBooking(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), TypeBookingRecord)
}

func TestParseBookingRecordTaskRejectsGarbage(t *testing.T) {
	_, err := ParseBookingRecordTask(asynq.NewTask(TypeBookingRecord, []byte("{")))
	assert.Error(t, err)
}
