package recordsRepo

import (
	"context"
	"errors"
	"time"

	"calbot/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrRecordNotFound  = errors.New("booking record not found")
	ErrDuplicateRecord = errors.New("booking record already stored")
)

// Create inserts a booking record and returns its ID.
func (r *mongoBookingRecordRepo) Create(ctx context.Context, record models.BookingRecord) (string, error) {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	record.CreatedAt = time.Now()

	_, err := r.coll.InsertOne(ctx, record)
	if mongo.IsDuplicateKeyError(err) {
		return record.ID, ErrDuplicateRecord
	}
	if err != nil {
		return "", err
	}
	return record.ID, nil
}

// GetByID returns ErrRecordNotFound when no record has the id.
func (r *mongoBookingRecordRepo) GetByID(ctx context.Context, id string) (*models.BookingRecord, error) {
	var record models.BookingRecord
	err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrRecordNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
