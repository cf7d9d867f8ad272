package recordsRepo

import (
	"context"

	"calbot/database"
	"calbot/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingRecordRepository interface {
	Create(ctx context.Context, record models.BookingRecord) (string, error)
	GetByID(ctx context.Context, id string) (*models.BookingRecord, error)
	EnsureIndexes() error
}

type mongoBookingRecordRepo struct {
	coll *mongo.Collection
}

// NewMongoBookingRecordRepo returns a BookingRecordRepository backed by the
// booking_records collection.
func NewMongoBookingRecordRepo() BookingRecordRepository {
	return &mongoBookingRecordRepo{
		coll: database.Database().Collection("booking_records"),
	}
}
