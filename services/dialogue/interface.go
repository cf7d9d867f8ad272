// Package dialogue drives the five-step booking conversation.
package dialogue

import (
	"context"

	"calbot/models"
)

// DialogueService advances one user's conversation by one message.
type DialogueService interface {
	// Handle never fails for user-correctable input; errors are store or
	// network faults.
	Handle(ctx context.Context, userID, rawText string) (*models.Reply, error)
}

// BookingRecorder receives every booking the dialogue completes.
type BookingRecorder interface {
	RecordBooking(ctx context.Context, record models.BookingRecord) error
}
