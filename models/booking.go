package models

import "time"

// BookingRecord is the audit copy of a booking confirmed through the chat dialogue.
type BookingRecord struct {
	ID            string    `bson:"id" json:"id"`                                       // Unique record identifier (UUID)
	UserID        string    `bson:"user_id" json:"user_id"`                             // Chat user identifier (phone number)
	AttendeeName  string    `bson:"attendee_name" json:"attendee_name"`                 // Name collected in ASK_NAME
	AttendeeEmail string    `bson:"attendee_email" json:"attendee_email"`               // Email collected in ASK_EMAIL
	SlotStart     string    `bson:"slot_start" json:"slot_start"`                       // UTC start submitted to the scheduling API
	ConfirmedAt   time.Time `bson:"confirmed_start,omitempty" json:"confirmed_start"`   // Start time echoed back by the API
	MeetingURL    string    `bson:"meeting_url" json:"meeting_url"`                     // Meeting link or location
	HostName      string    `bson:"host_name" json:"host_name"`                         // First host on the booking
	Duration      int       `bson:"duration" json:"duration"`                           // Minutes
	BookedAt      time.Time `bson:"booked_at" json:"booked_at"`                         // When the dialogue completed
	CreatedAt     time.Time `bson:"created_at,omitempty" json:"created_at,omitempty"`   // Set by the repository
}

// Confirmation is what the scheduling API reports back for a successful booking.
type Confirmation struct {
	Start      time.Time `json:"start"`      // zero when the API omitted it
	MeetingURL string    `json:"meetingUrl"` // meetingUrl, then location, then a placeholder
	Duration   int       `json:"duration"`   // minutes
	HostName   string    `json:"hostName"`
}
