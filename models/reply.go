package models

const (
	// ActionSendMessage tells the messaging bridge to deliver Message to the user.
	ActionSendMessage = "SEND_MESSAGE"

	StatusPending = "PENDING"
	StatusBooked  = "BOOKED"
)

// SignalRequest is the inbound webhook body.
type SignalRequest struct {
	Phone   string `json:"phone" binding:"required"`
	Message string `json:"message"`
}

// Reply is the webhook response envelope.
type Reply struct {
	Action  string                 `json:"action"`
	Message string                 `json:"message"`
	Status  string                 `json:"status"`
	Meta    map[string]interface{} `json:"meta"`
}

// PendingReply is an in-progress turn.
func PendingReply(message string) *Reply {
	return &Reply{Action: ActionSendMessage, Message: message, Status: StatusPending, Meta: map[string]interface{}{}}
}

// BookedReply ends the dialogue.
func BookedReply(message string) *Reply {
	return &Reply{Action: ActionSendMessage, Message: message, Status: StatusBooked, Meta: map[string]interface{}{}}
}
