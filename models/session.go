package models

import (
	"strings"
	"time"
)

// Stage is the step of the booking dialogue a user is in.
type Stage int

const (
	// StageUnknown is what an unrecognised persisted stage decodes to.
	StageUnknown Stage = iota
	StageAskName
	StageAskEmail
	StageAskDate
	StageAskSlot
	StageConfirmBooking
)

var stageNames = map[Stage]string{
	StageAskName:        "ASK_NAME",
	StageAskEmail:       "ASK_EMAIL",
	StageAskDate:        "ASK_DATE",
	StageAskSlot:        "ASK_SLOT",
	StageConfirmBooking: "CONFIRM_BOOKING",
}

func (s Stage) String() string {
	if name, ok := stageNames[s]; ok {
		return name
	}
	return "UNKNOWN"
}

// ParseStage maps a stage name back to its value; anything else is StageUnknown.
func ParseStage(name string) Stage {
	name = strings.ToUpper(strings.TrimSpace(name))
	for stage, n := range stageNames {
		if n == name {
			return stage
		}
	}
	return StageUnknown
}

func (s Stage) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText never fails so that a corrupted stage still loads and reaches
// the dialogue's restart fallback.
func (s *Stage) UnmarshalText(b []byte) error {
	*s = ParseStage(string(b))
	return nil
}

// Session is the per-user dialogue state kept between messages.
type Session struct {
	Name         string      `json:"name,omitempty"`
	Email        string      `json:"email,omitempty"`
	Date         string      `json:"date,omitempty"` // YYYY-MM-DD in the display timezone
	Slots        SlotChoices `json:"slots,omitempty"`
	SelectedSlot *Slot       `json:"selected_slot,omitempty"`
	Stage        Stage       `json:"stage"`
	Version      int64       `json:"version"` // optimistic concurrency token, owned by the store
	UpdatedAt    time.Time   `json:"updated_at"`
}

// NewSession returns the state of a user the dialogue has not seen yet.
func NewSession() *Session {
	return &Session{Stage: StageAskName}
}

// ResetToDate drops everything chosen after the email step.
func (s *Session) ResetToDate() {
	s.Date = ""
	s.Slots = nil
	s.SelectedSlot = nil
	s.Stage = StageAskDate
}
