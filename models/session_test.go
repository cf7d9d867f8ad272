package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStageRoundTripsByName(t *testing.T) {
	in := Session{Name: "Jane", Stage: StageConfirmBooking, Slots: NewSlotChoices([]Slot{{IsoStart: "x", Label: "X"}})}
	b, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"stage":"CONFIRM_BOOKING"`)

	var out Session
	require.NoError(t, json.Unmarshal(b, &out))
	assert.Equal(t, StageConfirmBooking, out.Stage)
	assert.Equal(t, "X", out.Slots["1"].Label)
}

func TestCorruptedStageDecodesToUnknown(t *testing.T) {
	var s Session
	require.NoError(t, json.Unmarshal([]byte(`{"name":"Jane","stage":"ASK_SHOE_SIZE"}`), &s))
	assert.Equal(t, StageUnknown, s.Stage)
	assert.Equal(t, "UNKNOWN", s.Stage.String())
}

func TestResetToDateKeepsIdentity(t *testing.T) {
	s := &Session{
		Name:         "Jane",
		Email:        "jane@x.com",
		Date:         "2026-10-17",
		Slots:        NewSlotChoices([]Slot{{Label: "A"}}),
		SelectedSlot: &Slot{Label: "A"},
		Stage:        StageConfirmBooking,
	}
	s.ResetToDate()

	assert.Equal(t, StageAskDate, s.Stage)
	assert.Equal(t, "Jane", s.Name)
	assert.Equal(t, "jane@x.com", s.Email)
	assert.Empty(t, s.Slots)
	assert.Nil(t, s.SelectedSlot)
	assert.Empty(t, s.Date)
}

func TestParseStage(t *testing.T) {
	assert.Equal(t, StageAskSlot, ParseStage("ask_slot"))
	assert.Equal(t, StageUnknown, ParseStage(""))
}
