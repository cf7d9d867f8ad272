package models

import (
	"sort"
	"strconv"
	"strings"
)

// MaxSlotChoices is the most options offered to the user at once.
const MaxSlotChoices = 3

// Slot is one bookable window offered to the user.
type Slot struct {
	IsoStart string `json:"iso_start"` // UTC timestamp as returned by the scheduling API
	Label    string `json:"label"`     // display string in the display timezone
}

// SlotChoices maps a 1-based choice key ("1".."3") to a slot.
type SlotChoices map[string]Slot

// NewSlotChoices keys slots "1".."n" in order, keeping at most MaxSlotChoices.
func NewSlotChoices(slots []Slot) SlotChoices {
	choices := make(SlotChoices, len(slots))
	for i, s := range slots {
		if i == MaxSlotChoices {
			break
		}
		choices[strconv.Itoa(i+1)] = s
	}
	return choices
}

// Keys returns the choice keys in numeric order.
func (c SlotChoices) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, _ := strconv.Atoi(keys[i])
		b, _ := strconv.Atoi(keys[j])
		return a < b
	})
	return keys
}

// Lookup finds the slot for a user reply such as " 2 ".
func (c SlotChoices) Lookup(reply string) (Slot, bool) {
	s, ok := c[strings.TrimSpace(reply)]
	return s, ok
}

// ChoiceList renders the keys for a prompt: "1", "1 or 2", "1, 2, or 3".
func (c SlotChoices) ChoiceList() string {
	keys := c.Keys()
	switch len(keys) {
	case 0:
		return ""
	case 1:
		return keys[0]
	case 2:
		return keys[0] + " or " + keys[1]
	default:
		return strings.Join(keys[:len(keys)-1], ", ") + ", or " + keys[len(keys)-1]
	}
}
