package dates

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWhenParserFallback(t *testing.T) {
	loc := kolkata(t)
	r := NewDefaultResolver(loc, 30, NewWhenParser())
	now := fixedNow(t)

	got, err := r.Resolve("in 3 days", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-19", ISO(got))
	assert.Equal(t, loc, got.Location())

	_, err = r.Resolve("yesterday", now)
	assert.ErrorIs(t, err, ErrOutsideHorizon)

	_, err = r.Resolve("whenever suits", now)
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestWhenParserUsesDisplayDay(t *testing.T) {
	loc := kolkata(t)
	r := NewDefaultResolver(loc, 30, NewWhenParser())

	cases := []struct {
		name string
		now  time.Time
		want string
	}{
		// 23:45 IST is still the same UTC day.
		{"late evening", time.Date(2026, 10, 16, 23, 45, 0, 0, loc), "2026-10-18"},
		// 00:30 IST on the 17th is the 16th in UTC.
		{"just after midnight", time.Date(2026, 10, 17, 0, 30, 0, 0, loc), "2026-10-19"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := r.Resolve("in 2 days", tc.now.UTC())
			require.NoError(t, err)
			assert.Equal(t, tc.want, ISO(got))
		})
	}
}
