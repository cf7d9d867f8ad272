package dates

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubParser struct {
	t     time.Time
	found bool
	err   error
	calls int
}

func (p *stubParser) Parse(string, time.Time) (time.Time, bool, error) {
	p.calls++
	return p.t, p.found, p.err
}

func kolkata(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	return loc
}

// Friday 16 Oct 2026, 10:00 IST.
func fixedNow(t *testing.T) time.Time {
	return time.Date(2026, 10, 16, 10, 0, 0, 0, kolkata(t))
}

func TestResolveBuiltInForms(t *testing.T) {
	r := NewDefaultResolver(kolkata(t), 30, nil)
	now := fixedNow(t)

	tests := []struct {
		name string
		text string
		want string
	}{
		{name: "today", text: "today", want: "2026-10-16"},
		{name: "tomorrow mixed case", text: "  Tomorrow ", want: "2026-10-17"},
		{name: "day after tomorrow", text: "day after tomorrow", want: "2026-10-18"},
		{name: "bare weekday skips today", text: "Friday", want: "2026-10-23"},
		{name: "this weekday allows today", text: "this friday", want: "2026-10-16"},
		{name: "next weekday", text: "next monday", want: "2026-10-19"},
		{name: "abbreviated weekday", text: "sat", want: "2026-10-17"},
		{name: "leading on and trailing dot", text: "On Wednesday.", want: "2026-10-21"},
		{name: "ordinal this month", text: "25th", want: "2026-10-25"},
		{name: "ordinal rolls to next month", text: "the 3rd", want: "2026-11-03"},
		{name: "ordinal at horizon edge", text: "15th", want: "2026-11-15"},
		{name: "iso", text: "2026-10-20", want: "2026-10-20"},
		{name: "day month year slashes", text: "20/10/2026", want: "2026-10-20"},
		{name: "day short month", text: "25 Oct", want: "2026-10-25"},
		{name: "month day ordinal", text: "October 25th", want: "2026-10-25"},
		{name: "ordinal of month", text: "2nd of November", want: "2026-11-02"},
		{name: "month day year", text: "Nov 2, 2026", want: "2026-11-02"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Resolve(tt.text, now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ISO(got))
			assert.Equal(t, kolkata(t).String(), got.Location().String())
		})
	}
}

func TestResolveUsesDisplayTimezoneForToday(t *testing.T) {
	r := NewDefaultResolver(kolkata(t), 30, nil)
	// 20:00 UTC on the 15th is already the 16th in Kolkata.
	now := time.Date(2026, 10, 15, 20, 0, 0, 0, time.UTC)

	got, err := r.Resolve("today", now)
	require.NoError(t, err)
	assert.Equal(t, "2026-10-16", ISO(got))
}

func TestResolveRejectsOutsideHorizon(t *testing.T) {
	r := NewDefaultResolver(kolkata(t), 30, nil)
	now := fixedNow(t)

	for _, text := range []string{"2026-10-15", "2026-11-16", "1 Jan"} {
		_, err := r.Resolve(text, now)
		assert.ErrorIs(t, err, ErrOutsideHorizon, text)
	}
}

func TestResolveFallsBackToParser(t *testing.T) {
	parser := &stubParser{t: time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC), found: true}
	r := NewDefaultResolver(kolkata(t), 30, parser)

	got, err := r.Resolve("in three days or so", fixedNow(t))
	require.NoError(t, err)
	assert.Equal(t, 1, parser.calls)
	assert.Equal(t, "2026-10-19", ISO(got))
}

func TestResolveParserResultStillHorizonChecked(t *testing.T) {
	parser := &stubParser{t: time.Date(2027, 3, 1, 9, 0, 0, 0, time.UTC), found: true}
	r := NewDefaultResolver(kolkata(t), 30, parser)

	_, err := r.Resolve("sometime in march", fixedNow(t))
	assert.ErrorIs(t, err, ErrOutsideHorizon)
}

func TestResolveUnparseable(t *testing.T) {
	for _, parser := range []*stubParser{{}, {err: errors.New("boom")}} {
		r := NewDefaultResolver(kolkata(t), 30, parser)
		_, err := r.Resolve("whenever works", fixedNow(t))
		assert.ErrorIs(t, err, ErrUnparseable)
	}

	r := NewDefaultResolver(kolkata(t), 30, nil)
	_, err := r.Resolve("", fixedNow(t))
	assert.ErrorIs(t, err, ErrUnparseable)
}

func TestResolveIsDeterministic(t *testing.T) {
	r := NewDefaultResolver(kolkata(t), 30, nil)
	now := fixedNow(t)
	first, err := r.Resolve("next tue", now)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := r.Resolve("next tue", now)
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}
}

func TestNextDayOfMonthSkipsShortMonths(t *testing.T) {
	today := time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)

	got, ok := nextDayOfMonth(30, today)
	require.True(t, ok)
	assert.Equal(t, "2026-03-30", ISO(got))

	_, ok = nextDayOfMonth(32, today)
	assert.False(t, ok)
}

func TestNextMonthDayRollsIntoNextYear(t *testing.T) {
	today := time.Date(2026, 12, 20, 0, 0, 0, 0, time.UTC)

	got, ok := nextMonthDay(time.January, 5, today)
	require.True(t, ok)
	assert.Equal(t, "2027-01-05", ISO(got))
}
