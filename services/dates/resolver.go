// Package dates turns free-text date replies into calendar days inside the
// booking horizon.
package dates

import (
	"errors"
	"time"
)

var (
	// ErrUnparseable means no rule or parser recognised the text.
	ErrUnparseable = errors.New("date not understood")
	// ErrOutsideHorizon means the date is in the past or too far ahead.
	ErrOutsideHorizon = errors.New("date outside booking horizon")
)

// Resolver resolves user text to a day in the display timezone.
type Resolver interface {
	Resolve(text string, now time.Time) (time.Time, error)
}

// Parser is the pluggable natural-language engine consulted when none of the
// built-in rules match. found is false when the text holds no date.
type Parser interface {
	Parse(text string, base time.Time) (t time.Time, found bool, err error)
}

// DefaultResolver applies the built-in rules, then Parser, then the horizon check.
type DefaultResolver struct {
	Location    *time.Location
	HorizonDays int
	Parser      Parser
}

func NewDefaultResolver(loc *time.Location, horizonDays int, parser Parser) *DefaultResolver {
	if loc == nil {
		loc = time.UTC
	}
	return &DefaultResolver{Location: loc, HorizonDays: horizonDays, Parser: parser}
}

// Resolve returns midnight of the resolved day in r.Location.
func (r *DefaultResolver) Resolve(text string, now time.Time) (time.Time, error) {
	local := now.In(r.Location)
	today := StartOfDay(local)

	day, ok := matchRules(normalize(text), today)
	if !ok && r.Parser != nil {
		parsed, found, err := r.Parser.Parse(text, local)
		if err == nil && found {
			day, ok = StartOfDay(parsed.In(r.Location)), true
		}
	}
	if !ok {
		return time.Time{}, ErrUnparseable
	}

	if day.Before(today) || day.After(HorizonEnd(today, r.HorizonDays)) {
		return time.Time{}, ErrOutsideHorizon
	}
	return day, nil
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// HorizonEnd is the last bookable day.
func HorizonEnd(today time.Time, horizonDays int) time.Time {
	return today.AddDate(0, 0, horizonDays)
}

// Format renders a day the way the dialogue quotes it back.
func Format(day time.Time) string {
	return day.Format("Mon, 02 Jan 2006")
}

// ISO renders a day as YYYY-MM-DD.
func ISO(day time.Time) string {
	return day.Format("2006-01-02")
}
