package dates

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	ordinalSuffix = regexp.MustCompile(`\b(\d{1,2})(st|nd|rd|th)\b`)
	ordinalDay    = regexp.MustCompile(`^(?:the )?(\d{1,2})(?:st|nd|rd|th)$`)
	punctuation   = strings.NewReplacer(",", " ", "!", " ", "?", " ")
)

var weekdays = map[string]time.Weekday{
	"sunday": time.Sunday, "sun": time.Sunday,
	"monday": time.Monday, "mon": time.Monday,
	"tuesday": time.Tuesday, "tue": time.Tuesday, "tues": time.Tuesday,
	"wednesday": time.Wednesday, "wed": time.Wednesday,
	"thursday": time.Thursday, "thu": time.Thursday, "thur": time.Thursday, "thurs": time.Thursday,
	"friday": time.Friday, "fri": time.Friday,
	"saturday": time.Saturday, "sat": time.Saturday,
}

// Month names are matched case-insensitively by time.Parse.
var (
	fullDateLayouts = []string{
		"2006-01-02",
		"2/1/2006",
		"2-1-2006",
		"2.1.2006",
		"2 Jan 2006",
		"2 January 2006",
		"Jan 2 2006",
		"January 2 2006",
	}
	monthDayLayouts = []string{
		"2 Jan",
		"2 January",
		"Jan 2",
		"January 2",
	}
)

func normalize(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = punctuation.Replace(t)
	t = strings.TrimSuffix(strings.Join(strings.Fields(t), " "), ".")
	t = strings.TrimPrefix(t, "on ")
	return t
}

// matchRules handles the forms the dialogue advertises. today is midnight in
// the display timezone.
func matchRules(t string, today time.Time) (time.Time, bool) {
	switch t {
	case "today", "now":
		return today, true
	case "tomorrow", "tmrw", "tmr":
		return today.AddDate(0, 0, 1), true
	case "day after tomorrow", "the day after tomorrow":
		return today.AddDate(0, 0, 2), true
	}

	if d, ok := matchWeekday(t, today); ok {
		return d, true
	}
	if m := ordinalDay.FindStringSubmatch(t); m != nil {
		day, _ := strconv.Atoi(m[1])
		return nextDayOfMonth(day, today)
	}

	stripped := strings.TrimPrefix(ordinalSuffix.ReplaceAllString(t, "$1"), "the ")
	stripped = strings.ReplaceAll(stripped, " of ", " ")
	for _, layout := range fullDateLayouts {
		if d, err := time.ParseInLocation(layout, stripped, today.Location()); err == nil {
			return d, true
		}
	}
	for _, layout := range monthDayLayouts {
		if d, err := time.Parse(layout, stripped); err == nil {
			return nextMonthDay(d.Month(), d.Day(), today)
		}
	}
	return time.Time{}, false
}

// matchWeekday resolves "friday", "next fri" and "this friday". Only the
// "this" form may resolve to today; the others pick the next occurrence.
func matchWeekday(t string, today time.Time) (time.Time, bool) {
	prefix := ""
	name := t
	if i := strings.IndexByte(t, ' '); i > 0 {
		prefix, name = t[:i], t[i+1:]
	}
	wd, ok := weekdays[name]
	if !ok {
		return time.Time{}, false
	}
	ahead := (int(wd) - int(today.Weekday()) + 7) % 7
	switch prefix {
	case "this":
	case "", "next", "coming":
		if ahead == 0 {
			ahead = 7
		}
	default:
		return time.Time{}, false
	}
	return today.AddDate(0, 0, ahead), true
}

// nextDayOfMonth picks the first month, starting with the current one, whose
// day-of-month is not yet past and exists.
func nextDayOfMonth(day int, today time.Time) (time.Time, bool) {
	if day < 1 || day > 31 {
		return time.Time{}, false
	}
	y, m, _ := today.Date()
	for i := 0; i < 12; i++ {
		first := time.Date(y, m, 1, 0, 0, 0, 0, today.Location()).AddDate(0, i, 0)
		candidate := time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, today.Location())
		if candidate.Day() != day || candidate.Before(today) {
			continue
		}
		return candidate, true
	}
	return time.Time{}, false
}

// nextMonthDay resolves a yearless date to this year, or next year once past.
func nextMonthDay(month time.Month, day int, today time.Time) (time.Time, bool) {
	for _, year := range []int{today.Year(), today.Year() + 1} {
		candidate := time.Date(year, month, day, 0, 0, 0, 0, today.Location())
		if candidate.Day() != day {
			continue
		}
		if !candidate.Before(today) {
			return candidate, true
		}
	}
	return time.Time{}, false
}
