package subscription

import (
	"math"
	"time"
)

// DateLayout is the serialized calendar-date form used for NextPayment
// values and reminder ledger keys.
const DateLayout = "2006-01-02"

// ParseDate parses a YYYY-MM-DD calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a date in the serialized YYYY-MM-DD form.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// DaysUntil returns the signed number of days from now's calendar date to
// date. Negative means overdue, zero means due today. Both sides are
// truncated to UTC midnights so the day count is immune to DST shifts.
func DaysUntil(now, date time.Time) int {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	target := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return int(math.Ceil(target.Sub(today).Hours() / 24))
}

// Advance returns the due date one billing cycle after date. Month and
// quarter steps follow standard calendar rollover, so e.g. Jan 31 + one
// month lands in early March.
func Advance(date time.Time, cycle Cycle) time.Time {
	switch cycle {
	case CycleWeekly:
		return date.AddDate(0, 0, 7)
	case CycleQuarterly:
		return date.AddDate(0, 3, 0)
	case CycleYearly:
		return date.AddDate(1, 0, 0)
	default:
		return date.AddDate(0, 1, 0)
	}
}
