// Package recurrence computes the next firing time of a recurring reminder.
package recurrence

import (
	"time"

	"github.com/ayane2751/fairybot/internal/models"
)

// NextDate advances an RFC 3339 instant by one recurrence unit and returns
// it in the sheet's timestamp format. ok is false for an unparseable instant
// or an unrecognized kind; it never panics, so the scheduler decides what a
// reschedule failure means.
func NextDate(isoInstant string, kind models.Recurring) (string, bool) {
	t, ok := models.ParseTime(isoInstant)
	if !ok {
		return "", false
	}

	var next time.Time
	switch kind {
	case models.RecurringDaily:
		next = t.AddDate(0, 0, 1)
	case models.RecurringWeekly:
		next = t.AddDate(0, 0, 7)
	case models.RecurringMonthly:
		next = addMonthClamped(t)
	default:
		return "", false
	}

	return models.FormatTime(next), true
}

// addMonthClamped adds one calendar month, clamping to the last day of the
// shorter month (Jan 31 → Feb 28/29). The clamped day-of-month carries
// forward on later occurrences; time.Time.AddDate would normalize Jan 31 +
// 1 month into early March instead.
func addMonthClamped(t time.Time) time.Time {
	year, month, day := t.Date()
	month++
	if month > time.December {
		month = time.January
		year++
	}
	if last := daysIn(year, month); day > last {
		day = last
	}
	return time.Date(year, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
