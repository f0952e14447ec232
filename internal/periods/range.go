// Package periods resolves named and custom reporting periods into UTC day-aligned ranges.
package periods

import (
	"fmt"
	"time"
)

// DayLayout is the calendar-day format used for keys and query parameters.
const DayLayout = "2006-01-02"

// DateRange is an inclusive [Start, End] interval. Whole-day ranges start at
// 00:00:00.000 and end at 23:59:59.999 UTC.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// StartOfDay returns the first instant of t's UTC calendar day.
func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the last millisecond of t's UTC calendar day.
func EndOfDay(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1).Add(-time.Millisecond)
}

// DayRange spans the whole UTC days from first through last.
func DayRange(first, last time.Time) DateRange {
	return DateRange{Start: StartOfDay(first), End: EndOfDay(last)}
}

// Contains reports whether t falls within the range, bounds included.
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Days returns the number of calendar days touched by the range.
func (r DateRange) Days() int {
	if r.End.Before(r.Start) {
		return 0
	}
	return int(StartOfDay(r.End).Sub(StartOfDay(r.Start))/(24*time.Hour)) + 1
}

func (r DateRange) String() string {
	return formatDateRange(r.Start, r.End)
}

func formatDateRange(startDate time.Time, endDate time.Time) string {
	return fmt.Sprintf("%s to %s", startDate.UTC().Format(DayLayout), endDate.UTC().Format(DayLayout))
}
