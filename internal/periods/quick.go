package periods

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Quick period keys.
const (
	KeyToday     = "today"
	KeyYesterday = "yesterday"
	KeyLast7     = "last7"
	KeyLast30    = "last30"
	KeyLast90    = "last90"
	KeyThisMonth = "thisMonth"
	KeyLastMonth = "lastMonth"
	KeyThisYear  = "thisYear"
	KeyAllTime   = "allTime"
)

var ErrUnknownPeriod = errors.New("unknown period key")

var quickKeys = []string{
	KeyToday,
	KeyYesterday,
	KeyLast7,
	KeyLast30,
	KeyLast90,
	KeyThisMonth,
	KeyLastMonth,
	KeyThisYear,
	KeyAllTime,
}

var quickLabels = map[string]string{
	KeyToday:     "Today",
	KeyYesterday: "Yesterday",
	KeyLast7:     "Last 7 days",
	KeyLast30:    "Last 30 days",
	KeyLast90:    "Last 90 days",
	KeyThisMonth: "This month",
	KeyLastMonth: "Last month",
	KeyThisYear:  "This year",
	KeyAllTime:   "All time",
}

// QuickKeys returns the supported quick period keys in display order.
func QuickKeys() []string {
	keys := make([]string, len(quickKeys))
	copy(keys, quickKeys)
	return keys
}

// QuickLabel returns the display label for key, or "" when key is unknown.
func QuickLabel(key string) string {
	return quickLabels[key]
}

// IsQuickKey reports whether key names a quick period.
func IsQuickKey(key string) bool {
	_, ok := quickLabels[key]
	return ok
}

// ResolveQuickPeriod maps a quick period key to its UTC day-aligned range
// relative to now. history is only consulted for allTime, which spans the
// first through the last day present in it and falls back to today when empty.
func ResolveQuickPeriod(key string, now time.Time, history []time.Time) (DateRange, error) {
	now = now.UTC()
	today := StartOfDay(now)

	switch strings.TrimSpace(key) {
	case KeyToday:
		return DayRange(today, today), nil
	case KeyYesterday:
		yesterday := today.AddDate(0, 0, -1)
		return DayRange(yesterday, yesterday), nil
	case KeyLast7:
		return lastNDays(today, 7), nil
	case KeyLast30:
		return lastNDays(today, 30), nil
	case KeyLast90:
		return lastNDays(today, 90), nil
	case KeyThisMonth:
		first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		return DayRange(first, today), nil
	case KeyLastMonth:
		first := time.Date(now.Year(), now.Month()-1, 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1)
		return DayRange(first, last), nil
	case KeyThisYear:
		first := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return DayRange(first, today), nil
	case KeyAllTime:
		return allTimeRange(today, history), nil
	default:
		return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownPeriod, key)
	}
}

func lastNDays(today time.Time, days int) DateRange {
	return DayRange(today.AddDate(0, 0, -(days-1)), today)
}

func allTimeRange(today time.Time, history []time.Time) DateRange {
	if len(history) == 0 {
		return DayRange(today, today)
	}
	first, last := history[0], history[0]
	for _, t := range history[1:] {
		if t.Before(first) {
			first = t
		}
		if t.After(last) {
			last = t
		}
	}
	return DayRange(first, last)
}
