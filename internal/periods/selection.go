package periods

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

type Kind string

const (
	KindQuick  Kind = "quick"
	KindBest   Kind = "best"
	KindCustom Kind = "custom"
)

const customKey = "custom"

type ComparisonMode string

const (
	CompareNone         ComparisonMode = ""
	ComparePrevious     ComparisonMode = "previous"
	CompareYearOverYear ComparisonMode = "yearOverYear"
)

var ErrUnknownComparison = errors.New("unknown comparison mode")

// ParseComparisonMode accepts "", "none", "previous" and "yearOverYear"
// (case-insensitive; "year_over_year" and "yoy" are aliases).
func ParseComparisonMode(raw string) (ComparisonMode, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "none":
		return CompareNone, nil
	case "previous":
		return ComparePrevious, nil
	case "yearoveryear", "year_over_year", "yoy":
		return CompareYearOverYear, nil
	default:
		return CompareNone, fmt.Errorf("%w: %q", ErrUnknownComparison, raw)
	}
}

// InvalidRangeError reports a custom period that cannot be resolved.
type InvalidRangeError struct {
	Start  string
	End    string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range %q to %q: %s", e.Start, e.End, e.Reason)
}

type Comparison struct {
	Label string    `json:"label"`
	Range DateRange `json:"range"`
}

// Selection is a resolved reporting period. Callers replace a Selection
// wholesale instead of mutating it.
type Selection struct {
	Kind       Kind        `json:"kind"`
	Key        string      `json:"key"`
	Label      string      `json:"label"`
	Range      DateRange   `json:"range"`
	Comparison *Comparison `json:"comparison,omitempty"`
}

// WithComparison returns a copy of s carrying the comparison range for mode.
// CompareNone drops any existing comparison.
func (s Selection) WithComparison(mode ComparisonMode) (Selection, error) {
	out := s
	out.Comparison = nil
	if mode == CompareNone {
		return out, nil
	}
	comparison, err := ComparisonRange(s.Range, mode)
	if err != nil {
		return Selection{}, err
	}
	out.Comparison = &comparison
	return out, nil
}

// ComparisonRange derives the range a period is compared against.
//
// previous covers the same number of days and ends on the day before r starts.
// yearOverYear shifts both bounds back one year on the same month and day;
// February 29 maps to February 28.
func ComparisonRange(r DateRange, mode ComparisonMode) (Comparison, error) {
	switch mode {
	case ComparePrevious:
		days := r.Days()
		if days < 1 {
			days = 1
		}
		end := StartOfDay(r.Start).AddDate(0, 0, -1)
		start := end.AddDate(0, 0, -(days - 1))
		return Comparison{Label: "Previous period", Range: DayRange(start, end)}, nil
	case CompareYearOverYear:
		return Comparison{
			Label: "Same period last year",
			Range: DayRange(previousYear(r.Start), previousYear(r.End)),
		}, nil
	default:
		return Comparison{}, fmt.Errorf("%w: %q", ErrUnknownComparison, string(mode))
	}
}

func previousYear(t time.Time) time.Time {
	t = t.UTC()
	day := t.Day()
	if t.Month() == time.February && day == 29 {
		day = 28
	}
	return time.Date(t.Year()-1, t.Month(), day, 0, 0, 0, 0, time.UTC)
}

// QuickSelection resolves key relative to now and attaches the comparison for mode.
func QuickSelection(key string, now time.Time, history []time.Time, mode ComparisonMode) (Selection, error) {
	key = strings.TrimSpace(key)
	r, err := ResolveQuickPeriod(key, now, history)
	if err != nil {
		return Selection{}, err
	}
	return Selection{
		Kind:  KindQuick,
		Key:   key,
		Label: QuickLabel(key),
		Range: r,
	}.WithComparison(mode)
}

// ResolveCustomPeriod resolves explicit YYYY-MM-DD bounds into a whole-day
// selection. It returns *InvalidRangeError when a bound is missing or
// malformed, or when startDay falls after endDay.
func ResolveCustomPeriod(startDay, endDay string, mode ComparisonMode) (Selection, error) {
	startRaw := strings.TrimSpace(startDay)
	endRaw := strings.TrimSpace(endDay)
	if startRaw == "" || endRaw == "" {
		return Selection{}, &InvalidRangeError{Start: startRaw, End: endRaw, Reason: "start and end are required"}
	}

	startDate, err := time.Parse(DayLayout, startRaw)
	if err != nil {
		return Selection{}, &InvalidRangeError{Start: startRaw, End: endRaw, Reason: "start must be in YYYY-MM-DD format"}
	}
	endDate, err := time.Parse(DayLayout, endRaw)
	if err != nil {
		return Selection{}, &InvalidRangeError{Start: startRaw, End: endRaw, Reason: "end must be in YYYY-MM-DD format"}
	}
	if startDate.After(endDate) {
		return Selection{}, &InvalidRangeError{Start: startRaw, End: endRaw, Reason: "start must be on or before end"}
	}

	r := DayRange(startDate, endDate)
	return Selection{
		Kind:  KindCustom,
		Key:   customKey,
		Label: r.String(),
		Range: r,
	}.WithComparison(mode)
}

// BestSelection wraps a best-period window. Its range carries the exact
// window instants rather than whole days.
func BestSelection(key, label string, start, end time.Time) Selection {
	return Selection{
		Kind:  KindBest,
		Key:   key,
		Label: label,
		Range: DateRange{Start: start.UTC(), End: end.UTC()},
	}
}
