package periods

import (
	"errors"
	"testing"
	"time"
)

func day(t *testing.T, raw string) time.Time {
	t.Helper()
	parsed, err := time.Parse(DayLayout, raw)
	if err != nil {
		t.Fatalf("parse %q: %v", raw, err)
	}
	return parsed
}

func TestResolveQuickPeriod(t *testing.T) {
	now := time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		key       string
		wantStart string
		wantEnd   string
	}{
		{key: KeyToday, wantStart: "2025-10-15", wantEnd: "2025-10-15"},
		{key: KeyYesterday, wantStart: "2025-10-14", wantEnd: "2025-10-14"},
		{key: KeyLast7, wantStart: "2025-10-09", wantEnd: "2025-10-15"},
		{key: KeyLast30, wantStart: "2025-09-16", wantEnd: "2025-10-15"},
		{key: KeyLast90, wantStart: "2025-07-18", wantEnd: "2025-10-15"},
		{key: KeyThisMonth, wantStart: "2025-10-01", wantEnd: "2025-10-15"},
		{key: KeyLastMonth, wantStart: "2025-09-01", wantEnd: "2025-09-30"},
		{key: KeyThisYear, wantStart: "2025-01-01", wantEnd: "2025-10-15"},
		{key: KeyAllTime, wantStart: "2025-10-15", wantEnd: "2025-10-15"},
	}

	for _, test := range tests {
		t.Run(test.key, func(t *testing.T) {
			got, err := ResolveQuickPeriod(test.key, now, nil)
			if err != nil {
				t.Fatalf("ResolveQuickPeriod(%q) error = %v", test.key, err)
			}
			wantStart := day(t, test.wantStart)
			wantEnd := day(t, test.wantEnd).Add(24*time.Hour - time.Millisecond)
			if !got.Start.Equal(wantStart) {
				t.Fatalf("start = %s, want %s", got.Start, wantStart)
			}
			if !got.End.Equal(wantEnd) {
				t.Fatalf("end = %s, want %s", got.End, wantEnd)
			}
		})
	}
}

func TestResolveQuickPeriod_Last7Boundaries(t *testing.T) {
	now := time.Date(2025, 10, 15, 0, 0, 0, 0, time.UTC)

	got, err := ResolveQuickPeriod(KeyLast7, now, nil)
	if err != nil {
		t.Fatalf("ResolveQuickPeriod() error = %v", err)
	}
	if got.Start.Format(time.RFC3339Nano) != "2025-10-09T00:00:00Z" {
		t.Fatalf("start = %s", got.Start.Format(time.RFC3339Nano))
	}
	if got.End.Format(time.RFC3339Nano) != "2025-10-15T23:59:59.999Z" {
		t.Fatalf("end = %s", got.End.Format(time.RFC3339Nano))
	}
	if got.Days() != 7 {
		t.Fatalf("days = %d, want 7", got.Days())
	}
}

func TestResolveQuickPeriod_LastMonthAcrossYear(t *testing.T) {
	now := time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC)

	got, err := ResolveQuickPeriod(KeyLastMonth, now, nil)
	if err != nil {
		t.Fatalf("ResolveQuickPeriod() error = %v", err)
	}
	if !got.Start.Equal(day(t, "2025-12-01")) {
		t.Fatalf("start = %s, want 2025-12-01", got.Start)
	}
	if got.End.Format(DayLayout) != "2025-12-31" {
		t.Fatalf("end = %s, want 2025-12-31", got.End)
	}
}

func TestResolveQuickPeriod_AllTimeUsesHistory(t *testing.T) {
	now := time.Date(2025, 10, 15, 12, 0, 0, 0, time.UTC)
	history := []time.Time{
		time.Date(2025, 3, 5, 17, 0, 0, 0, time.UTC),
		time.Date(2024, 11, 2, 9, 30, 0, 0, time.UTC),
		time.Date(2025, 12, 1, 8, 0, 0, 0, time.UTC),
	}

	got, err := ResolveQuickPeriod(KeyAllTime, now, history)
	if err != nil {
		t.Fatalf("ResolveQuickPeriod() error = %v", err)
	}
	if !got.Start.Equal(day(t, "2024-11-02")) {
		t.Fatalf("start = %s, want 2024-11-02", got.Start)
	}
	if got.End.Format(DayLayout) != "2025-12-01" {
		t.Fatalf("end = %s, want 2025-12-01", got.End)
	}
}

func TestResolveQuickPeriod_UnknownKey(t *testing.T) {
	_, err := ResolveQuickPeriod("lastDecade", time.Now(), nil)
	if !errors.Is(err, ErrUnknownPeriod) {
		t.Fatalf("error = %v, want ErrUnknownPeriod", err)
	}
}

func TestResolveQuickPeriod_NormalizesToUTC(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	// 2025-10-15 22:00 at UTC-5 is already 2025-10-16 in UTC.
	now := time.Date(2025, 10, 15, 22, 0, 0, 0, loc)

	got, err := ResolveQuickPeriod(KeyToday, now, nil)
	if err != nil {
		t.Fatalf("ResolveQuickPeriod() error = %v", err)
	}
	if got.Start.Format(DayLayout) != "2025-10-16" {
		t.Fatalf("start = %s, want 2025-10-16", got.Start)
	}
}

func TestResolveCustomPeriod_InvalidRange(t *testing.T) {
	tests := []struct {
		name  string
		start string
		end   string
	}{
		{name: "start_after_end", start: "2025-10-20", end: "2025-10-10"},
		{name: "missing_start", start: "", end: "2025-10-10"},
		{name: "missing_end", start: "2025-10-10", end: "  "},
		{name: "malformed_start", start: "10/10/2025", end: "2025-10-20"},
		{name: "malformed_end", start: "2025-10-10", end: "2025-13-01"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := ResolveCustomPeriod(test.start, test.end, ComparePrevious)
			var rangeErr *InvalidRangeError
			if !errors.As(err, &rangeErr) {
				t.Fatalf("error = %v, want *InvalidRangeError", err)
			}
		})
	}
}

func TestResolveCustomPeriod_PreviousComparison(t *testing.T) {
	got, err := ResolveCustomPeriod("2025-10-10", "2025-10-20", ComparePrevious)
	if err != nil {
		t.Fatalf("ResolveCustomPeriod() error = %v", err)
	}
	if got.Kind != KindCustom {
		t.Fatalf("kind = %q, want custom", got.Kind)
	}
	if got.Label != "2025-10-10 to 2025-10-20" {
		t.Fatalf("label = %q", got.Label)
	}
	if got.Range.Days() != 11 {
		t.Fatalf("days = %d, want 11", got.Range.Days())
	}
	if got.Comparison == nil {
		t.Fatalf("expected comparison range")
	}
	cmp := got.Comparison.Range
	if cmp.Start.Format(DayLayout) != "2025-09-29" || cmp.End.Format(DayLayout) != "2025-10-09" {
		t.Fatalf("comparison = %s", cmp)
	}
	if cmp.Days() != got.Range.Days() {
		t.Fatalf("comparison days = %d, want %d", cmp.Days(), got.Range.Days())
	}
	if !cmp.End.Before(got.Range.Start) {
		t.Fatalf("comparison must end before the period starts")
	}
}

func TestResolveCustomPeriod_YearOverYear(t *testing.T) {
	got, err := ResolveCustomPeriod("2024-02-01", "2024-02-29", CompareYearOverYear)
	if err != nil {
		t.Fatalf("ResolveCustomPeriod() error = %v", err)
	}
	cmp := got.Comparison.Range
	if cmp.Start.Format(DayLayout) != "2023-02-01" {
		t.Fatalf("comparison start = %s", cmp.Start)
	}
	if cmp.End.Format(DayLayout) != "2023-02-28" {
		t.Fatalf("comparison end = %s, want 2023-02-28", cmp.End)
	}
	if got.Comparison.Label != "Same period last year" {
		t.Fatalf("label = %q", got.Comparison.Label)
	}
}

func TestResolveCustomPeriod_SingleDay(t *testing.T) {
	got, err := ResolveCustomPeriod("2025-10-10", "2025-10-10", CompareNone)
	if err != nil {
		t.Fatalf("ResolveCustomPeriod() error = %v", err)
	}
	if got.Comparison != nil {
		t.Fatalf("expected no comparison")
	}
	if got.Range.Days() != 1 {
		t.Fatalf("days = %d, want 1", got.Range.Days())
	}
}

func TestQuickSelection_WithComparison(t *testing.T) {
	now := time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC)

	got, err := QuickSelection(KeyLast7, now, nil, ComparePrevious)
	if err != nil {
		t.Fatalf("QuickSelection() error = %v", err)
	}
	if got.Kind != KindQuick || got.Label != "Last 7 days" {
		t.Fatalf("selection = %+v", got)
	}
	cmp := got.Comparison.Range
	if cmp.Start.Format(DayLayout) != "2025-10-02" || cmp.End.Format(DayLayout) != "2025-10-08" {
		t.Fatalf("comparison = %s", cmp)
	}

	cleared, err := got.WithComparison(CompareNone)
	if err != nil {
		t.Fatalf("WithComparison() error = %v", err)
	}
	if cleared.Comparison != nil {
		t.Fatalf("expected comparison to be dropped")
	}
	if got.Comparison == nil {
		t.Fatalf("original selection must not be mutated")
	}
}

func TestQuickSelection_TrimsKey(t *testing.T) {
	now := time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC)

	got, err := QuickSelection(" last7\t", now, nil, CompareNone)
	if err != nil {
		t.Fatalf("QuickSelection() error = %v", err)
	}
	if got.Key != KeyLast7 || got.Label != "Last 7 days" {
		t.Fatalf("key = %q, label = %q", got.Key, got.Label)
	}
}

func TestParseComparisonMode(t *testing.T) {
	tests := []struct {
		raw     string
		want    ComparisonMode
		wantErr bool
	}{
		{raw: "", want: CompareNone},
		{raw: "none", want: CompareNone},
		{raw: "previous", want: ComparePrevious},
		{raw: "yearOverYear", want: CompareYearOverYear},
		{raw: "YOY", want: CompareYearOverYear},
		{raw: "fortnight", wantErr: true},
	}

	for _, test := range tests {
		got, err := ParseComparisonMode(test.raw)
		if test.wantErr {
			if !errors.Is(err, ErrUnknownComparison) {
				t.Fatalf("ParseComparisonMode(%q) error = %v, want ErrUnknownComparison", test.raw, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("ParseComparisonMode(%q) error = %v", test.raw, err)
		}
		if got != test.want {
			t.Fatalf("ParseComparisonMode(%q) = %q, want %q", test.raw, got, test.want)
		}
	}
}
