// Package reports combines resolved periods with revenue events into the
// figures shown on report screens and in the weekly digest.
package reports

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codr1/Glamslot/internal/periods"
	"github.com/codr1/Glamslot/internal/revenue"
	"github.com/codr1/Glamslot/internal/trend"
)

type Summary struct {
	Selection     periods.Selection  `json:"selection"`
	Revenue       decimal.Decimal    `json:"revenue"`
	Appointments  int                `json:"appointments"`
	Completed     int                `json:"completed"`
	AverageTicket decimal.Decimal    `json:"averageTicket"`
	Comparison    *ComparisonSummary `json:"comparison,omitempty"`
}

type ComparisonSummary struct {
	Label     string            `json:"label"`
	Range     periods.DateRange `json:"range"`
	Revenue   decimal.Decimal   `json:"revenue"`
	Completed int               `json:"completed"`
	// Change is a percentage; +Inf when the comparison earned nothing.
	Change        float64  `json:"-"`
	ChangePercent *float64 `json:"changePercent"`
	ChangeLabel   string   `json:"changeLabel"`
}

// Summarize totals the events inside the selection's range and, when the
// selection carries a comparison, the events inside that range too.
func Summarize(events []revenue.Event, selection periods.Selection) Summary {
	inRange := revenue.Between(events, selection.Range.Start, selection.Range.End)
	summary := Summary{
		Selection:     selection,
		Revenue:       revenue.Total(inRange),
		Appointments:  len(inRange),
		Completed:     revenue.CountIncluded(inRange),
		AverageTicket: decimal.Zero,
	}
	if summary.Completed > 0 {
		summary.AverageTicket = summary.Revenue.Div(decimal.NewFromInt(int64(summary.Completed))).Round(2)
	}

	if selection.Comparison != nil {
		compared := revenue.Between(events, selection.Comparison.Range.Start, selection.Comparison.Range.End)
		previous := revenue.Total(compared)
		change := trend.PercentChange(summary.Revenue, previous)
		summary.Comparison = &ComparisonSummary{
			Label:         selection.Comparison.Label,
			Range:         selection.Comparison.Range,
			Revenue:       previous,
			Completed:     revenue.CountIncluded(compared),
			Change:        change,
			ChangePercent: trend.Nullable(change),
			ChangeLabel:   trend.Format(change),
		}
	}
	return summary
}

// BestPeriodSelection finds the best window for category and wraps it as a
// best-kind selection labelled after the category.
func BestPeriodSelection(events []revenue.Event, category revenue.Category, now time.Time) (periods.Selection, revenue.Window, error) {
	window, err := revenue.FindBestPeriod(events, category, now)
	if err != nil {
		return periods.Selection{}, revenue.Window{}, fmt.Errorf("best %s: %w", category, err)
	}
	selection := periods.BestSelection("best_"+string(category), category.Label(), window.Start, window.End)
	return selection, window, nil
}

// Digest is the periodic revenue recap sent by email.
type Digest struct {
	GeneratedAt time.Time         `json:"generatedAt"`
	Week        Summary           `json:"week"`
	BestWeek    periods.Selection `json:"bestWeek"`
	BestRevenue decimal.Decimal   `json:"bestRevenue"`
}

// BuildDigest summarizes the last seven days against the seven before them
// and finds the best week on record.
func BuildDigest(events []revenue.Event, now time.Time) (Digest, error) {
	selection, err := periods.QuickSelection(periods.KeyLast7, now, nil, periods.ComparePrevious)
	if err != nil {
		return Digest{}, err
	}
	best, window, err := BestPeriodSelection(events, revenue.CategoryWeek, now)
	if err != nil {
		return Digest{}, err
	}
	return Digest{
		GeneratedAt: now.UTC(),
		Week:        Summarize(events, selection),
		BestWeek:    best,
		BestRevenue: window.Revenue,
	}, nil
}
