// Package revenue aggregates completed-appointment revenue and finds the
// highest-earning window of bounded length.
package revenue

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codr1/Glamslot/internal/models"
)

const day = 24 * time.Hour

var ErrInvalidSpan = errors.New("window span must be at least one day")

// Event is a revenue-bearing occurrence. Only Included events carry revenue.
type Event struct {
	OccurredAt time.Time       `json:"occurredAt"`
	Amount     decimal.Decimal `json:"amount"`
	Included   bool            `json:"included"`
}

// FromAppointment converts an appointment; only completed ones are included.
func FromAppointment(appt models.Appointment) Event {
	return Event{
		OccurredAt: appt.StartsAt.UTC(),
		Amount:     appt.Amount(),
		Included:   appt.CountsAsRevenue(),
	}
}

// FromAppointments converts appointments in order.
func FromAppointments(appts []models.Appointment) []Event {
	events := make([]Event, 0, len(appts))
	for _, appt := range appts {
		events = append(events, FromAppointment(appt))
	}
	return events
}

// Window is the result of a best-window search.
type Window struct {
	Start   time.Time       `json:"start"`
	End     time.Time       `json:"end"`
	Revenue decimal.Decimal `json:"revenue"`
}

// Category names a reporting bucket. Spans are fixed day counts, so a "month"
// is always 30 days of elapsed time regardless of the calendar.
type Category string

const (
	CategoryDay     Category = "day"
	CategoryWeek    Category = "week"
	CategoryMonth   Category = "month"
	CategoryQuarter Category = "quarter"
	CategoryYear    Category = "year"
)

var categorySpans = map[Category]int{
	CategoryDay:     1,
	CategoryWeek:    7,
	CategoryMonth:   30,
	CategoryQuarter: 90,
	CategoryYear:    365,
}

func ParseCategory(raw string) (Category, error) {
	category := Category(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := categorySpans[category]; !ok {
		return "", fmt.Errorf("invalid category %q", raw)
	}
	return category, nil
}

// SpanDays returns the maximum window length in days, or 0 for unknown categories.
func (c Category) SpanDays() int {
	return categorySpans[c]
}

// Label is the report heading for the category's best window.
func (c Category) Label() string {
	switch c {
	case CategoryDay:
		return "Best day"
	case CategoryWeek:
		return "Best week"
	case CategoryMonth:
		return "Best month"
	case CategoryQuarter:
		return "Best quarter"
	case CategoryYear:
		return "Best year"
	default:
		return "Best period"
	}
}

// FindBestWindow returns the contiguous window whose elapsed length is at most
// maxSpanDays days and whose included revenue is greatest. Events may be
// unsorted. Ties keep the earliest window found.
//
// With no included events the window collapses onto now with zero revenue.
// When no window has positive revenue it collapses onto the first event.
func FindBestWindow(events []Event, maxSpanDays int, now time.Time) (Window, error) {
	if maxSpanDays < 1 {
		return Window{}, ErrInvalidSpan
	}

	included := make([]Event, 0, len(events))
	for _, event := range events {
		if event.Included {
			included = append(included, event)
		}
	}
	if len(included) == 0 {
		now = now.UTC()
		return Window{Start: now, End: now, Revenue: decimal.Zero}, nil
	}

	sort.SliceStable(included, func(i, j int) bool {
		return included[i].OccurredAt.Before(included[j].OccurredAt)
	})

	maxSpan := time.Duration(maxSpanDays) * day
	first := included[0].OccurredAt.UTC()
	best := Window{Start: first, End: first, Revenue: decimal.Zero}

	sum := decimal.Zero
	lo := 0
	for hi := range included {
		sum = sum.Add(included[hi].Amount)
		for included[hi].OccurredAt.Sub(included[lo].OccurredAt) > maxSpan {
			sum = sum.Sub(included[lo].Amount)
			lo++
		}
		if sum.GreaterThan(best.Revenue) {
			best = Window{
				Start:   included[lo].OccurredAt.UTC(),
				End:     included[hi].OccurredAt.UTC(),
				Revenue: sum,
			}
		}
	}

	return best, nil
}

// FindBestPeriod runs FindBestWindow with the span of category.
func FindBestPeriod(events []Event, category Category, now time.Time) (Window, error) {
	span := category.SpanDays()
	if span == 0 {
		return Window{}, fmt.Errorf("invalid category %q", category)
	}
	return FindBestWindow(events, span, now)
}
