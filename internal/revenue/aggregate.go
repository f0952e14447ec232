package revenue

import (
	"time"

	"github.com/shopspring/decimal"
)

// Between returns the events whose instant lies in [start, end], in input order.
func Between(events []Event, start, end time.Time) []Event {
	out := make([]Event, 0)
	for _, event := range events {
		if event.OccurredAt.Before(start) || event.OccurredAt.After(end) {
			continue
		}
		out = append(out, event)
	}
	return out
}

// Total sums the amounts of included events.
func Total(events []Event) decimal.Decimal {
	sum := decimal.Zero
	for _, event := range events {
		if event.Included {
			sum = sum.Add(event.Amount)
		}
	}
	return sum
}

// CountIncluded returns how many events carry revenue.
func CountIncluded(events []Event) int {
	n := 0
	for _, event := range events {
		if event.Included {
			n++
		}
	}
	return n
}

// Instants returns the instant of every event, included or not.
func Instants(events []Event) []time.Time {
	out := make([]time.Time, 0, len(events))
	for _, event := range events {
		out = append(out, event.OccurredAt)
	}
	return out
}
