// Package availability searches professionals' day-keyed slot catalogs for bookable times.
package availability

import (
	"fmt"
	"strconv"
	"time"
)

const (
	dayLayout  = "2006-01-02"
	timeLayout = "15:04"
)

// Catalog is a read-only view of bookable times: professional -> day
// (YYYY-MM-DD) -> ascending HH:MM values. A missing day means no slots.
type Catalog interface {
	Times(professionalID int64, day string) []string
}

// MapCatalog is an in-memory Catalog snapshot.
type MapCatalog map[int64]map[string][]string

func (c MapCatalog) Times(professionalID int64, day string) []string {
	return c[professionalID][day]
}

// Add appends times to a professional's day. Callers add times in ascending order.
func (c MapCatalog) Add(professionalID int64, day string, times ...string) {
	days, ok := c[professionalID]
	if !ok {
		days = make(map[string][]string)
		c[professionalID] = days
	}
	days[day] = append(days[day], times...)
}

// Professionals returns how many professionals have at least one day entry.
func (c MapCatalog) Professionals() int {
	return len(c)
}

// Validate checks day keys and that each day's times are well-formed,
// strictly ascending and therefore free of duplicates.
func (c MapCatalog) Validate() error {
	for professionalID, days := range c {
		for day, times := range days {
			if _, err := time.Parse(dayLayout, day); err != nil {
				return fmt.Errorf("professional %d: invalid day %q", professionalID, day)
			}
			previous := -1
			for _, value := range times {
				minute, ok := minuteOfDay(value)
				if !ok {
					return fmt.Errorf("professional %d on %s: invalid time %q", professionalID, day, value)
				}
				if minute <= previous {
					return fmt.Errorf("professional %d on %s: times must be ascending without duplicates (at %q)", professionalID, day, value)
				}
				previous = minute
			}
		}
	}
	return nil
}

// minuteOfDay parses a strict HH:MM value.
func minuteOfDay(value string) (int, bool) {
	if len(value) != 5 || value[2] != ':' {
		return 0, false
	}
	hours, err := strconv.Atoi(value[:2])
	if err != nil || hours < 0 || hours > 23 {
		return 0, false
	}
	minutes, err := strconv.Atoi(value[3:])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}
	return hours*60 + minutes, true
}

// Slot is a bookable day and time for one professional.
type Slot struct {
	Date string `json:"date"`
	Time string `json:"time"`
}

// Before orders slots by day, then time of day.
func (s Slot) Before(other Slot) bool {
	if s.Date != other.Date {
		return s.Date < other.Date
	}
	return s.Time < other.Time
}

// StartsAt returns the slot as a UTC instant.
func (s Slot) StartsAt() (time.Time, error) {
	return time.Parse(dayLayout+" "+timeLayout, s.Date+" "+s.Time)
}

func (s Slot) String() string {
	return s.Date + " " + s.Time
}
