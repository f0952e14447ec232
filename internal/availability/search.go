package availability

import (
	"time"

	"github.com/codr1/Glamslot/internal/models"
)

// DefaultHorizonDays is how far ahead a search looks, today included.
const DefaultHorizonDays = 90

// maxPreallocSlots bounds the initial result capacity; count may be huge.
const maxPreallocSlots = 16

type Search struct {
	Catalog     Catalog
	HorizonDays int
}

func NewSearch(catalog Catalog, horizonDays int) Search {
	return Search{Catalog: catalog, HorizonDays: horizonDays}
}

func (s Search) horizon() int {
	if s.HorizonDays <= 0 {
		return DefaultHorizonDays
	}
	return s.HorizonDays
}

// NextAvailable returns up to count slots in ascending order, walking the
// horizon from now's UTC day. On that first day, times at or before now's
// minute are skipped. NoPreference and unknown professionals yield no slots.
func (s Search) NextAvailable(choice models.Choice, count int, now time.Time) []Slot {
	professionalID, ok := professionalIDOf(choice)
	if !ok || count <= 0 || s.Catalog == nil {
		return nil
	}

	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	nowMinute := now.Hour()*60 + now.Minute()

	slots := make([]Slot, 0, min(count, maxPreallocSlots))
	for offset := 0; offset < s.horizon(); offset++ {
		day := today.AddDate(0, 0, offset).Format(dayLayout)
		for _, value := range s.Catalog.Times(professionalID, day) {
			minute, ok := minuteOfDay(value)
			if !ok {
				continue
			}
			if offset == 0 && minute <= nowMinute {
				continue
			}
			slots = append(slots, Slot{Date: day, Time: value})
			if len(slots) == count {
				return slots
			}
		}
	}
	return slots
}

func professionalIDOf(choice models.Choice) (int64, bool) {
	switch c := choice.(type) {
	case models.Professional:
		return c.ID, true
	case *models.Professional:
		if c == nil {
			return 0, false
		}
		return c.ID, true
	default:
		return 0, false
	}
}
