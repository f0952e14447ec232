// Package ranking orders professionals by how soon they can see a client.
package ranking

import (
	"runtime"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/codr1/Glamslot/internal/availability"
	"github.com/codr1/Glamslot/internal/models"
)

type Entry struct {
	Professional  models.Professional `json:"professional"`
	NextAvailable *availability.Slot  `json:"nextAvailable"`
}

// Result lists eligible professionals soonest first. Fastest points at the
// first entry with a slot and is nil when nobody has one.
type Result struct {
	Entries []Entry `json:"entries"`
	Fastest *Entry  `json:"fastest"`
}

type Ranker struct {
	Search      availability.Search
	Parallelism int
}

func NewRanker(search availability.Search) Ranker {
	return Ranker{Search: search}
}

func (r Ranker) limit() int {
	if r.Parallelism > 0 {
		return r.Parallelism
	}
	return runtime.GOMAXPROCS(0)
}

// Rank keeps the professionals able to perform every service in required,
// looks up each one's next slot and sorts them ascending by that slot.
// Professionals without a slot go last in their input order.
func (r Ranker) Rank(professionals []models.Professional, required []int64, now time.Time) Result {
	eligible := Eligible(professionals, required)
	entries := make([]Entry, len(eligible))

	var g errgroup.Group
	g.SetLimit(r.limit())
	for i, professional := range eligible {
		g.Go(func() error {
			entries[i] = Entry{Professional: professional}
			if slots := r.Search.NextAvailable(professional, 1, now); len(slots) > 0 {
				slot := slots[0]
				entries[i].NextAvailable = &slot
			}
			return nil
		})
	}
	// Lookups never fail; Wait only joins the workers.
	_ = g.Wait()

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].NextAvailable, entries[j].NextAvailable
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return a.Before(*b)
		}
	})

	result := Result{Entries: entries}
	if len(entries) > 0 && entries[0].NextAvailable != nil {
		fastest := entries[0]
		result.Fastest = &fastest
	}
	return result
}

// Eligible returns, in input order, the professionals who can perform all of
// required. An empty required list admits everyone.
func Eligible(professionals []models.Professional, required []int64) []models.Professional {
	out := make([]models.Professional, 0, len(professionals))
	for _, professional := range professionals {
		if professional.CanPerform(required...) {
			out = append(out, professional)
		}
	}
	return out
}
