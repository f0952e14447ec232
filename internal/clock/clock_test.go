package clock

import (
	"testing"
	"time"
)

func TestFixed_AdvanceAndSet(t *testing.T) {
	start := time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC)
	c := NewFixed(start)

	if !c.Now().Equal(start) {
		t.Fatalf("Now() = %s, want %s", c.Now(), start)
	}

	c.Advance(90 * time.Minute)
	if want := start.Add(90 * time.Minute); !c.Now().Equal(want) {
		t.Fatalf("Now() after Advance = %s, want %s", c.Now(), want)
	}

	loc := time.FixedZone("UTC+2", 2*60*60)
	c.Set(time.Date(2025, 1, 1, 2, 0, 0, 0, loc))
	if c.Now().Location() != time.UTC {
		t.Fatalf("Set did not normalize to UTC: %s", c.Now().Location())
	}
	if c.Now().Hour() != 0 {
		t.Fatalf("hour = %d, want 0", c.Now().Hour())
	}
}

func TestOrReal(t *testing.T) {
	if _, ok := OrReal(nil).(Real); !ok {
		t.Fatalf("OrReal(nil) should return Real")
	}
	fixed := NewFixed(time.Unix(0, 0))
	if OrReal(fixed) != Clock(fixed) {
		t.Fatalf("OrReal should return the provided clock")
	}
	if Real{}.Now().Location() != time.UTC {
		t.Fatalf("Real clock should report UTC")
	}
}
