package booking

// NOTE: Tests cannot use t.Parallel() due to shared package state.

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/codr1/Glamslot/internal/availability"
	"github.com/codr1/Glamslot/internal/clock"
	"github.com/codr1/Glamslot/internal/db"
	"github.com/codr1/Glamslot/internal/ranking"
	"github.com/codr1/Glamslot/internal/testutil"
)

var testNow = time.Date(2025, 10, 15, 14, 30, 0, 0, time.UTC)

type bookingFixture struct {
	database *db.DB
	cut      int64
	color    int64
	ana      int64
	bea      int64
}

func setupBookingTest(t *testing.T) bookingFixture {
	t.Helper()

	database := testutil.NewTestDB(t)

	queries = nil
	clk = nil
	opts = Options{}
	queriesOnce = sync.Once{}
	InitHandlers(database, clock.NewFixed(testNow), Options{HorizonDays: 30, DefaultSlotCount: 3, RankingParallelism: 2})

	t.Cleanup(func() {
		queries = nil
		clk = nil
		opts = Options{}
		queriesOnce = sync.Once{}
	})

	f := bookingFixture{database: database}
	f.cut = testutil.CreateService(t, database, "Cut", 4500)
	f.color = testutil.CreateService(t, database, "Color", 9000)
	f.ana = testutil.CreateProfessional(t, database, "Ana", 1, f.cut)
	f.bea = testutil.CreateProfessional(t, database, "Bea", 2, f.cut, f.color)

	testutil.AddSlots(t, database, f.ana, "2025-10-15", "14:00", "15:00")
	testutil.AddSlots(t, database, f.ana, "2025-10-16", "09:00", "10:00")
	testutil.AddSlots(t, database, f.bea, "2025-10-16", "08:30")
	testutil.AddSlots(t, database, f.bea, "2025-12-01", "08:00")

	return f
}

func slotsRequest(id int64, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/professionals/%d/slots%s", id, query), nil)
	req.SetPathValue("id", fmt.Sprint(id))
	return req
}

func TestHandleProfessionalSlots_SkipsPastToday(t *testing.T) {
	f := setupBookingTest(t)

	recorder := httptest.NewRecorder()
	HandleProfessionalSlots(recorder, slotsRequest(f.ana, ""))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body.String())
	}
	var body struct {
		Slots []availability.Slot `json:"slots"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := []availability.Slot{
		{Date: "2025-10-15", Time: "15:00"},
		{Date: "2025-10-16", Time: "09:00"},
		{Date: "2025-10-16", Time: "10:00"},
	}
	if fmt.Sprint(body.Slots) != fmt.Sprint(want) {
		t.Fatalf("slots = %v, want %v", body.Slots, want)
	}
}

func TestHandleProfessionalSlots_HorizonBoundsCatalog(t *testing.T) {
	f := setupBookingTest(t)

	recorder := httptest.NewRecorder()
	HandleProfessionalSlots(recorder, slotsRequest(f.bea, "?count=5"))

	var body struct {
		Slots []availability.Slot `json:"slots"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Slots) != 1 || body.Slots[0].Date != "2025-10-16" {
		t.Fatalf("slots = %v, want only 2025-10-16 08:30", body.Slots)
	}
}

func TestHandleProfessionalSlots_Errors(t *testing.T) {
	f := setupBookingTest(t)

	tests := []struct {
		name       string
		req        *http.Request
		wantStatus int
	}{
		{name: "unknown_professional", req: slotsRequest(f.bea+100, ""), wantStatus: http.StatusNotFound},
		{name: "count_too_large", req: slotsRequest(f.ana, "?count=500"), wantStatus: http.StatusBadRequest},
		{name: "count_not_numeric", req: slotsRequest(f.ana, "?count=many"), wantStatus: http.StatusBadRequest},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			HandleProfessionalSlots(recorder, test.req)
			if recorder.Code != test.wantStatus {
				t.Fatalf("status = %d, want %d (body %s)", recorder.Code, test.wantStatus, recorder.Body.String())
			}
		})
	}
}

func TestHandleRanking_FastestFirst(t *testing.T) {
	f := setupBookingTest(t)

	recorder := httptest.NewRecorder()
	HandleRanking(recorder, httptest.NewRequest(http.MethodGet, fmt.Sprintf("/api/v1/booking/ranking?service_id=%d", f.cut), nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", recorder.Code, recorder.Body.String())
	}
	var result ranking.Result
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(result.Entries))
	}
	// Ana still has 15:00 today, ahead of Bea's 08:30 tomorrow.
	if result.Entries[0].Professional.ID != f.ana || result.Fastest == nil || result.Fastest.Professional.ID != f.ana {
		t.Fatalf("result = %+v, want Ana first and fastest", result)
	}
}

func TestHandleRanking_FiltersByCapability(t *testing.T) {
	f := setupBookingTest(t)

	url := fmt.Sprintf("/api/v1/booking/ranking?service_id=%d,%d", f.cut, f.color)
	recorder := httptest.NewRecorder()
	HandleRanking(recorder, httptest.NewRequest(http.MethodGet, url, nil))

	var result ranking.Result
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(result.Entries) != 1 || result.Entries[0].Professional.ID != f.bea {
		t.Fatalf("entries = %+v, want only Bea", result.Entries)
	}
	if result.Fastest == nil || *result.Fastest.NextAvailable != (availability.Slot{Date: "2025-10-16", Time: "08:30"}) {
		t.Fatalf("fastest = %+v", result.Fastest)
	}
}

func TestHandleRanking_InvalidServiceID(t *testing.T) {
	setupBookingTest(t)

	recorder := httptest.NewRecorder()
	HandleRanking(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/booking/ranking?service_id=-4", nil))
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", recorder.Code)
	}
}

func TestHandleListProfessionals_StartsWithNoPreference(t *testing.T) {
	setupBookingTest(t)

	recorder := httptest.NewRecorder()
	HandleListProfessionals(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/professionals", nil))

	var body struct {
		Choices []choiceOption `json:"choices"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Choices) != 3 {
		t.Fatalf("choices = %d, want 3", len(body.Choices))
	}
	if !body.Choices[0].NoPreference || body.Choices[0].ID != nil {
		t.Fatalf("first choice = %+v, want no preference", body.Choices[0])
	}
	if body.Choices[1].Label != "Ana" || body.Choices[2].Label != "Bea" {
		t.Fatalf("choices = %+v", body.Choices)
	}
}
