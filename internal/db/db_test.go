package db_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/codr1/Glamslot/internal/db"
	"github.com/codr1/Glamslot/internal/models"
	"github.com/codr1/Glamslot/internal/testutil"
)

func TestListProfessionals_CapabilitiesAndOrder(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()

	cut := testutil.CreateService(t, database, "Cut", 4500)
	color := testutil.CreateService(t, database, "Color", 9000)
	second := testutil.CreateProfessional(t, database, "Bea", 2, cut)
	first := testutil.CreateProfessional(t, database, "Ana", 1, cut, color)
	none := testutil.CreateProfessional(t, database, "Cleo", 3)

	professionals, err := database.Queries.ListProfessionals(ctx)
	if err != nil {
		t.Fatalf("ListProfessionals() error = %v", err)
	}
	if len(professionals) != 3 {
		t.Fatalf("professionals = %d, want 3", len(professionals))
	}
	wantOrder := []int64{first, second, none}
	for i, id := range wantOrder {
		if professionals[i].ID != id {
			t.Fatalf("professional[%d] = %d, want %d", i, professionals[i].ID, id)
		}
	}
	if !professionals[0].CanPerform(cut, color) {
		t.Fatalf("Ana should perform cut and color")
	}
	if professionals[1].CanPerform(color) {
		t.Fatalf("Bea should not perform color")
	}
	if len(professionals[2].Capabilities) != 0 {
		t.Fatalf("Cleo should have no capabilities")
	}
}

func TestGetProfessional(t *testing.T) {
	database := testutil.NewTestDB(t)
	cut := testutil.CreateService(t, database, "Cut", 4500)
	id := testutil.CreateProfessional(t, database, "Ana", 1, cut)

	professional, err := database.Queries.GetProfessional(context.Background(), id)
	if err != nil {
		t.Fatalf("GetProfessional() error = %v", err)
	}
	if professional.Name != "Ana" || !professional.CanPerform(cut) {
		t.Fatalf("professional = %+v", professional)
	}

	if _, err := database.Queries.GetProfessional(context.Background(), id+100); !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("missing professional error = %v, want sql.ErrNoRows", err)
	}
}

func TestLoadAvailabilityCatalog(t *testing.T) {
	database := testutil.NewTestDB(t)
	id := testutil.CreateProfessional(t, database, "Ana", 1)
	testutil.AddSlots(t, database, id, "2025-10-16", "15:00", "09:00", "11:30")
	testutil.AddSlots(t, database, id, "2025-10-20", "10:00")
	testutil.AddSlots(t, database, id, "2025-12-01", "10:00")

	catalog, err := database.Queries.LoadAvailabilityCatalog(context.Background(), "2025-10-15", "2025-10-31")
	if err != nil {
		t.Fatalf("LoadAvailabilityCatalog() error = %v", err)
	}
	if err := catalog.Validate(); err != nil {
		t.Fatalf("catalog invalid: %v", err)
	}
	got := catalog.Times(id, "2025-10-16")
	want := []string{"09:00", "11:30", "15:00"}
	if fmt.Sprint(got) != fmt.Sprint(want) {
		t.Fatalf("times = %v, want %v", got, want)
	}
	if len(catalog.Times(id, "2025-12-01")) != 0 {
		t.Fatalf("day outside the window should not be loaded")
	}
}

func TestDeleteAvailabilityBefore(t *testing.T) {
	database := testutil.NewTestDB(t)
	id := testutil.CreateProfessional(t, database, "Ana", 1)
	testutil.AddSlots(t, database, id, "2025-10-14", "09:00", "10:00")
	testutil.AddSlots(t, database, id, "2025-10-15", "09:00")

	deleted, err := database.Queries.DeleteAvailabilityBefore(context.Background(), "2025-10-15")
	if err != nil {
		t.Fatalf("DeleteAvailabilityBefore() error = %v", err)
	}
	if deleted != 2 {
		t.Fatalf("deleted = %d, want 2", deleted)
	}
}

func TestListAppointmentsBetween(t *testing.T) {
	database := testutil.NewTestDB(t)
	cut := testutil.CreateService(t, database, "Cut", 4500)
	pro := testutil.CreateProfessional(t, database, "Ana", 1, cut)

	start := time.Date(2025, 10, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 10, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC)
	testutil.CreateAppointment(t, database, pro, cut, start.Add(-time.Second), 4500, models.AppointmentCompleted)
	inside := testutil.CreateAppointment(t, database, pro, cut, time.Date(2025, 10, 31, 23, 59, 59, 0, time.UTC), 4500, models.AppointmentCompleted)
	first := testutil.CreateAppointment(t, database, pro, cut, start, 4500, models.AppointmentCancelled)

	appts, err := database.Queries.ListAppointmentsBetween(context.Background(), start, end)
	if err != nil {
		t.Fatalf("ListAppointmentsBetween() error = %v", err)
	}
	if len(appts) != 2 || appts[0].ID != first || appts[1].ID != inside {
		t.Fatalf("appointments = %+v, want ids %d and %d", appts, first, inside)
	}
	if appts[0].StartsAt.Location() != time.UTC || !appts[0].StartsAt.Equal(start) {
		t.Fatalf("starts_at = %v, want %v in UTC", appts[0].StartsAt, start)
	}

	all, err := database.Queries.ListAppointments(context.Background())
	if err != nil {
		t.Fatalf("ListAppointments() error = %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("appointments = %d, want 3", len(all))
	}
}

func TestCreateAppointment_RejectsUnknownStatus(t *testing.T) {
	database := testutil.NewTestDB(t)
	_, err := database.Queries.CreateAppointment(context.Background(), models.Appointment{Status: "pending"})
	if err == nil {
		t.Fatalf("expected error for unknown status")
	}
}

func TestRunInTx_RollsBack(t *testing.T) {
	database := testutil.NewTestDB(t)
	ctx := context.Background()
	sentinel := errors.New("stop")

	err := database.RunInTx(ctx, func(tx *db.DB) error {
		if _, err := tx.Queries.CreateProfessional(ctx, "Ana", 1); err != nil {
			return err
		}
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("RunInTx() error = %v, want sentinel", err)
	}

	professionals, err := database.Queries.ListProfessionals(ctx)
	if err != nil {
		t.Fatalf("ListProfessionals() error = %v", err)
	}
	if len(professionals) != 0 {
		t.Fatalf("professionals = %d, want 0 after rollback", len(professionals))
	}
}
