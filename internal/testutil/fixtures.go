package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/codr1/Glamslot/internal/db"
	"github.com/codr1/Glamslot/internal/models"
)

// CreateService inserts a service and returns its id.
func CreateService(t *testing.T, database *db.DB, name string, priceCents int64) int64 {
	t.Helper()

	id, err := database.Queries.CreateService(context.Background(), models.Service{
		Name:            name,
		DurationMinutes: 60,
		PriceCents:      priceCents,
	})
	if err != nil {
		t.Fatalf("create service: %v", err)
	}
	return id
}

// CreateProfessional inserts a professional able to perform serviceIDs.
func CreateProfessional(t *testing.T, database *db.DB, name string, displayOrder int, serviceIDs ...int64) int64 {
	t.Helper()

	ctx := context.Background()
	id, err := database.Queries.CreateProfessional(ctx, name, displayOrder)
	if err != nil {
		t.Fatalf("create professional: %v", err)
	}
	for _, serviceID := range serviceIDs {
		if err := database.Queries.AddCapability(ctx, id, serviceID); err != nil {
			t.Fatalf("add capability: %v", err)
		}
	}
	return id
}

// AddSlots makes times bookable for a professional on day.
func AddSlots(t *testing.T, database *db.DB, professionalID int64, day string, times ...string) {
	t.Helper()

	for _, slotTime := range times {
		if err := database.Queries.AddAvailabilitySlot(context.Background(), professionalID, day, slotTime); err != nil {
			t.Fatalf("add slot: %v", err)
		}
	}
}

// CreateAppointment inserts an appointment and returns its id.
func CreateAppointment(t *testing.T, database *db.DB, professionalID, serviceID int64, startsAt time.Time, priceCents int64, status string) int64 {
	t.Helper()

	id, err := database.Queries.CreateAppointment(context.Background(), models.Appointment{
		ProfessionalID: professionalID,
		ServiceID:      serviceID,
		ClientName:     "Test Client",
		StartsAt:       startsAt,
		PriceCents:     priceCents,
		Status:         status,
	})
	if err != nil {
		t.Fatalf("create appointment: %v", err)
	}
	return id
}
