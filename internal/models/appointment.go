// internal/models/appointment.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	AppointmentScheduled = "scheduled"
	AppointmentCompleted = "completed"
	AppointmentCancelled = "cancelled"
	AppointmentNoShow    = "no_show"
)

type Appointment struct {
	ID             int64     `json:"id"`
	ProfessionalID int64     `json:"professionalId"`
	ServiceID      int64     `json:"serviceId"`
	ClientName     string    `json:"clientName"`
	StartsAt       time.Time `json:"startsAt"`
	PriceCents     int64     `json:"priceCents"`
	Status         string    `json:"status"`
}

// CountsAsRevenue reports whether the appointment contributes to revenue.
// Only completed appointments do.
func (a Appointment) CountsAsRevenue() bool {
	return a.Status == AppointmentCompleted
}

// Amount returns the price in currency units.
func (a Appointment) Amount() decimal.Decimal {
	return decimal.New(a.PriceCents, -2)
}

func IsAppointmentStatus(status string) bool {
	switch status {
	case AppointmentScheduled, AppointmentCompleted, AppointmentCancelled, AppointmentNoShow:
		return true
	default:
		return false
	}
}
