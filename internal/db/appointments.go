package db

import (
	"context"
	"fmt"
	"time"

	"github.com/codr1/Glamslot/internal/models"
)

const createAppointment = `
INSERT INTO appointments (professional_id, service_id, client_name, starts_at, price_cents, status)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id
`

// CreateAppointment stores appt with its start truncated to the second in UTC.
func (q *Queries) CreateAppointment(ctx context.Context, appt models.Appointment) (int64, error) {
	if !models.IsAppointmentStatus(appt.Status) {
		return 0, fmt.Errorf("invalid appointment status %q", appt.Status)
	}
	var id int64
	err := q.db.QueryRowContext(ctx, createAppointment,
		appt.ProfessionalID,
		appt.ServiceID,
		appt.ClientName,
		appt.StartsAt.UTC().Truncate(time.Second),
		appt.PriceCents,
		appt.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create appointment: %w", err)
	}
	return id, nil
}

const listAppointments = `
SELECT id, professional_id, service_id, client_name, starts_at, price_cents, status
FROM appointments
ORDER BY starts_at, id
`

func (q *Queries) ListAppointments(ctx context.Context) ([]models.Appointment, error) {
	return q.queryAppointments(ctx, listAppointments)
}

const listAppointmentsBetween = `
SELECT id, professional_id, service_id, client_name, starts_at, price_cents, status
FROM appointments
WHERE starts_at >= ? AND starts_at <= ?
ORDER BY starts_at, id
`

// ListAppointmentsBetween returns appointments starting within [start, end].
func (q *Queries) ListAppointmentsBetween(ctx context.Context, start, end time.Time) ([]models.Appointment, error) {
	return q.queryAppointments(ctx, listAppointmentsBetween, start.UTC(), end.UTC())
}

func (q *Queries) queryAppointments(ctx context.Context, query string, args ...interface{}) ([]models.Appointment, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var appts []models.Appointment
	for rows.Next() {
		var a models.Appointment
		if err := rows.Scan(&a.ID, &a.ProfessionalID, &a.ServiceID, &a.ClientName, &a.StartsAt, &a.PriceCents, &a.Status); err != nil {
			return nil, err
		}
		a.StartsAt = a.StartsAt.UTC()
		appts = append(appts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return appts, nil
}
