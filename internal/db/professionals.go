package db

import (
	"context"
	"fmt"

	"github.com/codr1/Glamslot/internal/models"
)

const createService = `
INSERT INTO services (name, duration_minutes, price_cents)
VALUES (?, ?, ?)
RETURNING id
`

func (q *Queries) CreateService(ctx context.Context, service models.Service) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createService, service.Name, service.DurationMinutes, service.PriceCents).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create service %q: %w", service.Name, err)
	}
	return id, nil
}

const listServices = `
SELECT id, name, duration_minutes, price_cents
FROM services
ORDER BY id
`

func (q *Queries) ListServices(ctx context.Context) ([]models.Service, error) {
	rows, err := q.db.QueryContext(ctx, listServices)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var services []models.Service
	for rows.Next() {
		var s models.Service
		if err := rows.Scan(&s.ID, &s.Name, &s.DurationMinutes, &s.PriceCents); err != nil {
			return nil, err
		}
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return services, nil
}

const createProfessional = `
INSERT INTO professionals (name, display_order)
VALUES (?, ?)
RETURNING id
`

func (q *Queries) CreateProfessional(ctx context.Context, name string, displayOrder int) (int64, error) {
	var id int64
	if err := q.db.QueryRowContext(ctx, createProfessional, name, displayOrder).Scan(&id); err != nil {
		return 0, fmt.Errorf("create professional %q: %w", name, err)
	}
	return id, nil
}

const addCapability = `
INSERT OR IGNORE INTO professional_services (professional_id, service_id)
VALUES (?, ?)
`

func (q *Queries) AddCapability(ctx context.Context, professionalID, serviceID int64) error {
	_, err := q.db.ExecContext(ctx, addCapability, professionalID, serviceID)
	return err
}

const listProfessionals = `
SELECT p.id, p.name, p.display_order, ps.service_id
FROM professionals p
LEFT JOIN professional_services ps ON ps.professional_id = p.id
ORDER BY p.display_order, p.id
`

// ListProfessionals returns every professional with capabilities, in display order.
func (q *Queries) ListProfessionals(ctx context.Context) ([]models.Professional, error) {
	rows, err := q.db.QueryContext(ctx, listProfessionals)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var professionals []models.Professional
	index := make(map[int64]int)
	for rows.Next() {
		var (
			id           int64
			name         string
			displayOrder int
			serviceID    *int64
		)
		if err := rows.Scan(&id, &name, &displayOrder, &serviceID); err != nil {
			return nil, err
		}
		i, ok := index[id]
		if !ok {
			i = len(professionals)
			index[id] = i
			professionals = append(professionals, models.NewProfessional(id, name, displayOrder))
		}
		if serviceID != nil {
			professionals[i].Capabilities[*serviceID] = struct{}{}
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return professionals, nil
}

const getProfessional = `
SELECT id, name, display_order
FROM professionals
WHERE id = ?
`

const listCapabilities = `
SELECT service_id
FROM professional_services
WHERE professional_id = ?
ORDER BY service_id
`

// GetProfessional returns sql.ErrNoRows when no professional has id.
func (q *Queries) GetProfessional(ctx context.Context, id int64) (models.Professional, error) {
	var (
		name         string
		displayOrder int
	)
	if err := q.db.QueryRowContext(ctx, getProfessional, id).Scan(&id, &name, &displayOrder); err != nil {
		return models.Professional{}, err
	}
	professional := models.NewProfessional(id, name, displayOrder)

	rows, err := q.db.QueryContext(ctx, listCapabilities, id)
	if err != nil {
		return models.Professional{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var serviceID int64
		if err := rows.Scan(&serviceID); err != nil {
			return models.Professional{}, err
		}
		professional.Capabilities[serviceID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return models.Professional{}, err
	}
	return professional, nil
}
