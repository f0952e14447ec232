package db

import (
	"context"
	"fmt"

	"github.com/codr1/Glamslot/internal/availability"
)

const addAvailabilitySlot = `
INSERT OR IGNORE INTO availability_slots (professional_id, day, slot_time)
VALUES (?, ?, ?)
`

func (q *Queries) AddAvailabilitySlot(ctx context.Context, professionalID int64, day, slotTime string) error {
	if _, err := q.db.ExecContext(ctx, addAvailabilitySlot, professionalID, day, slotTime); err != nil {
		return fmt.Errorf("add slot %s %s for professional %d: %w", day, slotTime, professionalID, err)
	}
	return nil
}

const loadAvailability = `
SELECT professional_id, day, slot_time
FROM availability_slots
WHERE day BETWEEN ? AND ?
ORDER BY professional_id, day, slot_time
`

// LoadAvailabilityCatalog snapshots every slot on days fromDay through toDay
// (YYYY-MM-DD, inclusive). Times within a day come back ascending.
func (q *Queries) LoadAvailabilityCatalog(ctx context.Context, fromDay, toDay string) (availability.MapCatalog, error) {
	rows, err := q.db.QueryContext(ctx, loadAvailability, fromDay, toDay)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	catalog := availability.MapCatalog{}
	for rows.Next() {
		var (
			professionalID int64
			day, slotTime  string
		)
		if err := rows.Scan(&professionalID, &day, &slotTime); err != nil {
			return nil, err
		}
		catalog.Add(professionalID, day, slotTime)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return catalog, nil
}

const deleteAvailabilityBefore = `
DELETE FROM availability_slots
WHERE day < ?
`

// DeleteAvailabilityBefore prunes slots on days strictly before day.
func (q *Queries) DeleteAvailabilityBefore(ctx context.Context, day string) (int64, error) {
	result, err := q.db.ExecContext(ctx, deleteAvailabilityBefore, day)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
