// internal/models/professional.go
package models

import (
	"fmt"
	"strings"
)

const maxProfessionalNameLength = 100

// Choice is what a client picks in the booking form: a concrete Professional or
// NoPreference. Slot search and ranking only ever compute for a Professional.
type Choice interface {
	isChoice()
}

// NoPreference is the "anyone is fine" entry shown alongside professionals.
// It has no calendar and no capabilities.
type NoPreference struct{}

func (NoPreference) isChoice() {}

// Label is the text shown for the entry in pickers.
func (NoPreference) Label() string { return "No preference" }

type Professional struct {
	ID           int64              `json:"id"`
	Name         string             `json:"name"`
	DisplayOrder int                `json:"displayOrder"`
	Capabilities map[int64]struct{} `json:"-"`
}

func (Professional) isChoice() {}

// NewProfessional builds a Professional with the given service capabilities.
func NewProfessional(id int64, name string, displayOrder int, serviceIDs ...int64) Professional {
	p := Professional{
		ID:           id,
		Name:         name,
		DisplayOrder: displayOrder,
		Capabilities: make(map[int64]struct{}, len(serviceIDs)),
	}
	for _, serviceID := range serviceIDs {
		p.Capabilities[serviceID] = struct{}{}
	}
	return p
}

// CanPerform reports whether every service in serviceIDs is among the
// professional's capabilities. An empty request is always satisfied.
func (p Professional) CanPerform(serviceIDs ...int64) bool {
	for _, serviceID := range serviceIDs {
		if _, ok := p.Capabilities[serviceID]; !ok {
			return false
		}
	}
	return true
}

// ServiceIDs returns the capabilities in no particular order.
func (p Professional) ServiceIDs() []int64 {
	ids := make([]int64, 0, len(p.Capabilities))
	for id := range p.Capabilities {
		ids = append(ids, id)
	}
	return ids
}

func (p Professional) Validate() error {
	if p.ID <= 0 {
		return fmt.Errorf("professional id must be positive")
	}
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > maxProfessionalNameLength {
		return fmt.Errorf("name must be %d characters or fewer", maxProfessionalNameLength)
	}
	return nil
}

type Service struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	PriceCents      int64  `json:"priceCents"`
}
