package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// CartonStatus is the lifecycle status of a catalog carton.
type CartonStatus string

const (
	CartonStatusActive   CartonStatus = "ACTIVE"
	CartonStatusInactive CartonStatus = "INACTIVE"
)

// Carton is a shipping container from the carton catalog.
//
// @Description Carton with internal dimensions, weight capacity and cost
type Carton struct {
	ID         string     `json:"id" example:"BOX-M"`
	Name       string     `json:"name,omitempty" example:"Medium box"`
	Dimensions Dimensions `json:"dimensions"`
	// MaxWeight is the weight capacity in kilograms
	MaxWeight float64         `json:"max_weight" example:"10"`
	Cost      decimal.Decimal `json:"cost" swaggertype:"string" example:"1.25"`
	Status    CartonStatus    `json:"status" example:"ACTIVE"`
	// NoFragile marks cartons that must never carry fragile items
	NoFragile bool `json:"no_fragile,omitempty"`
}

// Volume returns the carton's internal volume.
func (c Carton) Volume() float64 {
	return c.Dimensions.Volume()
}

// IsActive reports whether the carton can be used for packing.
func (c Carton) IsActive() bool {
	return c.Status == CartonStatusActive
}

// CatalogSnapshot is a point-in-time, read-only view of the carton catalog.
type CatalogSnapshot struct {
	Version   int64     `json:"version"`
	Cartons   []Carton  `json:"cartons"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Active returns the active cartons in catalog order.
func (s CatalogSnapshot) Active() []Carton {
	active := make([]Carton, 0, len(s.Cartons))
	for _, c := range s.Cartons {
		if c.IsActive() {
			active = append(active, c)
		}
	}
	return active
}

// Lookup returns the carton with the given id.
func (s CatalogSnapshot) Lookup(id string) (Carton, bool) {
	for _, c := range s.Cartons {
		if c.ID == id {
			return c, true
		}
	}
	return Carton{}, false
}
