package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Orientation names the permutation of an item's (length, width, height)
// mapped onto the carton's (x, y, z) axes.
type Orientation string

const (
	OrientationLWH Orientation = "LWH"
	OrientationLHW Orientation = "LHW"
	OrientationWLH Orientation = "WLH"
	OrientationWHL Orientation = "WHL"
	OrientationHLW Orientation = "HLW"
	OrientationHWL Orientation = "HWL"
)

// AllOrientations lists every axis-aligned orientation in evaluation order.
var AllOrientations = []Orientation{
	OrientationLWH, OrientationWLH, OrientationLHW,
	OrientationHLW, OrientationWHL, OrientationHWL,
}

// Apply returns the item's extent along x, y and z for this orientation.
func (o Orientation) Apply(d Dimensions) Dimensions {
	switch o {
	case OrientationLHW:
		return Dimensions{Length: d.Length, Width: d.Height, Height: d.Width}
	case OrientationWLH:
		return Dimensions{Length: d.Width, Width: d.Length, Height: d.Height}
	case OrientationWHL:
		return Dimensions{Length: d.Width, Width: d.Height, Height: d.Length}
	case OrientationHLW:
		return Dimensions{Length: d.Height, Width: d.Length, Height: d.Width}
	case OrientationHWL:
		return Dimensions{Length: d.Height, Width: d.Width, Height: d.Length}
	default:
		return d
	}
}

// Position is the minimum corner of a placement inside a carton.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// ItemPlacement is one placed unit inside a package. Placements are
// produced by the packing engine and never mutated afterwards.
//
// @Description Placement of an item unit inside a carton
type ItemPlacement struct {
	SKU         string      `json:"sku" example:"SKU-001"`
	Quantity    int         `json:"quantity" example:"1"`
	Position    Position    `json:"position"`
	Orientation Orientation `json:"orientation" example:"LWH"`
	// Size is the occupied extent along x, y, z after orientation
	Size     Dimensions `json:"size"`
	Volume   float64    `json:"volume" example:"1000"`
	Weight   float64    `json:"weight" example:"1"`
	Fragile  bool       `json:"fragile,omitempty"`
	Category string     `json:"category,omitempty"`
}

// Max returns the maximum corner of the placement.
func (p ItemPlacement) Max() Position {
	return Position{
		X: p.Position.X + p.Size.Length,
		Y: p.Position.Y + p.Size.Width,
		Z: p.Position.Z + p.Size.Height,
	}
}

// Overlaps reports whether the two placements share interior volume.
func (p ItemPlacement) Overlaps(o ItemPlacement) bool {
	a, b := p.Max(), o.Max()
	return p.Position.X < b.X-Epsilon && o.Position.X < a.X-Epsilon &&
		p.Position.Y < b.Y-Epsilon && o.Position.Y < a.Y-Epsilon &&
		p.Position.Z < b.Z-Epsilon && o.Position.Z < a.Z-Epsilon
}

// FootprintOverlaps reports whether the two placements overlap in the x/y plane.
func (p ItemPlacement) FootprintOverlaps(o ItemPlacement) bool {
	a, b := p.Max(), o.Max()
	return p.Position.X < b.X-Epsilon && o.Position.X < a.X-Epsilon &&
		p.Position.Y < b.Y-Epsilon && o.Position.Y < a.Y-Epsilon
}

// IsAbove reports whether p rests at or above the top of o with overlapping footprints.
func (p ItemPlacement) IsAbove(o ItemPlacement) bool {
	return p.Position.Z >= o.Max().Z-Epsilon && p.FootprintOverlaps(o)
}

// Package is one carton with its placed items.
//
// @Description Carton chosen for a subset of the order with its placements
type Package struct {
	CartonID          string          `json:"carton_id" example:"BOX-M"`
	CartonDimensions  Dimensions      `json:"carton_dimensions"`
	Placements        []ItemPlacement `json:"placements"`
	Utilization       float64         `json:"utilization" example:"0.82"`
	TotalWeight       float64         `json:"total_weight" example:"3.5"`
	DimensionalWeight float64         `json:"dimensional_weight" example:"1.2"`
	BillableWeight    float64         `json:"billable_weight" example:"3.5"`
	Cost              decimal.Decimal `json:"cost" swaggertype:"string" example:"1.25"`
}

// OccupiedVolume sums the volume of all placements.
func (p Package) OccupiedVolume() float64 {
	var v float64
	for _, pl := range p.Placements {
		v += pl.Volume
	}
	return v
}

// SolutionMetrics aggregates figures over all packages of a solution.
type SolutionMetrics struct {
	TotalPackages          int             `json:"total_packages" example:"2"`
	AverageUtilization     float64         `json:"average_utilization" example:"0.76"`
	TotalWeight            float64         `json:"total_weight" example:"12"`
	TotalDimensionalWeight float64         `json:"total_dimensional_weight" example:"4.8"`
	TotalCost              decimal.Decimal `json:"total_cost" swaggertype:"string" example:"2.50"`
	Strategy               Strategy        `json:"strategy" example:"BFD"`
	// Fallback is set when the budget forced the first-fit fallback path
	Fallback bool `json:"fallback,omitempty"`
}

// PackingSolution is the immutable result of a packing computation.
//
// @Description Packing solution with packages, placements and metrics
type PackingSolution struct {
	SolutionID     string          `json:"solution_id" example:"6f1c0a5e-2c1b-4c11-9a0e-3f1e5c2f9b11"`
	RequestID      string          `json:"request_id"`
	OrderID        string          `json:"order_id" example:"ORD-1001"`
	CatalogVersion int64           `json:"catalog_version" example:"3"`
	Fingerprint    string          `json:"fingerprint"`
	Packages       []Package       `json:"packages"`
	Metrics        SolutionMetrics `json:"metrics"`
	CreatedAt      time.Time       `json:"created_at"`
}
