// Package model defines the core domain entities for the cartonization service.
package model

import "sort"

// Dimensions describes an axis-aligned box in centimetres.
//
// @Description Length, width and height in centimetres
type Dimensions struct {
	Length float64 `json:"length" bson:"length" example:"30"`
	Width  float64 `json:"width" bson:"width" example:"20"`
	Height float64 `json:"height" bson:"height" example:"10"`
}

// Volume returns the box volume in cubic centimetres.
func (d Dimensions) Volume() float64 {
	return d.Length * d.Width * d.Height
}

// Valid reports whether every side is strictly positive.
func (d Dimensions) Valid() bool {
	return d.Length > 0 && d.Width > 0 && d.Height > 0
}

// IsZero reports whether no dimension was provided.
func (d Dimensions) IsZero() bool {
	return d.Length == 0 && d.Width == 0 && d.Height == 0
}

// Sorted returns the three sides in ascending order.
func (d Dimensions) Sorted() [3]float64 {
	s := []float64{d.Length, d.Width, d.Height}
	sort.Float64s(s)
	return [3]float64{s[0], s[1], s[2]}
}

// FitsWithin reports whether d fits inside outer in at least one axis-aligned rotation.
func (d Dimensions) FitsWithin(outer Dimensions) bool {
	in, out := d.Sorted(), outer.Sorted()
	for i := range in {
		if in[i] > out[i]+Epsilon {
			return false
		}
	}
	return true
}

// Footprint returns the base area (length x width).
func (d Dimensions) Footprint() float64 {
	return d.Length * d.Width
}

// Epsilon is the tolerance used for every geometric comparison.
const Epsilon = 1e-9

// Item is a requested SKU with its physical attributes.
//
// @Description Item to be packed, with dimensions in cm and weight in kg
type Item struct {
	// SKU uniquely identifies the item within a request
	SKU        string     `json:"sku" example:"SKU-001"`
	Dimensions Dimensions `json:"dimensions"`
	// Weight of a single unit in kilograms
	Weight  float64 `json:"weight" example:"1.5"`
	Fragile bool    `json:"fragile"`
	// NonRotatable pins the unit to its declared orientation
	NonRotatable bool   `json:"non_rotatable,omitempty"`
	Category     string `json:"category,omitempty" example:"electronics"`
	// Quantity is the requested number of units
	Quantity int `json:"quantity" example:"2"`
}

// UnitVolume returns the volume of a single unit.
func (i Item) UnitVolume() float64 {
	return i.Dimensions.Volume()
}

// TotalVolume returns the volume of all requested units.
func (i Item) TotalVolume() float64 {
	return i.UnitVolume() * float64(i.Quantity)
}

// TotalWeight returns the weight of all requested units.
func (i Item) TotalWeight() float64 {
	return i.Weight * float64(i.Quantity)
}

// ProductDimensions is the product master data of one SKU.
type ProductDimensions struct {
	SKU        string     `json:"sku"`
	Dimensions Dimensions `json:"dimensions"`
	Weight     float64    `json:"weight"`
	Fragile    bool       `json:"fragile"`
	Category   string     `json:"category,omitempty"`
}
