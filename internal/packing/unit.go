// Package packing implements the cartonization engine: carton candidate
// selection, 3D placement heuristics, multi-carton partitioning, solution
// validation and metrics. Everything here is a pure function of its inputs.
package packing

import (
	"sort"

	"github.com/guttosm/cartonization-service/internal/domain/model"
)

// Unit is a single physical unit of an item.
type Unit struct {
	SKU          string
	Dimensions   model.Dimensions
	Weight       float64
	Fragile      bool
	NonRotatable bool
	Category     string
}

// Volume returns the unit volume.
func (u Unit) Volume() float64 {
	return u.Dimensions.Volume()
}

// ExpandUnits turns requested items into one Unit per requested quantity.
func ExpandUnits(items []model.Item) []Unit {
	n := 0
	for _, it := range items {
		if it.Quantity > 0 {
			n += it.Quantity
		}
	}
	units := make([]Unit, 0, max(n, 0))
	for _, it := range items {
		for i := 0; i < it.Quantity; i++ {
			units = append(units, Unit{
				SKU:          it.SKU,
				Dimensions:   it.Dimensions,
				Weight:       it.Weight,
				Fragile:      it.Fragile,
				NonRotatable: it.NonRotatable,
				Category:     it.Category,
			})
		}
	}
	return units
}

// SortUnits returns a copy ordered by volume desc, weight desc, SKU asc.
// With separateFragile every non-fragile unit precedes every fragile one.
func SortUnits(units []Unit, separateFragile bool) []Unit {
	sorted := make([]Unit, len(units))
	copy(sorted, units)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if separateFragile && a.Fragile != b.Fragile {
			return !a.Fragile
		}
		if va, vb := a.Volume(), b.Volume(); va != vb {
			return va > vb
		}
		if a.Weight != b.Weight {
			return a.Weight > b.Weight
		}
		return a.SKU < b.SKU
	})
	return sorted
}

func totals(units []Unit) (volume, weight float64) {
	for _, u := range units {
		volume += u.Volume()
		weight += u.Weight
	}
	return volume, weight
}

func hasFragile(units []Unit) bool {
	for _, u := range units {
		if u.Fragile {
			return true
		}
	}
	return false
}

// orientationsFor lists the distinct orientations a unit may take.
func orientationsFor(u Unit) []model.Orientation {
	if u.NonRotatable {
		return []model.Orientation{model.OrientationLWH}
	}
	out := make([]model.Orientation, 0, len(model.AllOrientations))
	seen := make([]model.Dimensions, 0, len(model.AllOrientations))
	for _, o := range model.AllOrientations {
		d := o.Apply(u.Dimensions)
		dup := false
		for _, s := range seen {
			if s == d {
				dup = true
				break
			}
		}
		if !dup {
			seen = append(seen, d)
			out = append(out, o)
		}
	}
	return out
}

// unitFitsCarton reports whether the unit fits the carton in an allowed orientation.
func unitFitsCarton(u Unit, c model.Carton) bool {
	if u.NonRotatable {
		d, cd := u.Dimensions, c.Dimensions
		return d.Length <= cd.Length+model.Epsilon &&
			d.Width <= cd.Width+model.Epsilon &&
			d.Height <= cd.Height+model.Epsilon
	}
	return u.Dimensions.FitsWithin(c.Dimensions)
}
