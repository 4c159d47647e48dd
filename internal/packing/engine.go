package packing

import (
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/guttosm/cartonization-service/internal/domain/model"
)

// anchorPool reuses anchor slices between packing passes to reduce allocations.
var anchorPool = sync.Pool{
	New: func() interface{} {
		s := make([]model.Position, 0, 64)
		return &s
	},
}

func getAnchors() *[]model.Position {
	s, _ := anchorPool.Get().(*[]model.Position)
	if s == nil {
		fresh := make([]model.Position, 0, 64)
		s = &fresh
	}
	*s = append((*s)[:0], model.Position{})
	return s
}

func putAnchors(s *[]model.Position) {
	if cap(*s) > 4096 {
		return
	}
	anchorPool.Put(s)
}

// packState is the mutable state of one carton while it is being filled.
type packState struct {
	carton          model.Carton
	anchors         *[]model.Position
	placements      []model.ItemPlacement
	weight          float64
	occupied        float64
	bound           model.Position
	nonFragileTop   float64
	separateFragile bool
}

// candidate is a scored position for the unit being placed.
type candidate struct {
	pos         model.Position
	orientation model.Orientation
	size        model.Dimensions
	waste       float64
	found       bool
}

// Pack places every unit into the carton or returns ErrInfeasible.
// It never returns a partially filled package.
func Pack(carton model.Carton, units []Unit, opts Options) (model.Package, error) {
	budget := budgetOrUnlimited(opts.Budget)

	volume, weight := totals(units)
	if volume > carton.Volume()+model.Epsilon || weight > carton.MaxWeight+model.Epsilon {
		return model.Package{}, ErrInfeasible
	}
	if carton.NoFragile && hasFragile(units) {
		return model.Package{}, ErrInfeasible
	}

	st := &packState{
		carton:          carton,
		anchors:         getAnchors(),
		placements:      make([]model.ItemPlacement, 0, len(units)),
		separateFragile: opts.SeparateFragile,
	}
	defer putAnchors(st.anchors)

	for _, u := range SortUnits(units, opts.SeparateFragile) {
		if budget.Exceeded() {
			return model.Package{}, ErrBudgetExceeded
		}
		if st.weight+u.Weight > carton.MaxWeight+model.Epsilon {
			return model.Package{}, ErrInfeasible
		}
		best := st.find(u, opts.Strategy)
		if !best.found {
			return model.Package{}, fmt.Errorf("%w: no position for %s in %s", ErrInfeasible, u.SKU, carton.ID)
		}
		st.place(u, best)
	}

	return model.Package{
		CartonID:         carton.ID,
		CartonDimensions: carton.Dimensions,
		Placements:       st.placements,
	}, nil
}

// find returns the best position for u. Fragile units under separation are
// first tried on or above the top of every non-fragile unit.
func (st *packState) find(u Unit, strategy model.Strategy) candidate {
	if st.separateFragile && u.Fragile {
		if c := st.scan(u, strategy, st.nonFragileTop); c.found {
			return c
		}
	}
	return st.scan(u, strategy, 0)
}

func (st *packState) scan(u Unit, strategy model.Strategy, minZ float64) candidate {
	var best candidate
	orientations := orientationsFor(u)
	for _, a := range *st.anchors {
		if a.Z+model.Epsilon < minZ {
			continue
		}
		for _, o := range orientations {
			size := o.Apply(u.Dimensions)
			if !st.fits(a, size, u.Fragile) {
				continue
			}
			if strategy != model.StrategyBestFit {
				return candidate{pos: a, orientation: o, size: size, found: true}
			}
			waste := st.waste(a, size)
			if !best.found || waste < best.waste-model.Epsilon {
				best = candidate{pos: a, orientation: o, size: size, waste: waste, found: true}
			}
		}
	}
	return best
}

// fits checks carton bounds, overlap and fragile stacking for a placement.
func (st *packState) fits(pos model.Position, size model.Dimensions, fragile bool) bool {
	cd := st.carton.Dimensions
	if pos.X+size.Length > cd.Length+model.Epsilon ||
		pos.Y+size.Width > cd.Width+model.Epsilon ||
		pos.Z+size.Height > cd.Height+model.Epsilon {
		return false
	}
	probe := model.ItemPlacement{Position: pos, Size: size}
	for _, p := range st.placements {
		if probe.Overlaps(p) {
			return false
		}
		if !st.separateFragile || p.Fragile == fragile {
			continue
		}
		if fragile && p.IsAbove(probe) {
			return false
		}
		if !fragile && probe.IsAbove(p) {
			return false
		}
	}
	return true
}

// waste is the unused volume of the bounding box after placing size at pos.
func (st *packState) waste(pos model.Position, size model.Dimensions) float64 {
	bx := math.Max(st.bound.X, pos.X+size.Length)
	by := math.Max(st.bound.Y, pos.Y+size.Width)
	bz := math.Max(st.bound.Z, pos.Z+size.Height)
	return bx*by*bz - (st.occupied + size.Volume())
}

func (st *packState) place(u Unit, c candidate) {
	pl := model.ItemPlacement{
		SKU:         u.SKU,
		Quantity:    1,
		Position:    c.pos,
		Orientation: c.orientation,
		Size:        c.size,
		Volume:      c.size.Volume(),
		Weight:      u.Weight,
		Fragile:     u.Fragile,
		Category:    u.Category,
	}
	st.placements = append(st.placements, pl)
	st.weight += u.Weight
	st.occupied += pl.Volume

	top := pl.Max()
	st.bound.X = math.Max(st.bound.X, top.X)
	st.bound.Y = math.Max(st.bound.Y, top.Y)
	st.bound.Z = math.Max(st.bound.Z, top.Z)
	if !u.Fragile {
		st.nonFragileTop = math.Max(st.nonFragileTop, top.Z)
	}

	st.updateAnchors(pl)
}

// updateAnchors replaces the used anchor with the three extreme points of the
// new placement, then drops anchors that are out of bounds or covered.
func (st *packState) updateAnchors(pl model.ItemPlacement) {
	top := pl.Max()
	next := append(*st.anchors,
		model.Position{X: top.X, Y: pl.Position.Y, Z: pl.Position.Z},
		model.Position{X: pl.Position.X, Y: top.Y, Z: pl.Position.Z},
		model.Position{X: pl.Position.X, Y: pl.Position.Y, Z: top.Z},
	)

	cd := st.carton.Dimensions
	kept := next[:0]
	for _, a := range next {
		if a.X >= cd.Length-model.Epsilon || a.Y >= cd.Width-model.Epsilon || a.Z >= cd.Height-model.Epsilon {
			continue
		}
		if st.covered(a) || containsAnchor(kept, a) {
			continue
		}
		kept = append(kept, a)
	}

	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		return a.X < b.X
	})
	*st.anchors = kept
}

// covered reports whether the anchor lies inside a placed unit's volume
// (including its minimum faces, where nothing else can start).
func (st *packState) covered(a model.Position) bool {
	for _, p := range st.placements {
		top := p.Max()
		if a.X >= p.Position.X-model.Epsilon && a.X < top.X-model.Epsilon &&
			a.Y >= p.Position.Y-model.Epsilon && a.Y < top.Y-model.Epsilon &&
			a.Z >= p.Position.Z-model.Epsilon && a.Z < top.Z-model.Epsilon {
			return true
		}
	}
	return false
}

func containsAnchor(anchors []model.Position, a model.Position) bool {
	for _, b := range anchors {
		if math.Abs(a.X-b.X) < model.Epsilon && math.Abs(a.Y-b.Y) < model.Epsilon && math.Abs(a.Z-b.Z) < model.Epsilon {
			return true
		}
	}
	return false
}
