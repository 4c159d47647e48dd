package packing

import (
	"sort"

	"github.com/guttosm/cartonization-service/internal/domain/model"
)

// Options controls a single packing pass.
type Options struct {
	Strategy        model.Strategy
	SeparateFragile bool
	// UtilizationTarget ranks cartons that stay at or below it first.
	UtilizationTarget *float64
	Budget            Budget
}

// OptionsFromRules derives pass options from request rules.
func OptionsFromRules(rules model.PackingRules, budget Budget) Options {
	return Options{
		Strategy:          rules.Strategy(),
		SeparateFragile:   rules.SeparateFragileItems,
		UtilizationTarget: rules.MaxUtilizationThreshold,
		Budget:            budget,
	}
}

// SelectCandidates returns the active cartons able to hold the whole unit set,
// smallest volume first. Ties are broken by cost and then by id.
func SelectCandidates(units []Unit, cartons []model.Carton, opts Options) []model.Carton {
	volume, weight := totals(units)
	fragile := hasFragile(units)

	out := make([]model.Carton, 0, len(cartons))
	for _, c := range cartons {
		if !c.IsActive() {
			continue
		}
		if c.Volume()+model.Epsilon < volume || c.MaxWeight+model.Epsilon < weight {
			continue
		}
		if fragile && c.NoFragile {
			continue
		}
		if !allUnitsFit(units, c) {
			continue
		}
		out = append(out, c)
	}

	sortCartons(out)

	if opts.UtilizationTarget != nil && len(out) > 1 {
		target := *opts.UtilizationTarget
		sort.SliceStable(out, func(i, j int) bool {
			return withinTarget(volume, out[i], target) && !withinTarget(volume, out[j], target)
		})
	}
	return out
}

// CartonsForUnit returns the active cartons that can hold a single unit.
func CartonsForUnit(u Unit, cartons []model.Carton) []model.Carton {
	return SelectCandidates([]Unit{u}, cartons, Options{})
}

func allUnitsFit(units []Unit, c model.Carton) bool {
	for _, u := range units {
		if !unitFitsCarton(u, c) {
			return false
		}
	}
	return true
}

func withinTarget(volume float64, c model.Carton, target float64) bool {
	cv := c.Volume()
	if cv <= 0 {
		return false
	}
	return volume/cv <= target+model.Epsilon
}

func sortCartons(cartons []model.Carton) {
	sort.SliceStable(cartons, func(i, j int) bool {
		a, b := cartons[i], cartons[j]
		if va, vb := a.Volume(), b.Volume(); va != vb {
			return va < vb
		}
		if cmp := a.Cost.Cmp(b.Cost); cmp != 0 {
			return cmp < 0
		}
		return a.ID < b.ID
	})
}
