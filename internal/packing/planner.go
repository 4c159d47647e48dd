package packing

import (
	"errors"
	"fmt"
	"sort"

	"github.com/guttosm/cartonization-service/internal/domain/model"
)

// Attempt is one planning pass with its own heuristic and budget.
type Attempt struct {
	Strategy model.Strategy
	Budget   Budget
}

// Result is the outcome of planning a whole request.
type Result struct {
	Packages []model.Package
	Strategy model.Strategy
	// Fallback is set when at least one group was planned by the fallback attempt.
	Fallback bool
}

// Planner turns a unit set into packages against one catalog snapshot.
type Planner struct {
	cartons []model.Carton
	rules   model.PackingRules
}

// NewPlanner creates a planner bound to the snapshot's active cartons.
func NewPlanner(snapshot model.CatalogSnapshot, rules model.PackingRules) *Planner {
	active := snapshot.Active()
	sortCartons(active)
	return &Planner{cartons: active, rules: rules}
}

// Precheck rejects requests that no carton could ever satisfy.
func (p *Planner) Precheck(units []Unit) error {
	if len(p.cartons) == 0 {
		return NewError(CodeNoSuitableCarton, "carton catalog has no active cartons", nil)
	}

	checked := make(map[string]struct{}, len(units))
	for _, u := range units {
		if _, ok := checked[u.SKU]; ok {
			continue
		}
		checked[u.SKU] = struct{}{}

		var dimFit []model.Carton
		for _, c := range p.cartons {
			if unitFitsCarton(u, c) {
				dimFit = append(dimFit, c)
			}
		}
		if len(dimFit) == 0 {
			return NewError(CodeItemExceedsAllCartons,
				fmt.Sprintf("item %s does not fit any active carton", u.SKU), nil)
		}

		heavyEnough := false
		fragileOK := false
		for _, c := range dimFit {
			if c.MaxWeight+model.Epsilon >= u.Weight {
				heavyEnough = true
				if !u.Fragile || !c.NoFragile {
					fragileOK = true
				}
			}
		}
		if !heavyEnough {
			return NewError(CodeWeightLimitExceeded,
				fmt.Sprintf("item %s weighs %.3fkg, above every fitting carton's capacity", u.SKU, u.Weight), nil)
		}
		if !fragileOK {
			return NewError(CodeNoSuitableCarton,
				fmt.Sprintf("fragile item %s fits only cartons that reject fragile items", u.SKU), nil)
		}
	}
	return nil
}

// Groups splits units by category when mixed categories are not allowed.
func (p *Planner) Groups(units []Unit) [][]Unit {
	if p.rules.AllowMixedCategories {
		return [][]Unit{units}
	}
	byCategory := make(map[string][]Unit)
	for _, u := range units {
		byCategory[u.Category] = append(byCategory[u.Category], u)
	}
	keys := make([]string, 0, len(byCategory))
	for k := range byCategory {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	groups := make([][]Unit, 0, len(keys))
	for _, k := range keys {
		groups = append(groups, byCategory[k])
	}
	return groups
}

// Plan packs every group with the primary attempt. When the primary budget
// runs out and fallback is non-nil, the remaining work switches to the
// fallback attempt, resuming at the next-larger single-carton candidate.
func (p *Planner) Plan(units []Unit, primary Attempt, fallback func() Attempt) (Result, error) {
	if err := p.Precheck(units); err != nil {
		return Result{}, err
	}

	res := Result{Strategy: primary.Strategy}
	current := primary
	for _, group := range p.Groups(units) {
		pkgs, inFlight, err := p.planGroup(group, current, 0)
		if errors.Is(err, ErrBudgetExceeded) && fallback != nil && !res.Fallback {
			current = fallback()
			res.Fallback = true
			res.Strategy = current.Strategy
			pkgs, _, err = p.planGroup(group, current, inFlight+1)
		}
		if err != nil {
			return Result{}, p.classify(err)
		}
		res.Packages = append(res.Packages, pkgs...)
	}
	return res, nil
}

// planGroup tries single-carton candidates from start, then partitions.
// It returns the candidate index in flight when it stopped.
func (p *Planner) planGroup(units []Unit, attempt Attempt, start int) ([]model.Package, int, error) {
	opts := OptionsFromRules(p.rules, attempt.Budget)
	opts.Strategy = attempt.Strategy

	candidates := SelectCandidates(units, p.cartons, opts)
	for i := start; i < len(candidates); i++ {
		pkg, err := Pack(candidates[i], units, opts)
		if err == nil {
			return []model.Package{pkg}, i, nil
		}
		if !errors.Is(err, ErrInfeasible) {
			return nil, i, err
		}
	}

	pkgs, err := Partition(units, p.cartons, opts)
	return pkgs, len(candidates), err
}

func (p *Planner) classify(err error) error {
	var pe *Error
	if errors.As(err, &pe) {
		return err
	}
	switch {
	case errors.Is(err, ErrBudgetExceeded):
		return NewError(CodeComputationTimeout, "computation budget exhausted", err)
	case errors.Is(err, ErrPartitionDepthExceeded):
		return NewError(CodeInternalValidationFailure, "partitioning exceeded depth bound", err)
	case errors.Is(err, ErrInfeasible):
		return NewError(CodeNoSuitableCarton, "no carton combination can hold the order", err)
	default:
		return NewError(CodeInternalValidationFailure, "unexpected packing failure", err)
	}
}
