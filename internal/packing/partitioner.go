package packing

import (
	"errors"
	"math"
	"sort"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

// MaxPartitionDepth returns the recursion cap for n units: floor(log2 n) + 2.
func MaxPartitionDepth(n int) int {
	if n < 1 {
		n = 1
	}
	return int(math.Floor(math.Log2(float64(n)))) + 2
}

// splitFunc divides units into two groups.
type splitFunc func(units []Unit) (left, right []Unit)

// Partition distributes units over several cartons by recursive bisection.
// Each group is packed into its smallest feasible carton.
func Partition(units []Unit, cartons []model.Carton, opts Options) ([]model.Package, error) {
	p := &partitioner{
		cartons:  cartons,
		opts:     opts,
		budget:   budgetOrUnlimited(opts.Budget),
		maxDepth: MaxPartitionDepth(len(units)),
	}
	return p.run(SortUnits(units, false), 0)
}

type partitioner struct {
	cartons  []model.Carton
	opts     Options
	budget   Budget
	maxDepth int
}

func (p *partitioner) run(units []Unit, depth int) ([]model.Package, error) {
	if depth > p.maxDepth {
		return nil, ErrPartitionDepthExceeded
	}
	if p.budget.Exceeded() {
		return nil, ErrBudgetExceeded
	}

	if depth > 0 {
		pkg, err := p.packSmallest(units)
		if err == nil {
			return []model.Package{pkg}, nil
		}
		if !errors.Is(err, ErrInfeasible) {
			return nil, err
		}
	}
	if len(units) < 2 {
		return nil, ErrInfeasible
	}

	var best []model.Package
	for _, split := range []splitFunc{splitByVolume, splitByWeight, splitAtVolumeMidpoint} {
		left, right := split(units)
		if len(left) == 0 || len(right) == 0 {
			continue
		}
		lp, err := p.packSmallest(left)
		if err != nil {
			if errors.Is(err, ErrInfeasible) {
				continue
			}
			return nil, err
		}
		rp, err := p.packSmallest(right)
		if err != nil {
			if errors.Is(err, ErrInfeasible) {
				continue
			}
			return nil, err
		}
		pkgs := []model.Package{lp, rp}
		if best == nil || p.better(pkgs, best) {
			best = pkgs
		}
	}
	if best != nil {
		return best, nil
	}

	left, right := p.recursionSplit(units, depth)
	lp, err := p.run(left, depth+1)
	if err != nil {
		return nil, err
	}
	rp, err := p.run(right, depth+1)
	if err != nil {
		return nil, err
	}
	return append(lp, rp...), nil
}

// recursionSplit bisects units for the next recursion level. The volume split
// is kept while the remaining depth can still halve its larger group down to
// single units; otherwise units are split by count.
func (p *partitioner) recursionSplit(units []Unit, depth int) (left, right []Unit) {
	left, right = splitByVolume(units)
	larger := max(len(left), len(right))
	if len(left) > 0 && len(right) > 0 && levelsToSingles(larger) <= p.maxDepth-depth-1 {
		return left, right
	}
	return splitByCount(units)
}

// levelsToSingles is the number of count bisections that reduce n units to
// groups of one: ceil(log2 n).
func levelsToSingles(n int) int {
	levels := 0
	for size := 1; size < n; size *= 2 {
		levels++
	}
	return levels
}

// packSmallest packs units into the first candidate carton that accepts them.
func (p *partitioner) packSmallest(units []Unit) (model.Package, error) {
	for _, c := range SelectCandidates(units, p.cartons, p.opts) {
		pkg, err := Pack(c, units, p.opts)
		if err == nil {
			return pkg, nil
		}
		if !errors.Is(err, ErrInfeasible) {
			return model.Package{}, err
		}
	}
	return model.Package{}, ErrInfeasible
}

// better orders partitionings by package count, then weight variance, then cost.
func (p *partitioner) better(a, b []model.Package) bool {
	if len(a) != len(b) {
		return len(a) < len(b)
	}
	va, vb := WeightVariance(a), WeightVariance(b)
	if math.Abs(va-vb) > model.Epsilon {
		return va < vb
	}
	return p.cost(a).LessThan(p.cost(b))
}

func (p *partitioner) cost(pkgs []model.Package) decimal.Decimal {
	total := decimal.Zero
	for _, pkg := range pkgs {
		for _, c := range p.cartons {
			if c.ID == pkg.CartonID {
				total = total.Add(c.Cost)
				break
			}
		}
	}
	return total
}

// WeightVariance is the population variance of package weights.
func WeightVariance(pkgs []model.Package) float64 {
	if len(pkgs) == 0 {
		return 0
	}
	weights := make([]float64, len(pkgs))
	var mean float64
	for i, pkg := range pkgs {
		for _, pl := range pkg.Placements {
			weights[i] += pl.Weight
		}
		mean += weights[i]
	}
	mean /= float64(len(pkgs))
	var v float64
	for _, w := range weights {
		v += (w - mean) * (w - mean)
	}
	return v / float64(len(pkgs))
}

// splitByVolume assigns each unit, largest first, to the lighter-by-volume group.
func splitByVolume(units []Unit) (left, right []Unit) {
	return greedySplit(units, Unit.Volume)
}

// splitByWeight assigns each unit, heaviest first, to the lighter-by-weight group.
func splitByWeight(units []Unit) (left, right []Unit) {
	ordered := make([]Unit, len(units))
	copy(ordered, units)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Weight > ordered[j].Weight
	})
	return greedySplit(ordered, func(u Unit) float64 { return u.Weight })
}

func greedySplit(units []Unit, measure func(Unit) float64) (left, right []Unit) {
	var lsum, rsum float64
	for _, u := range units {
		if lsum <= rsum {
			left = append(left, u)
			lsum += measure(u)
		} else {
			right = append(right, u)
			rsum += measure(u)
		}
	}
	return left, right
}

// splitByCount deals units alternately into two groups whose sizes differ by
// at most one.
func splitByCount(units []Unit) (left, right []Unit) {
	for i, u := range units {
		if i%2 == 0 {
			left = append(left, u)
		} else {
			right = append(right, u)
		}
	}
	return left, right
}

// splitAtVolumeMidpoint cuts the ordered list where cumulative volume reaches half.
func splitAtVolumeMidpoint(units []Unit) (left, right []Unit) {
	total, _ := totals(units)
	var acc float64
	cut := 0
	for i, u := range units {
		if acc >= total/2 {
			break
		}
		acc += u.Volume()
		cut = i + 1
	}
	if cut >= len(units) {
		cut = len(units) - 1
	}
	return units[:cut], units[cut:]
}
