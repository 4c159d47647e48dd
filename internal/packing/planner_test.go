package packing

import (
	"errors"
	"testing"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unlimitedAttempt(strategy model.Strategy) Attempt {
	return Attempt{Strategy: strategy, Budget: Unlimited}
}

func TestPlanner_SingleCarton(t *testing.T) {
	items := []model.Item{cube("CUBE", 10, 1, 3)}
	snap := snapshotOf(carton("BOX-30", 30, 10, 10, 5, "1.00"))
	rules := model.DefaultPackingRules()

	res, err := NewPlanner(snap, rules).Plan(ExpandUnits(items), unlimitedAttempt(rules.Strategy()), nil)

	require.NoError(t, err)
	require.Len(t, res.Packages, 1)
	assert.Equal(t, model.StrategyBestFit, res.Strategy)
	assert.False(t, res.Fallback)

	metrics := NewCalculator(0).Summarize(res.Packages, snap, res.Strategy, res.Fallback)
	assert.InDelta(t, 1.0, res.Packages[0].Utilization, 1e-9)
	assert.InDelta(t, 3.0, metrics.TotalWeight, 1e-9)
	requireInvariants(t, res.Packages, items, snap, rules)
}

func TestPlanner_WeightForcesTwoBalancedPackages(t *testing.T) {
	items := []model.Item{cube("CUBE", 10, 3, 4)}
	snap := snapshotOf(carton("BOX-40", 40, 10, 10, 10, "2.00"))
	rules := model.DefaultPackingRules()

	res, err := NewPlanner(snap, rules).Plan(ExpandUnits(items), unlimitedAttempt(rules.Strategy()), nil)

	require.NoError(t, err)
	require.Len(t, res.Packages, 2)
	NewCalculator(0).Summarize(res.Packages, snap, res.Strategy, false)
	diff := res.Packages[0].TotalWeight - res.Packages[1].TotalWeight
	assert.LessOrEqual(t, diff*diff, 3.0*3.0)
	requireInvariants(t, res.Packages, items, snap, rules)
}

func TestPlanner_PicksSmallestFeasibleCarton(t *testing.T) {
	items := []model.Item{cube("CUBE", 10, 1, 2)}
	snap := snapshotOf(
		carton("L", 50, 50, 50, 30, "5"),
		carton("S", 20, 10, 10, 30, "1"),
		carton("M", 30, 30, 30, 30, "3"),
	)

	res, err := NewPlanner(snap, model.DefaultPackingRules()).
		Plan(ExpandUnits(items), unlimitedAttempt(model.StrategyBestFit), nil)

	require.NoError(t, err)
	require.Len(t, res.Packages, 1)
	assert.Equal(t, "S", res.Packages[0].CartonID)
}

func TestPlanner_Precheck(t *testing.T) {
	noFragile := carton("NF", 30, 30, 30, 30, "1")
	noFragile.NoFragile = true
	inactive := carton("OLD", 30, 30, 30, 30, "1")
	inactive.Status = model.CartonStatusInactive

	tests := []struct {
		name     string
		items    []model.Item
		cartons  []model.Carton
		expected ErrorCode
	}{
		{
			name:     "item larger than every carton",
			items:    []model.Item{cube("HUGE", 50, 1, 1)},
			cartons:  []model.Carton{carton("A", 30, 30, 30, 30, "1"), carton("B", 40, 40, 40, 30, "1")},
			expected: CodeItemExceedsAllCartons,
		},
		{
			name:     "single unit heavier than every carton",
			items:    []model.Item{cube("LEAD", 10, 40, 1)},
			cartons:  []model.Carton{carton("A", 30, 30, 30, 30, "1")},
			expected: CodeWeightLimitExceeded,
		},
		{
			name:     "empty catalog",
			items:    []model.Item{cube("A", 10, 1, 1)},
			cartons:  nil,
			expected: CodeNoSuitableCarton,
		},
		{
			name:     "only inactive cartons",
			items:    []model.Item{cube("A", 10, 1, 1)},
			cartons:  []model.Carton{inactive},
			expected: CodeNoSuitableCarton,
		},
		{
			name: "fragile item and only fragile-incompatible cartons",
			items: []model.Item{{
				SKU: "VASE", Dimensions: model.Dimensions{Length: 10, Width: 10, Height: 10},
				Weight: 1, Fragile: true, Quantity: 1,
			}},
			cartons:  []model.Carton{noFragile},
			expected: CodeNoSuitableCarton,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := model.CatalogSnapshot{Version: 1, Cartons: tt.cartons}
			_, err := NewPlanner(snap, model.DefaultPackingRules()).
				Plan(ExpandUnits(tt.items), unlimitedAttempt(model.StrategyBestFit), nil)

			require.Error(t, err)
			assert.Equal(t, tt.expected, CodeOf(err))
		})
	}
}

func TestPlanner_FallbackUsesNextLargerCandidate(t *testing.T) {
	items := []model.Item{cube("CUBE", 10, 1, 3)}
	snap := snapshotOf(
		carton("S", 30, 10, 10, 5, "1"),
		carton("M", 40, 10, 10, 5, "2"),
	)
	exhausted := Attempt{Strategy: model.StrategyBestFit, Budget: BudgetFunc(func() bool { return true })}
	calls := 0
	fallback := func() Attempt {
		calls++
		return unlimitedAttempt(model.StrategyFirstFit)
	}

	res, err := NewPlanner(snap, model.DefaultPackingRules()).Plan(ExpandUnits(items), exhausted, fallback)

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.True(t, res.Fallback)
	assert.Equal(t, model.StrategyFirstFit, res.Strategy)
	require.Len(t, res.Packages, 1)
	assert.Equal(t, "M", res.Packages[0].CartonID)
	requireInvariants(t, res.Packages, items, snap, model.DefaultPackingRules())
}

func TestPlanner_TimeoutWhenFallbackAlsoExhausted(t *testing.T) {
	items := []model.Item{cube("CUBE", 10, 1, 3)}
	snap := snapshotOf(carton("S", 30, 10, 10, 5, "1"), carton("M", 40, 10, 10, 5, "2"))
	exhausted := Attempt{Strategy: model.StrategyBestFit, Budget: BudgetFunc(func() bool { return true })}

	_, err := NewPlanner(snap, model.DefaultPackingRules()).
		Plan(ExpandUnits(items), exhausted, func() Attempt { return exhausted })

	require.Error(t, err)
	assert.Equal(t, CodeComputationTimeout, CodeOf(err))
	assert.True(t, errors.Is(err, ErrBudgetExceeded))
}

func TestPlanner_SeparatesCategories(t *testing.T) {
	a := cube("BOOK", 10, 1, 1)
	a.Category = "books"
	b := cube("SOAP", 10, 1, 1)
	b.Category = "cleaning"
	items := []model.Item{a, b}
	snap := snapshotOf(carton("BIG", 40, 40, 40, 30, "3"))
	rules := model.PackingRules{OptimizeForMinimumBoxes: true, AllowMixedCategories: false}

	res, err := NewPlanner(snap, rules).Plan(ExpandUnits(items), unlimitedAttempt(model.StrategyBestFit), nil)

	require.NoError(t, err)
	assert.Len(t, res.Packages, 2)
	requireInvariants(t, res.Packages, items, snap, rules)

	mixed := model.DefaultPackingRules()
	res, err = NewPlanner(snap, mixed).Plan(ExpandUnits(items), unlimitedAttempt(model.StrategyBestFit), nil)
	require.NoError(t, err)
	assert.Len(t, res.Packages, 1)
}

func TestPlanner_FirstFitStrategy(t *testing.T) {
	items := []model.Item{
		cube("A", 10, 1, 4),
		{SKU: "B", Dimensions: model.Dimensions{Length: 20, Width: 10, Height: 10}, Weight: 2, Quantity: 2},
	}
	snap := snapshotOf(carton("M", 40, 20, 10, 20, "2"), carton("L", 40, 40, 40, 40, "4"))
	rules := model.PackingRules{AllowMixedCategories: true}

	res, err := NewPlanner(snap, rules).Plan(ExpandUnits(items), unlimitedAttempt(rules.Strategy()), nil)

	require.NoError(t, err)
	assert.Equal(t, model.StrategyFirstFit, res.Strategy)
	requireInvariants(t, res.Packages, items, snap, rules)
}
