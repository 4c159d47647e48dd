package model

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidUtilizationThreshold is returned when the threshold is outside (0, 1].
var ErrInvalidUtilizationThreshold = errors.New("max_utilization_threshold must be within (0, 1]")

// Strategy selects the placement heuristic.
type Strategy string

const (
	// StrategyBestFit is Best-Fit-Decreasing.
	StrategyBestFit Strategy = "BFD"
	// StrategyFirstFit is First-Fit-Decreasing.
	StrategyFirstFit Strategy = "FFD"
)

// PackingRules are the business rules applied to a packing request.
//
// @Description Business rules for packing
type PackingRules struct {
	OptimizeForMinimumBoxes bool `json:"optimize_for_minimum_boxes"`
	AllowMixedCategories    bool `json:"allow_mixed_categories"`
	SeparateFragileItems    bool `json:"separate_fragile_items"`
	// MaxUtilizationThreshold is a soft target in (0, 1] used to rank cartons
	MaxUtilizationThreshold *float64 `json:"max_utilization_threshold,omitempty" example:"0.8"`
}

// DefaultPackingRules returns the rules used when a caller sends none.
func DefaultPackingRules() PackingRules {
	return PackingRules{
		OptimizeForMinimumBoxes: true,
		AllowMixedCategories:    true,
	}
}

// Strategy returns the heuristic implied by the rules.
func (r PackingRules) Strategy() Strategy {
	if r.OptimizeForMinimumBoxes {
		return StrategyBestFit
	}
	return StrategyFirstFit
}

// Validate rejects rule combinations the engine cannot honour.
func (r PackingRules) Validate() error {
	if r.MaxUtilizationThreshold != nil {
		t := *r.MaxUtilizationThreshold
		if t <= 0 || t > 1 {
			return fmt.Errorf("%w: got %v", ErrInvalidUtilizationThreshold, t)
		}
	}
	return nil
}

// Canonical returns a stable textual encoding used for fingerprinting.
func (r PackingRules) Canonical() string {
	var b strings.Builder
	b.WriteString("min_boxes=")
	b.WriteString(strconv.FormatBool(r.OptimizeForMinimumBoxes))
	b.WriteString(";mixed=")
	b.WriteString(strconv.FormatBool(r.AllowMixedCategories))
	b.WriteString(";fragile_sep=")
	b.WriteString(strconv.FormatBool(r.SeparateFragileItems))
	b.WriteString(";max_util=")
	if r.MaxUtilizationThreshold != nil {
		b.WriteString(strconv.FormatFloat(*r.MaxUtilizationThreshold, 'g', -1, 64))
	} else {
		b.WriteString("none")
	}
	return b.String()
}

// PackingRequest is a single order-packing call.
type PackingRequest struct {
	RequestID string       `json:"request_id"`
	OrderID   string       `json:"order_id"`
	Items     []Item       `json:"items"`
	Rules     PackingRules `json:"rules"`
	// CatalogVersion is filled with the snapshot version used for the computation
	CatalogVersion int64 `json:"catalog_version"`
}

// TotalUnits returns the number of physical units requested.
func (r PackingRequest) TotalUnits() int {
	n := 0
	for _, it := range r.Items {
		n += it.Quantity
	}
	return n
}
