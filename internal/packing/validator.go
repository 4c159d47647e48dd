package packing

import (
	"fmt"
	"sort"
	"strings"

	"github.com/guttosm/cartonization-service/internal/domain/model"
)

// Validate re-checks every solution invariant against the request and the
// snapshot it was computed from. Any violation is an engine defect and is
// reported as INTERNAL_VALIDATION_FAILURE.
func Validate(packages []model.Package, items []model.Item, snapshot model.CatalogSnapshot, rules model.PackingRules) error {
	var violations []string
	add := func(format string, args ...interface{}) {
		violations = append(violations, fmt.Sprintf(format, args...))
	}

	requested := make(map[string]int, len(items))
	for _, it := range items {
		requested[it.SKU] += it.Quantity
	}
	placed := make(map[string]int, len(items))

	for i, pkg := range packages {
		carton, ok := snapshot.Lookup(pkg.CartonID)
		switch {
		case !ok:
			add("package %d: carton %s not in catalog version %d", i, pkg.CartonID, snapshot.Version)
			continue
		case !carton.IsActive():
			add("package %d: carton %s is %s", i, pkg.CartonID, carton.Status)
		}
		if len(pkg.Placements) == 0 {
			add("package %d: no placements", i)
		}

		var volume, weight float64
		categories := make(map[string]struct{})
		for j, pl := range pkg.Placements {
			if pl.Quantity <= 0 {
				add("package %d placement %d: non-positive quantity", i, j)
			}
			placed[pl.SKU] += pl.Quantity
			volume += pl.Volume
			weight += pl.Weight
			categories[pl.Category] = struct{}{}

			if !withinCarton(pl, carton.Dimensions) {
				add("package %d placement %d (%s): outside carton bounds", i, j, pl.SKU)
			}
			if pl.Fragile && carton.NoFragile {
				add("package %d placement %d (%s): fragile item in fragile-incompatible carton", i, j, pl.SKU)
			}
			for k := j + 1; k < len(pkg.Placements); k++ {
				other := pkg.Placements[k]
				if pl.Overlaps(other) {
					add("package %d: placements %d and %d overlap", i, j, k)
				}
				if rules.SeparateFragileItems {
					if pl.Fragile && !other.Fragile && other.IsAbove(pl) {
						add("package %d: non-fragile %s above fragile %s", i, other.SKU, pl.SKU)
					}
					if other.Fragile && !pl.Fragile && pl.IsAbove(other) {
						add("package %d: non-fragile %s above fragile %s", i, pl.SKU, other.SKU)
					}
				}
			}
		}

		if volume > carton.Volume()+model.Epsilon {
			add("package %d: occupied volume %.3f exceeds carton volume %.3f", i, volume, carton.Volume())
		}
		if weight > carton.MaxWeight+model.Epsilon {
			add("package %d: weight %.3f exceeds carton capacity %.3f", i, weight, carton.MaxWeight)
		}
		if !rules.AllowMixedCategories && len(categories) > 1 {
			add("package %d: mixes %d categories", i, len(categories))
		}
	}

	skus := make([]string, 0, len(requested)+len(placed))
	for sku := range requested {
		skus = append(skus, sku)
	}
	for sku := range placed {
		if _, ok := requested[sku]; !ok {
			skus = append(skus, sku)
		}
	}
	sort.Strings(skus)
	for _, sku := range skus {
		if requested[sku] != placed[sku] {
			add("sku %s: requested %d, placed %d", sku, requested[sku], placed[sku])
		}
	}

	if len(violations) > 0 {
		return NewError(CodeInternalValidationFailure, strings.Join(violations, "; "), nil)
	}
	return nil
}

func withinCarton(pl model.ItemPlacement, d model.Dimensions) bool {
	top := pl.Max()
	return pl.Position.X >= -model.Epsilon && pl.Position.Y >= -model.Epsilon && pl.Position.Z >= -model.Epsilon &&
		top.X <= d.Length+model.Epsilon && top.Y <= d.Width+model.Epsilon && top.Z <= d.Height+model.Epsilon
}
