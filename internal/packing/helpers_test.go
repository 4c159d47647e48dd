package packing

import (
	"testing"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func cube(sku string, side, weight float64, qty int) model.Item {
	return model.Item{
		SKU:        sku,
		Dimensions: model.Dimensions{Length: side, Width: side, Height: side},
		Weight:     weight,
		Quantity:   qty,
	}
}

func carton(id string, l, w, h, maxWeight float64, cost string) model.Carton {
	return model.Carton{
		ID:         id,
		Dimensions: model.Dimensions{Length: l, Width: w, Height: h},
		MaxWeight:  maxWeight,
		Cost:       decimal.RequireFromString(cost),
		Status:     model.CartonStatusActive,
	}
}

func snapshotOf(cartons ...model.Carton) model.CatalogSnapshot {
	return model.CatalogSnapshot{Version: 1, Cartons: cartons}
}

// requireInvariants asserts conservation, capacity, no-overlap and carton status.
func requireInvariants(t *testing.T, pkgs []model.Package, items []model.Item, snap model.CatalogSnapshot, rules model.PackingRules) {
	t.Helper()
	require.NoError(t, Validate(pkgs, items, snap, rules))
}
