package repository

import (
	"time"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

func sampleSolution(id, orderID string) *model.PackingSolution {
	return &model.PackingSolution{
		SolutionID:     id,
		OrderID:        orderID,
		CatalogVersion: 3,
		Fingerprint:    "fp-" + id,
		Packages: []model.Package{{
			CartonID:         "BOX-S",
			CartonDimensions: model.Dimensions{Length: 30, Width: 10, Height: 10},
			Placements: []model.ItemPlacement{{
				SKU:         "SKU-1",
				Quantity:    1,
				Orientation: model.OrientationLWH,
				Size:        model.Dimensions{Length: 10, Width: 10, Height: 10},
				Volume:      1000,
				Weight:      1,
			}},
			Utilization: 1.0 / 3,
			TotalWeight: 1,
			Cost:        decimal.RequireFromString("0.95"),
		}},
		Metrics: model.SolutionMetrics{
			TotalPackages: 1,
			TotalWeight:   1,
			TotalCost:     decimal.RequireFromString("0.95"),
			Strategy:      model.StrategyBestFit,
		},
		CreatedAt: time.Now().UTC(),
	}
}
