package packing

import (
	"math"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

// DefaultDimensionalDivisor is the carrier divisor in cm³ per kg.
const DefaultDimensionalDivisor = 5000.0

// Calculator derives per-package and aggregate figures for a validated solution.
type Calculator struct {
	divisor float64
}

// NewCalculator creates a calculator. A non-positive divisor selects the default.
func NewCalculator(divisor float64) *Calculator {
	if divisor <= 0 {
		divisor = DefaultDimensionalDivisor
	}
	return &Calculator{divisor: divisor}
}

// Package fills utilization, weights and cost of pkg from its carton.
func (c *Calculator) Package(pkg *model.Package, carton model.Carton) {
	var weight float64
	for _, pl := range pkg.Placements {
		weight += pl.Weight
	}
	if v := carton.Volume(); v > 0 {
		pkg.Utilization = round(pkg.OccupiedVolume() / v)
	}
	pkg.TotalWeight = round(weight)
	pkg.DimensionalWeight = round(carton.Volume() / c.divisor)
	pkg.BillableWeight = math.Max(pkg.TotalWeight, pkg.DimensionalWeight)
	pkg.Cost = carton.Cost
}

// Summarize fills every package and returns the aggregate metrics.
func (c *Calculator) Summarize(packages []model.Package, snapshot model.CatalogSnapshot, strategy model.Strategy, fallback bool) model.SolutionMetrics {
	m := model.SolutionMetrics{
		TotalPackages: len(packages),
		TotalCost:     decimal.Zero,
		Strategy:      strategy,
		Fallback:      fallback,
	}
	var util float64
	for i := range packages {
		if carton, ok := snapshot.Lookup(packages[i].CartonID); ok {
			c.Package(&packages[i], carton)
		}
		util += packages[i].Utilization
		m.TotalWeight += packages[i].TotalWeight
		m.TotalDimensionalWeight += packages[i].DimensionalWeight
		m.TotalCost = m.TotalCost.Add(packages[i].Cost)
	}
	if len(packages) > 0 {
		m.AverageUtilization = round(util / float64(len(packages)))
	}
	m.TotalWeight = round(m.TotalWeight)
	m.TotalDimensionalWeight = round(m.TotalDimensionalWeight)
	return m
}

// round keeps six decimal places so float noise does not leak into responses.
func round(v float64) float64 {
	return math.Round(v*1e6) / 1e6
}
