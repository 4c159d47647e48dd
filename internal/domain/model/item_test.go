package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimensions_Volume(t *testing.T) {
	tests := []struct {
		name     string
		dims     Dimensions
		expected float64
	}{
		{name: "cube", dims: Dimensions{Length: 10, Width: 10, Height: 10}, expected: 1000},
		{name: "flat", dims: Dimensions{Length: 30, Width: 20, Height: 1}, expected: 600},
		{name: "zero side", dims: Dimensions{Length: 30, Width: 0, Height: 1}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, tt.dims.Volume(), 1e-9)
		})
	}
}

func TestDimensions_Valid(t *testing.T) {
	assert.True(t, Dimensions{Length: 1, Width: 2, Height: 3}.Valid())
	assert.False(t, Dimensions{Length: 1, Width: 0, Height: 3}.Valid())
	assert.False(t, Dimensions{Length: -1, Width: 2, Height: 3}.Valid())
	assert.True(t, Dimensions{}.IsZero())
}

func TestDimensions_FitsWithin(t *testing.T) {
	tests := []struct {
		name     string
		inner    Dimensions
		outer    Dimensions
		expected bool
	}{
		{
			name:     "same size",
			inner:    Dimensions{Length: 10, Width: 10, Height: 10},
			outer:    Dimensions{Length: 10, Width: 10, Height: 10},
			expected: true,
		},
		{
			name:     "fits after rotation",
			inner:    Dimensions{Length: 5, Width: 30, Height: 10},
			outer:    Dimensions{Length: 30, Width: 10, Height: 5},
			expected: true,
		},
		{
			name:     "too long on every axis",
			inner:    Dimensions{Length: 31, Width: 1, Height: 1},
			outer:    Dimensions{Length: 30, Width: 30, Height: 30},
			expected: false,
		},
		{
			name:     "volume fits but shape does not",
			inner:    Dimensions{Length: 20, Width: 20, Height: 1},
			outer:    Dimensions{Length: 10, Width: 10, Height: 10},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.inner.FitsWithin(tt.outer))
		})
	}
}

func TestItem_Totals(t *testing.T) {
	item := Item{
		SKU:        "SKU-1",
		Dimensions: Dimensions{Length: 10, Width: 5, Height: 2},
		Weight:     1.5,
		Quantity:   4,
	}

	assert.InDelta(t, 100.0, item.UnitVolume(), 1e-9)
	assert.InDelta(t, 400.0, item.TotalVolume(), 1e-9)
	assert.InDelta(t, 6.0, item.TotalWeight(), 1e-9)
}
