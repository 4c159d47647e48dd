// Package dto defines Data Transfer Objects for HTTP request and response handling.
//
// DTOs decouple the HTTP layer from the domain model: they carry binding
// tags, defaults and the conversion into domain types.
package dto

import (
	"fmt"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/shopspring/decimal"
)

// DimensionsRequest holds dimensions in centimetres.
type DimensionsRequest struct {
	Length float64 `json:"length" binding:"gte=0" example:"10"`
	Width  float64 `json:"width" binding:"gte=0" example:"10"`
	Height float64 `json:"height" binding:"gte=0" example:"10"`
} // @name Dimensions

// ItemRequest is one SKU line of a packing request. Dimensions and weight
// may be omitted when the product service is configured.
type ItemRequest struct {
	SKU          string             `json:"sku" binding:"required" example:"SKU-001"`
	Quantity     int                `json:"quantity" binding:"required,gt=0,lte=1000000" example:"3"`
	Dimensions   *DimensionsRequest `json:"dimensions,omitempty"`
	Weight       float64            `json:"weight" binding:"gte=0" example:"1"`
	Fragile      bool               `json:"fragile"`
	NonRotatable bool               `json:"non_rotatable"`
	Category     string             `json:"category,omitempty" example:"books"`
} // @name ItemRequest

// RulesRequest carries optional business rules. Omitted booleans take the
// service defaults.
type RulesRequest struct {
	OptimizeForMinimumBoxes *bool    `json:"optimize_for_minimum_boxes,omitempty" example:"true"`
	AllowMixedCategories    *bool    `json:"allow_mixed_categories,omitempty" example:"true"`
	SeparateFragileItems    *bool    `json:"separate_fragile_items,omitempty" example:"false"`
	MaxUtilizationThreshold *float64 `json:"max_utilization_threshold,omitempty" example:"0.85"`
} // @name RulesRequest

// CalculatePackingRequest is the body of POST /api/packing/calculate.
//
// @Description Order items to be cartonized, with optional packing rules
type CalculatePackingRequest struct {
	OrderID string        `json:"order_id" example:"ORD-1001"`
	Items   []ItemRequest `json:"items" binding:"required,min=1,dive"`
	Rules   *RulesRequest `json:"rules,omitempty"`
} // @name CalculatePackingRequest

// ValidationError represents a field validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns the error message for ValidationError.
func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

// Validate checks what binding tags cannot express.
func (r *CalculatePackingRequest) Validate() error {
	seen := make(map[string]struct{}, len(r.Items))
	for i, it := range r.Items {
		if _, dup := seen[it.SKU]; dup {
			return &ValidationError{Field: fmt.Sprintf("items[%d].sku", i), Message: "duplicate sku " + it.SKU}
		}
		seen[it.SKU] = struct{}{}
	}
	if r.Rules != nil && r.Rules.MaxUtilizationThreshold != nil {
		if t := *r.Rules.MaxUtilizationThreshold; t <= 0 || t > 1 {
			return &ValidationError{Field: "rules.max_utilization_threshold", Message: "must be within (0, 1]"}
		}
	}
	return nil
}

// ToModel converts the request into a domain packing request.
func (r *CalculatePackingRequest) ToModel(requestID string) model.PackingRequest {
	items := make([]model.Item, len(r.Items))
	for i, it := range r.Items {
		items[i] = model.Item{
			SKU:          it.SKU,
			Quantity:     it.Quantity,
			Weight:       it.Weight,
			Fragile:      it.Fragile,
			NonRotatable: it.NonRotatable,
			Category:     it.Category,
		}
		if it.Dimensions != nil {
			items[i].Dimensions = model.Dimensions{
				Length: it.Dimensions.Length,
				Width:  it.Dimensions.Width,
				Height: it.Dimensions.Height,
			}
		}
	}
	return model.PackingRequest{
		RequestID: requestID,
		OrderID:   r.OrderID,
		Items:     items,
		Rules:     r.Rules.toModel(),
	}
}

func (r *RulesRequest) toModel() model.PackingRules {
	rules := model.DefaultPackingRules()
	if r == nil {
		return rules
	}
	if r.OptimizeForMinimumBoxes != nil {
		rules.OptimizeForMinimumBoxes = *r.OptimizeForMinimumBoxes
	}
	if r.AllowMixedCategories != nil {
		rules.AllowMixedCategories = *r.AllowMixedCategories
	}
	if r.SeparateFragileItems != nil {
		rules.SeparateFragileItems = *r.SeparateFragileItems
	}
	rules.MaxUtilizationThreshold = r.MaxUtilizationThreshold
	return rules
}

// UpsertCartonRequest is the body of PUT /api/cartons.
//
// @Description Carton to create or replace in the catalog
type UpsertCartonRequest struct {
	ID         string            `json:"id" binding:"required" example:"BOX-M"`
	Name       string            `json:"name" example:"Medium box"`
	Dimensions DimensionsRequest `json:"dimensions"`
	MaxWeight  float64           `json:"max_weight" binding:"required,gt=0" example:"10"`
	Cost       decimal.Decimal   `json:"cost" swaggertype:"string" example:"1.25"`
	Status     string            `json:"status,omitempty" binding:"omitempty,oneof=ACTIVE INACTIVE" example:"ACTIVE"`
	NoFragile  bool              `json:"no_fragile"`
} // @name UpsertCartonRequest

// ToModel converts the request into a catalog carton.
func (r *UpsertCartonRequest) ToModel() model.Carton {
	return model.Carton{
		ID:   r.ID,
		Name: r.Name,
		Dimensions: model.Dimensions{
			Length: r.Dimensions.Length,
			Width:  r.Dimensions.Width,
			Height: r.Dimensions.Height,
		},
		MaxWeight: r.MaxWeight,
		Cost:      r.Cost,
		Status:    model.CartonStatus(r.Status),
		NoFragile: r.NoFragile,
	}
}
