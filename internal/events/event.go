// Package events publishes cartonization domain events as CloudEvents.
package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/cartonization-service/internal/domain/model"
)

const (
	// PackingSolutionCalculated is emitted after a fresh solution is computed.
	PackingSolutionCalculated = "wms.packing.solution-calculated"

	// SourceCartonization identifies this service as the event source.
	SourceCartonization = "/wms/cartonization-service"

	specVersion     = "1.0"
	jsonContentType = "application/json"
)

// CloudEvent is a CloudEvents v1.0 envelope.
type CloudEvent struct {
	SpecVersion     string      `json:"specversion"`
	Type            string      `json:"type"`
	Source          string      `json:"source"`
	Subject         string      `json:"subject,omitempty"`
	ID              string      `json:"id"`
	Time            time.Time   `json:"time"`
	DataContentType string      `json:"datacontenttype"`
	Data            interface{} `json:"data"`

	// CorrelationID carries the inbound request id.
	CorrelationID string `json:"wmscorrelationid,omitempty"`
	OrderID       string `json:"wmsorderid,omitempty"`
}

// SolutionCalculatedData is the payload of PackingSolutionCalculated.
type SolutionCalculatedData struct {
	SolutionID     string                `json:"solution_id"`
	OrderID        string                `json:"order_id"`
	CatalogVersion int64                 `json:"catalog_version"`
	Packages       []model.Package       `json:"packages"`
	Metrics        model.SolutionMetrics `json:"metrics"`
}

// NewSolutionCalculated wraps a solution in a PackingSolutionCalculated event.
func NewSolutionCalculated(solution *model.PackingSolution, now time.Time) *CloudEvent {
	return &CloudEvent{
		SpecVersion:     specVersion,
		Type:            PackingSolutionCalculated,
		Source:          SourceCartonization,
		Subject:         solution.OrderID,
		ID:              uuid.NewString(),
		Time:            now.UTC(),
		DataContentType: jsonContentType,
		Data: SolutionCalculatedData{
			SolutionID:     solution.SolutionID,
			OrderID:        solution.OrderID,
			CatalogVersion: solution.CatalogVersion,
			Packages:       solution.Packages,
			Metrics:        solution.Metrics,
		},
		CorrelationID: solution.RequestID,
		OrderID:       solution.OrderID,
	}
}
