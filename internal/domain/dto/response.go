package dto

import (
	"net/http"
	"time"

	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/guttosm/cartonization-service/internal/packing"
)

// Transport-level error codes. Engine failures use the packing error codes.
const (
	ErrCodeInvalidRequest = string(packing.CodeInvalidRequest)
	ErrCodeInternal       = "INTERNAL_ERROR"
	ErrCodeNotFound       = "NOT_FOUND"
	ErrCodeRateLimit      = "RATE_LIMIT_EXCEEDED"
	ErrCodeTimeout        = "TIMEOUT"
)

// SuccessResponse wraps successful API responses with metadata.
// @Description Successful API response wrapper
type SuccessResponse struct {
	// Data contains the actual response payload
	Data interface{} `json:"data" swaggertype:"object"`
	// RequestID is the unique request identifier
	RequestID string `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	// Timestamp is when the response was generated
	Timestamp time.Time `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name SuccessResponse

// ErrorResponse represents a standardized error response for the API.
// @Description Standardized error response
type ErrorResponse struct {
	Error   string `json:"error" example:"ITEM_EXCEEDS_ALL_CARTONS"`
	Message string `json:"message,omitempty" example:"An item is larger than every available carton"`
	// Details contains additional error details (optional)
	Details   map[string]string `json:"details,omitempty"`
	RequestID string            `json:"request_id,omitempty" example:"550e8400-e29b-41d4-a716-446655440000"`
	Timestamp time.Time         `json:"timestamp" example:"2026-01-28T10:00:00Z"`
} // @name ErrorResponse

// NewError creates a new ErrorResponse with the given code and message.
func NewError(code, message string) ErrorResponse {
	return ErrorResponse{
		Error:     code,
		Message:   message,
		Timestamp: time.Now(),
	}
}

// WithRequestID adds a request ID to the error response.
func (e ErrorResponse) WithRequestID(requestID string) ErrorResponse {
	e.RequestID = requestID
	return e
}

// ErrCodeFromStatus returns the transport error code for an HTTP status.
func ErrCodeFromStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return ErrCodeInvalidRequest
	case http.StatusNotFound:
		return ErrCodeNotFound
	case http.StatusTooManyRequests:
		return ErrCodeRateLimit
	case http.StatusGatewayTimeout, http.StatusRequestTimeout:
		return ErrCodeTimeout
	default:
		return ErrCodeInternal
	}
}

// StatusFromCode maps a packing error code to its HTTP status.
func StatusFromCode(code packing.ErrorCode) int {
	switch code {
	case packing.CodeInvalidRequest, packing.CodeInvalidRules:
		return http.StatusBadRequest
	case packing.CodeNoSuitableCarton, packing.CodeItemExceedsAllCartons, packing.CodeWeightLimitExceeded:
		return http.StatusUnprocessableEntity
	case packing.CodeComputationTimeout:
		return http.StatusGatewayTimeout
	case packing.CodeDependencyUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// CatalogResponse is the body of GET /api/cartons.
type CatalogResponse struct {
	Version int64          `json:"version" example:"3"`
	Cartons []model.Carton `json:"cartons"`
} // @name CatalogResponse

// CatalogMutationResponse reports the catalog version after a change.
type CatalogMutationResponse struct {
	CartonID       string `json:"carton_id" example:"BOX-M"`
	CatalogVersion int64  `json:"catalog_version" example:"4"`
} // @name CatalogMutationResponse
