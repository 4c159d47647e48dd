package dto

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/guttosm/cartonization-service/internal/packing"
	"github.com/stretchr/testify/assert"
)

func TestErrorResponse_WithRequestID(t *testing.T) {
	err := NewError(ErrCodeInternal, "test error").WithRequestID("test-id")

	assert.Equal(t, "test-id", err.RequestID)
	assert.Equal(t, ErrCodeInternal, err.Error)
	assert.Equal(t, "test error", err.Message)
	assert.False(t, err.Timestamp.IsZero())
}

func TestErrCodeFromStatus(t *testing.T) {
	tests := []struct {
		status       int
		expectedCode string
	}{
		{http.StatusBadRequest, ErrCodeInvalidRequest},
		{http.StatusNotFound, ErrCodeNotFound},
		{http.StatusTooManyRequests, ErrCodeRateLimit},
		{http.StatusGatewayTimeout, ErrCodeTimeout},
		{http.StatusRequestTimeout, ErrCodeTimeout},
		{http.StatusInternalServerError, ErrCodeInternal},
		{http.StatusBadGateway, ErrCodeInternal},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.expectedCode, ErrCodeFromStatus(tt.status))
		})
	}
}

func TestStatusFromCode(t *testing.T) {
	tests := []struct {
		code   packing.ErrorCode
		status int
	}{
		{packing.CodeInvalidRequest, http.StatusBadRequest},
		{packing.CodeInvalidRules, http.StatusBadRequest},
		{packing.CodeNoSuitableCarton, http.StatusUnprocessableEntity},
		{packing.CodeItemExceedsAllCartons, http.StatusUnprocessableEntity},
		{packing.CodeWeightLimitExceeded, http.StatusUnprocessableEntity},
		{packing.CodeComputationTimeout, http.StatusGatewayTimeout},
		{packing.CodeDependencyUnavailable, http.StatusServiceUnavailable},
		{packing.CodeInternalValidationFailure, http.StatusInternalServerError},
		{"", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.status, StatusFromCode(tt.code))
		})
	}
}
