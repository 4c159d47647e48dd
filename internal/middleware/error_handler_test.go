package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cartonization-service/internal/domain/dto"
	"github.com/guttosm/cartonization-service/internal/packing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorHandler(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name         string
		handler      gin.HandlerFunc
		expectedCode int
		expectedErr  string
	}{
		{
			name:         "no errors",
			handler:      func(c *gin.Context) { c.Status(http.StatusOK) },
			expectedCode: http.StatusOK,
		},
		{
			name: "error without response becomes 500",
			handler: func(c *gin.Context) {
				_ = c.Error(errors.New("unexpected"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedErr:  dto.ErrCodeInternal,
		},
		{
			name: "handler response is preserved",
			handler: func(c *gin.Context) {
				err := packing.NewError(packing.CodeItemExceedsAllCartons, "too big", nil)
				_ = c.Error(err)
				c.JSON(http.StatusUnprocessableEntity, dto.NewError(string(err.Code), err.Message))
			},
			expectedCode: http.StatusUnprocessableEntity,
			expectedErr:  string(packing.CodeItemExceedsAllCartons),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(RequestID(), ErrorHandler())
			router.GET("/test", tt.handler)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))

			assert.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedErr != "" {
				var resp dto.ErrorResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, tt.expectedErr, resp.Error)
			}
		})
	}
}
