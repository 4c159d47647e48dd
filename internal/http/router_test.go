package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/guttosm/cartonization-service/internal/middleware"
	"github.com/stretchr/testify/assert"
)

func TestRouter_Endpoints(t *testing.T) {
	router, _ := setupRouterWithMock(t)

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{name: "healthz", method: http.MethodGet, path: "/healthz", expectedStatus: http.StatusOK},
		{name: "readyz", method: http.MethodGet, path: "/readyz", expectedStatus: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/metrics", expectedStatus: http.StatusOK},
		{name: "swagger", method: http.MethodGet, path: "/swagger/index.html", expectedStatus: http.StatusOK},
		{name: "calculate without body", method: http.MethodPost, path: "/api/packing/calculate", expectedStatus: http.StatusBadRequest},
		{name: "unknown route", method: http.MethodGet, path: "/api/unknown", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRouter_SwaggerBasicAuth(t *testing.T) {
	cfg := testRouterConfig()
	cfg.SwaggerUser = "docs"
	cfg.SwaggerPass = "secret"
	router := NewRouter(nil, NewHealthHandler(), cfg)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil)
	req.SetBasicAuth("docs", "secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRouter_RateLimit(t *testing.T) {
	limiter := middleware.NewRateLimiter(2, time.Minute)
	defer limiter.Stop()

	cfg := testRouterConfig()
	cfg.RateLimiter = limiter
	router := NewRouter(nil, NewHealthHandler(), cfg)

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
	assert.Equal(t, 1, limiter.Visitors())
}

func TestRouter_RequestIDPropagated(t *testing.T) {
	router, _ := setupRouterWithMock(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
}
