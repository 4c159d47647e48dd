package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(PrometheusMiddleware())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/error", func(c *gin.Context) {
		c.String(http.StatusInternalServerError, "error")
	})

	tests := []struct {
		name           string
		path           string
		expectedStatus int
	}{
		{
			name:           "records metrics for successful request",
			path:           "/test",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "records metrics for error request",
			path:           "/error",
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, nil)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
		})
	}
}

func TestRecordComputation(t *testing.T) {
	before := testutil.ToFloat64(PackingComputationsTotal.WithLabelValues("success", "BFD"))

	RecordComputation(100*time.Millisecond, "success", "BFD")
	RecordComputation(50*time.Millisecond, "timeout", "FFD")

	assert.Equal(t, before+1, testutil.ToFloat64(PackingComputationsTotal.WithLabelValues("success", "BFD")))
}

func TestRecordSolution(t *testing.T) {
	before := testutil.ToFloat64(FallbacksTotal)

	RecordSolution([]float64{0.5, 0.9}, true)
	RecordSolution([]float64{1}, false)

	assert.Equal(t, before+1, testutil.ToFloat64(FallbacksTotal))
}

func TestSetCatalogVersion(t *testing.T) {
	SetCatalogVersion(7)

	assert.Equal(t, 7.0, testutil.ToFloat64(CatalogVersion))
}

func TestRecordCounters(t *testing.T) {
	coalesced := testutil.ToFloat64(CoalescedRequestsTotal)
	RecordCoalesced()
	assert.Equal(t, coalesced+1, testutil.ToFloat64(CoalescedRequestsTotal))

	RecordDependencyCall("catalog", "success")
	assert.GreaterOrEqual(t, testutil.ToFloat64(DependencyCallsTotal.WithLabelValues("catalog", "success")), 1.0)

	RecordEventPublished("wms.packing.solution-calculated", "success")
	assert.GreaterOrEqual(t, testutil.ToFloat64(EventsPublishedTotal.WithLabelValues("wms.packing.solution-calculated", "success")), 1.0)
}

func TestRecordCacheOperation(t *testing.T) {
	before := testutil.ToFloat64(CacheOperationsTotal.WithLabelValues("get", "hit"))

	RecordCacheOperation("get", "hit")
	RecordCacheOperation("get", "miss")
	RecordCacheOperation("set", "success")

	assert.Equal(t, before+1, testutil.ToFloat64(CacheOperationsTotal.WithLabelValues("get", "hit")))
}

func TestUpdateCacheMetrics(t *testing.T) {
	UpdateCacheMetrics(50, 100)
	UpdateCacheMetrics(75, 100)

	assert.Equal(t, 75.0, testutil.ToFloat64(CacheSize))
	assert.Equal(t, 100.0, testutil.ToFloat64(CacheCapacity))
}
