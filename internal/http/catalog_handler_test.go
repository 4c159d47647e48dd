package http

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cartonization-service/internal/domain/dto"
	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/guttosm/cartonization-service/internal/mocks"
	"github.com/guttosm/cartonization-service/internal/packing"
	"github.com/guttosm/cartonization-service/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupCatalogRouter(t *testing.T) (*gin.Engine, *mocks.MockCatalogManager) {
	t.Helper()
	catalog := &mocks.MockCatalogManager{}
	t.Cleanup(func() { catalog.AssertExpectations(t) })

	cfg := testRouterConfig()
	cfg.Catalog = catalog
	return NewRouter(nil, NewHealthHandler(), cfg), catalog
}

func TestListCartons(t *testing.T) {
	router, catalog := setupCatalogRouter(t)
	catalog.On("Snapshot", mock.Anything).Return(model.CatalogSnapshot{
		Version: 7,
		Cartons: []model.Carton{
			{ID: "BOX-S", Dimensions: model.Dimensions{Length: 20, Width: 20, Height: 20}, MaxWeight: 10, Cost: decimal.RequireFromString("0.80"), Status: model.CartonStatusActive},
			{ID: "BOX-OLD", Dimensions: model.Dimensions{Length: 15, Width: 15, Height: 15}, MaxWeight: 5, Status: model.CartonStatusInactive},
		},
	}, nil).Once()

	w := doJSON(router, http.MethodGet, "/api/cartons", "", nil)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeData[dto.CatalogResponse](t, w)
	assert.Equal(t, int64(7), resp.Version)
	assert.Len(t, resp.Cartons, 2)
}

func TestListCartons_Unavailable(t *testing.T) {
	router, catalog := setupCatalogRouter(t)
	catalog.On("Snapshot", mock.Anything).
		Return(model.CatalogSnapshot{}, packing.NewError(packing.CodeDependencyUnavailable, "carton catalog unavailable", nil)).Once()

	w := doJSON(router, http.MethodGet, "/api/cartons", "", nil)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "DEPENDENCY_UNAVAILABLE", decodeError(t, w).Error)
}

func TestUpsertCarton(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*mocks.MockCatalogManager)
		wantStatus int
		wantCode   string
	}{
		{
			name: "stores carton",
			body: `{"id": "BOX-M", "dimensions": {"length": 30, "width": 20, "height": 20}, "max_weight": 15, "cost": "1.25"}`,
			setup: func(m *mocks.MockCatalogManager) {
				m.On("Upsert", mock.Anything, mock.MatchedBy(func(c model.Carton) bool {
					return c.ID == "BOX-M" && c.Dimensions.Volume() == 12000 && c.Cost.Equal(decimal.RequireFromString("1.25"))
				})).Return(int64(4), nil).Once()
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing id",
			body:       `{"dimensions": {"length": 30, "width": 20, "height": 20}, "max_weight": 15}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name:       "unknown status",
			body:       `{"id": "BOX-M", "dimensions": {"length": 30, "width": 20, "height": 20}, "max_weight": 15, "status": "RETIRED"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name: "rejected by catalog",
			body: `{"id": "BOX-M", "max_weight": 15}`,
			setup: func(m *mocks.MockCatalogManager) {
				m.On("Upsert", mock.Anything, mock.Anything).
					Return(int64(0), packing.NewError(packing.CodeInvalidRequest, "carton dimensions must be positive", nil)).Once()
			},
			wantStatus: http.StatusBadRequest,
			wantCode:   "INVALID_REQUEST",
		},
		{
			name: "store unavailable",
			body: `{"id": "BOX-M", "dimensions": {"length": 30, "width": 20, "height": 20}, "max_weight": 15}`,
			setup: func(m *mocks.MockCatalogManager) {
				m.On("Upsert", mock.Anything, mock.Anything).
					Return(int64(0), packing.NewError(packing.CodeDependencyUnavailable, "carton catalog write failed", nil)).Once()
			},
			wantStatus: http.StatusServiceUnavailable,
			wantCode:   "DEPENDENCY_UNAVAILABLE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router, catalog := setupCatalogRouter(t)
			if tt.setup != nil {
				tt.setup(catalog)
			}

			w := doJSON(router, http.MethodPut, "/api/cartons", tt.body, nil)

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, w).Error)
				return
			}
			resp := decodeData[dto.CatalogMutationResponse](t, w)
			assert.Equal(t, "BOX-M", resp.CartonID)
			assert.Equal(t, int64(4), resp.CatalogVersion)
		})
	}
}

func TestDeactivateCarton(t *testing.T) {
	t.Run("deactivates", func(t *testing.T) {
		router, catalog := setupCatalogRouter(t)
		catalog.On("Deactivate", mock.Anything, "BOX-S").Return(int64(9), nil).Once()

		w := doJSON(router, http.MethodDelete, "/api/cartons/BOX-S", "", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, int64(9), decodeData[dto.CatalogMutationResponse](t, w).CatalogVersion)
	})

	t.Run("unknown carton", func(t *testing.T) {
		router, catalog := setupCatalogRouter(t)
		catalog.On("Deactivate", mock.Anything, "NOPE").Return(int64(0), repository.ErrCartonNotFound).Once()

		w := doJSON(router, http.MethodDelete, "/api/cartons/NOPE", "", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", decodeError(t, w).Error)
	})
}

func TestCatalogRoutesDisabledWithoutCatalog(t *testing.T) {
	router, _ := setupRouterWithMock(t)

	w := doJSON(router, http.MethodGet, "/api/cartons", "", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
