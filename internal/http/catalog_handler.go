package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cartonization-service/internal/domain/dto"
	"github.com/guttosm/cartonization-service/internal/i18n"
	"github.com/guttosm/cartonization-service/internal/service"
)

// CatalogHandler exposes the carton catalog. Every mutation bumps the
// catalog version, which retires cached solutions computed against it.
type CatalogHandler struct {
	catalog service.CatalogManager
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog service.CatalogManager) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// RegisterRoutes registers the catalog routes on the API group.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cartons", h.ListCartons)
	rg.PUT("/cartons", h.UpsertCarton)
	rg.DELETE("/cartons/:id", h.DeactivateCarton)
}

// ListCartons handles GET /api/cartons.
//
// @Summary      List the carton catalog
// @Tags         Cartons
// @Produce      json
// @Success      200 {object} dto.SuccessResponse{data=dto.CatalogResponse}
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Router       /api/cartons [get]
func (h *CatalogHandler) ListCartons(c *gin.Context) {
	builder := NewResponseBuilder(c)

	snap, err := h.catalog.Snapshot(c.Request.Context())
	if err != nil {
		builder.PackingError(err)
		return
	}
	builder.SuccessOK(dto.CatalogResponse{Version: snap.Version, Cartons: snap.Cartons})
}

// UpsertCarton handles PUT /api/cartons.
//
// @Summary      Create or replace a carton
// @Description  Cartons without a status are stored as ACTIVE.
// @Tags         Cartons
// @Accept       json
// @Produce      json
// @Param        request body dto.UpsertCartonRequest true "Carton"
// @Success      200 {object} dto.SuccessResponse{data=dto.CatalogMutationResponse}
// @Failure      400 {object} dto.ErrorResponse "Invalid carton"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Router       /api/cartons [put]
func (h *CatalogHandler) UpsertCarton(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequest[dto.UpsertCartonRequest](c)
	if err != nil {
		builder.ErrorWithCode(http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequestBody,
			map[string]string{"reason": err.Error()}, err)
		return
	}

	version, err := h.catalog.Upsert(c.Request.Context(), req.ToModel())
	if err != nil {
		builder.PackingError(err)
		return
	}
	builder.SuccessOK(dto.CatalogMutationResponse{CartonID: req.ID, CatalogVersion: version})
}

// DeactivateCarton handles DELETE /api/cartons/:id. The carton is kept as
// INACTIVE rather than removed.
//
// @Summary      Deactivate a carton
// @Tags         Cartons
// @Produce      json
// @Param        id path string true "Carton ID"
// @Success      200 {object} dto.SuccessResponse{data=dto.CatalogMutationResponse}
// @Failure      404 {object} dto.ErrorResponse "Carton not found"
// @Failure      503 {object} dto.ErrorResponse "Catalog unavailable"
// @Router       /api/cartons/{id} [delete]
func (h *CatalogHandler) DeactivateCarton(c *gin.Context) {
	builder := NewResponseBuilder(c)
	id := c.Param("id")

	version, err := h.catalog.Deactivate(c.Request.Context(), id)
	if err != nil {
		if service.IsNotFound(err) {
			builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
			return
		}
		builder.PackingError(err)
		return
	}
	builder.SuccessOK(dto.CatalogMutationResponse{CartonID: id, CatalogVersion: version})
}
