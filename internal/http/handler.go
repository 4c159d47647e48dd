package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/cartonization-service/internal/domain/dto"
	"github.com/guttosm/cartonization-service/internal/domain/model"
	"github.com/guttosm/cartonization-service/internal/i18n"
	"github.com/guttosm/cartonization-service/internal/middleware"
	"github.com/guttosm/cartonization-service/internal/service"
)

const (
	defaultSolutionsLimit = 10
	maxSolutionsLimit     = 100
)

// Handler provides HTTP handlers for the packing routes.
type Handler struct {
	cartonizer service.Cartonizer
}

// NewHandler creates a new Handler instance.
func NewHandler(cartonizer service.Cartonizer) *Handler {
	return &Handler{cartonizer: cartonizer}
}

// RegisterRoutes registers the packing routes on the API group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	packing := rg.Group("/packing")
	packing.POST("/calculate", h.CalculatePackingSolution)
	packing.GET("/solutions/:id", h.GetSolution)
	packing.GET("/orders/:order_id/solutions", h.ListOrderSolutions)
}

// CalculatePackingSolution handles POST /api/packing/calculate.
//
// @Summary      Calculate a packing solution
// @Description  Selects cartons and 3D item placements for the order items. Identical requests against the same catalog version are served from cache and computed once under concurrency.
// @Tags         Packing
// @Accept       json
// @Produce      json
// @Param        Accept-Language header string false "Message language (en, pt)"
// @Param        request body dto.CalculatePackingRequest true "Order items and rules"
// @Success      200 {object} dto.SuccessResponse{data=model.PackingSolution} "Packing solution"
// @Failure      400 {object} dto.ErrorResponse "INVALID_REQUEST or INVALID_RULES"
// @Failure      422 {object} dto.ErrorResponse "NO_SUITABLE_CARTON, ITEM_EXCEEDS_ALL_CARTONS or WEIGHT_LIMIT_EXCEEDED"
// @Failure      429 {object} dto.ErrorResponse "Rate limit exceeded"
// @Failure      500 {object} dto.ErrorResponse "INTERNAL_VALIDATION_FAILURE"
// @Failure      503 {object} dto.ErrorResponse "DEPENDENCY_UNAVAILABLE"
// @Failure      504 {object} dto.ErrorResponse "COMPUTATION_TIMEOUT"
// @Router       /api/packing/calculate [post]
func (h *Handler) CalculatePackingSolution(c *gin.Context) {
	builder := NewResponseBuilder(c)

	req, err := BuildRequestAndValidate[dto.CalculatePackingRequest](c)
	if err != nil {
		var ve *dto.ValidationError
		if errors.As(err, &ve) {
			builder.ErrorWithCode(http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequest,
				map[string]string{"field": ve.Field, "reason": ve.Message}, err)
			return
		}
		builder.ErrorWithCode(http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequestBody,
			map[string]string{"reason": err.Error()}, err)
		return
	}
	if req.OrderID != "" {
		c.Set(middleware.OrderIDKey, req.OrderID)
	}

	solution, err := h.cartonizer.CalculatePackingSolution(c.Request.Context(), req.ToModel(middleware.GetRequestID(c)))
	if err != nil {
		builder.PackingError(err)
		return
	}
	builder.SuccessOK(solution)
}

// GetSolution handles GET /api/packing/solutions/:id.
//
// @Summary      Get an archived packing solution
// @Tags         Packing
// @Produce      json
// @Param        id path string true "Solution ID"
// @Success      200 {object} dto.SuccessResponse{data=model.PackingSolution}
// @Failure      404 {object} dto.ErrorResponse "Solution not found"
// @Failure      500 {object} dto.ErrorResponse
// @Router       /api/packing/solutions/{id} [get]
func (h *Handler) GetSolution(c *gin.Context) {
	builder := NewResponseBuilder(c)

	solution, err := h.cartonizer.GetSolution(c.Request.Context(), c.Param("id"))
	if err != nil {
		if service.IsNotFound(err) {
			builder.Error(http.StatusNotFound, i18n.ErrKeyNotFound, nil)
			return
		}
		builder.PackingError(err)
		return
	}
	builder.SuccessOK(solution)
}

// ListOrderSolutions handles GET /api/packing/orders/:order_id/solutions.
//
// @Summary      List archived solutions of an order
// @Description  Newest first.
// @Tags         Packing
// @Produce      json
// @Param        order_id path string true "Order ID"
// @Param        limit query int false "Maximum number of solutions (1-100)" default(10)
// @Success      200 {object} dto.SuccessResponse{data=[]model.PackingSolution}
// @Failure      400 {object} dto.ErrorResponse "Invalid limit"
// @Router       /api/packing/orders/{order_id}/solutions [get]
func (h *Handler) ListOrderSolutions(c *gin.Context) {
	builder := NewResponseBuilder(c)

	limit := defaultSolutionsLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxSolutionsLimit {
			builder.ErrorWithCode(http.StatusBadRequest, dto.ErrCodeInvalidRequest, i18n.ErrKeyInvalidRequest,
				map[string]string{"field": "limit", "reason": "must be an integer between 1 and 100"}, nil)
			return
		}
		limit = n
	}

	orderID := c.Param("order_id")
	c.Set(middleware.OrderIDKey, orderID)

	solutions, err := h.cartonizer.SolutionsForOrder(c.Request.Context(), orderID, limit)
	if err != nil {
		builder.PackingError(err)
		return
	}
	if solutions == nil {
		solutions = []*model.PackingSolution{}
	}
	builder.SuccessOK(solutions)
}
