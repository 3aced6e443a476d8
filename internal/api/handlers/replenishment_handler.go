package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/retailgrid/replenish/backend-go/internal/repository"
	"github.com/retailgrid/replenish/backend-go/internal/service"
)

type ReplenishmentHandler struct {
	service *service.ReplenishmentService
	points  repository.ReorderPointRepository
}

func NewReplenishmentHandler(service *service.ReplenishmentService, points repository.ReorderPointRepository) *ReplenishmentHandler {
	return &ReplenishmentHandler{service: service, points: points}
}

// GetRecommendation resolves a source and recomputes the reorder point
// for one (store, product) pair.
// GET /api/v1/replenishment/recommendation?tenant_id=&store_id=&product_id=&qty=
func (h *ReplenishmentHandler) GetRecommendation(c *gin.Context) {
	tenantID, storeID, productID, ok := parsePairParams(c)
	if !ok {
		return
	}
	qty, _ := strconv.Atoi(c.DefaultQuery("qty", "0"))

	recommendation, err := h.service.Recommend(c.Request.Context(), tenantID, storeID, productID, qty)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "store or product not found")
			return
		}
		log.Error().Err(err).
			Int64("store_id", storeID).
			Int64("product_id", productID).
			Msg("recommendation failed")
		errorResponse(c, http.StatusInternalServerError, "failed to compute recommendation")
		return
	}

	c.JSON(http.StatusOK, recommendation)
}

// GetReorderPoint returns the persisted reorder point for a pair.
// GET /api/v1/replenishment/reorder_point?tenant_id=&store_id=&product_id=
func (h *ReplenishmentHandler) GetReorderPoint(c *gin.Context) {
	tenantID, storeID, productID, ok := parsePairParams(c)
	if !ok {
		return
	}

	point, err := h.points.GetReorderPoint(c.Request.Context(), tenantID, storeID, productID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			errorResponse(c, http.StatusNotFound, "no reorder point for this store and product")
			return
		}
		log.Error().Err(err).
			Int64("store_id", storeID).
			Int64("product_id", productID).
			Msg("reorder point lookup failed")
		errorResponse(c, http.StatusInternalServerError, "failed to load reorder point")
		return
	}

	c.JSON(http.StatusOK, point)
}

func parsePairParams(c *gin.Context) (tenantID, storeID, productID int64, ok bool) {
	var err error
	if tenantID, err = strconv.ParseInt(c.Query("tenant_id"), 10, 64); err != nil || tenantID <= 0 {
		errorResponse(c, http.StatusBadRequest, "tenant_id is required")
		return 0, 0, 0, false
	}
	if storeID, err = strconv.ParseInt(c.Query("store_id"), 10, 64); err != nil || storeID <= 0 {
		errorResponse(c, http.StatusBadRequest, "store_id is required")
		return 0, 0, 0, false
	}
	if productID, err = strconv.ParseInt(c.Query("product_id"), 10, 64); err != nil || productID <= 0 {
		errorResponse(c, http.StatusBadRequest, "product_id is required")
		return 0, 0, 0, false
	}
	return tenantID, storeID, productID, true
}

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.JSON(statusCode, gin.H{"error": message})
}
