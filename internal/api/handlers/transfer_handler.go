package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/retailgrid/replenish/backend-go/internal/service"
)

type TransferHandler struct {
	service *service.TransferService
}

func NewTransferHandler(service *service.TransferService) *TransferHandler {
	return &TransferHandler{service: service}
}

// GetOptions ranks donor stores for an emergency transfer.
// GET /api/v1/transfers/options?tenant_id=&store_id=&product_id=&qty=&radius_miles=&max_results=
func (h *TransferHandler) GetOptions(c *gin.Context) {
	tenantID, storeID, productID, ok := parsePairParams(c)
	if !ok {
		return
	}
	qty, _ := strconv.Atoi(c.DefaultQuery("qty", "0"))
	maxResults, _ := strconv.Atoi(c.DefaultQuery("max_results", "0"))
	radiusMiles, _ := strconv.ParseFloat(c.DefaultQuery("radius_miles", "0"), 64)

	options, err := h.service.FindOptions(c.Request.Context(), tenantID, productID, storeID, qty, maxResults, radiusMiles)
	if err != nil {
		log.Error().Err(err).
			Int64("store_id", storeID).
			Int64("product_id", productID).
			Msg("transfer option ranking failed")
		errorResponse(c, http.StatusInternalServerError, "failed to rank transfer options")
		return
	}

	c.JSON(http.StatusOK, gin.H{"options": options, "count": len(options)})
}

type createTransferRequest struct {
	TenantID    int64 `json:"tenant_id" binding:"required"`
	ProductID   int64 `json:"product_id" binding:"required"`
	FromStoreID int64 `json:"from_store_id" binding:"required"`
	ToStoreID   int64 `json:"to_store_id" binding:"required"`
	Qty         int   `json:"qty" binding:"required"`
}

// CreateRequest persists a chosen transfer option as a request.
// POST /api/v1/transfers/requests
func (h *TransferHandler) CreateRequest(c *gin.Context) {
	var req createTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		errorResponse(c, http.StatusBadRequest, "invalid transfer request payload")
		return
	}

	request, err := h.service.CreateRequest(c.Request.Context(), req.TenantID, req.ProductID, req.FromStoreID, req.ToStoreID, req.Qty)
	if err != nil {
		errorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	c.JSON(http.StatusCreated, request)
}
