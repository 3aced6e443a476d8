package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/retailgrid/replenish/backend-go/internal/batch"
	"github.com/retailgrid/replenish/backend-go/internal/storage"
)

type BatchHandler struct {
	runner  *batch.Runner
	archive *storage.ReportArchive
}

func NewBatchHandler(runner *batch.Runner, archive *storage.ReportArchive) *BatchHandler {
	return &BatchHandler{runner: runner, archive: archive}
}

// TriggerRecalc runs a full recalculation for a tenant and returns the
// summary. The nightly path is the recalc CLI; this endpoint exists
// for on-demand reruns.
// POST /api/v1/recalc?tenant_id=
func (h *BatchHandler) TriggerRecalc(c *gin.Context) {
	tenantID, err := strconv.ParseInt(c.Query("tenant_id"), 10, 64)
	if err != nil || tenantID <= 0 {
		errorResponse(c, http.StatusBadRequest, "tenant_id is required")
		return
	}

	summary, err := h.runner.Run(c.Request.Context(), tenantID)
	if err != nil {
		log.Error().Err(err).Int64("tenant_id", tenantID).Msg("batch recalculation failed")
		errorResponse(c, http.StatusInternalServerError, "recalculation failed")
		return
	}

	if h.archive != nil {
		if key, err := h.archive.SaveRecalcSummary(c.Request.Context(), summary); err != nil {
			log.Warn().Err(err).Msg("failed to archive recalc summary")
		} else {
			log.Info().Str("key", key).Msg("recalc summary archived")
		}
	}

	c.JSON(http.StatusOK, summary)
}
