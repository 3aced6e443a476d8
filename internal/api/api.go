// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/retailgrid/replenish/backend-go/internal/api/handlers"
	"github.com/retailgrid/replenish/backend-go/internal/api/middleware"
	"github.com/retailgrid/replenish/backend-go/internal/batch"
	"github.com/retailgrid/replenish/backend-go/internal/repository"
	"github.com/retailgrid/replenish/backend-go/internal/service"
	"github.com/retailgrid/replenish/backend-go/internal/storage"
)

type Services struct {
	Replenishment *service.ReplenishmentService
	Transfer      *service.TransferService
	BatchRunner   *batch.Runner
	ReorderPoints repository.ReorderPointRepository
	ReportArchive *storage.ReportArchive
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.Replenishment != nil {
			replenishmentHandler := handlers.NewReplenishmentHandler(services.Replenishment, services.ReorderPoints)
			replenishGroup := apiGroup.Group("/replenishment")
			{
				replenishGroup.GET("/recommendation", replenishmentHandler.GetRecommendation)
				replenishGroup.GET("/reorder_point", replenishmentHandler.GetReorderPoint)
			}
		}

		if services.Transfer != nil {
			transferHandler := handlers.NewTransferHandler(services.Transfer)
			transferGroup := apiGroup.Group("/transfers")
			{
				transferGroup.GET("/options", transferHandler.GetOptions)
				transferGroup.POST("/requests", transferHandler.CreateRequest)
			}
		}

		if services.BatchRunner != nil {
			batchHandler := handlers.NewBatchHandler(services.BatchRunner, services.ReportArchive)
			apiGroup.POST("/recalc", batchHandler.TriggerRecalc)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
