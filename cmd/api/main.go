// backend-go/cmd/api/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/retailgrid/replenish/backend-go/internal/api"
	"github.com/retailgrid/replenish/backend-go/internal/batch"
	"github.com/retailgrid/replenish/backend-go/internal/cache"
	"github.com/retailgrid/replenish/backend-go/internal/config"
	"github.com/retailgrid/replenish/backend-go/internal/engine"
	"github.com/retailgrid/replenish/backend-go/internal/repository/postgres"
	"github.com/retailgrid/replenish/backend-go/internal/service"
	"github.com/retailgrid/replenish/backend-go/internal/storage"
	"github.com/retailgrid/replenish/backend-go/pkg/logger"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize database
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	// Initialize repositories
	rules := postgres.NewSourcingRuleRepository(db)
	dcs := postgres.NewDistributionCenterRepository(db)
	dcStock := postgres.NewDCStockRepository(db)
	suppliers := postgres.NewSupplierRepository(db)
	forecasts := postgres.NewForecastRepository(db)
	products := postgres.NewProductRepository(db)
	stores := postgres.NewStoreRepository(db)
	storeStock := postgres.NewStoreStockRepository(db)
	points := postgres.NewReorderPointRepository(db)
	transfers := postgres.NewTransferRequestRepository(db)

	// Initialize decision cache; fall back to pass-through when redis
	// is unreachable rather than refusing to start
	decisionCache, err := cache.NewDecisionCache(cfg.Cache)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Decision cache unavailable, continuing without")
		decisionCache = cache.NewNoopDecisionCache()
	}

	// Initialize engine and services
	engineCfg := engineConfig(cfg)
	resolver := engine.NewResolver(engineCfg, rules, dcs, dcStock, suppliers)
	optimizer := engine.NewOptimizer(engineCfg, products, forecasts, stores, points)
	ranker := engine.NewRanker(transferConfig(cfg), stores, storeStock, points)

	replenishmentService := service.NewReplenishmentService(engineCfg, resolver, optimizer, decisionCache)
	transferService := service.NewTransferService(ranker, transfers)
	runner := batch.NewRunner(batch.Config{
		Workers:     cfg.Batch.Workers,
		PairTimeout: time.Duration(cfg.Batch.PairTimeoutSeconds) * time.Second,
	}, forecasts, replenishmentService)

	var archive *storage.ReportArchive
	if cfg.Reports.Enabled {
		store, err := storage.NewMinioClient(storage.MinioConfig{
			Endpoint:  cfg.Reports.Endpoint,
			AccessKey: cfg.Reports.AccessKey,
			SecretKey: cfg.Reports.SecretKey,
			Bucket:    cfg.Reports.Bucket,
			Region:    cfg.Reports.Region,
			UseSSL:    cfg.Reports.UseSSL,
		})
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Report storage unavailable, continuing without")
		} else {
			archive = storage.NewReportArchive(store)
		}
	}

	// Initialize HTTP server
	router := api.NewRouter(&api.Services{
		Replenishment: replenishmentService,
		Transfer:      transferService,
		BatchRunner:   runner,
		ReorderPoints: points,
		ReportArchive: archive,
	}, cfg.Server.AllowedOrigins)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	// The context is used to inform the server it has 5 seconds to finish
	// the request it is currently handling
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}

func engineConfig(cfg *config.Config) engine.Config {
	return engine.Config{
		DefaultServiceLevel:   cfg.Engine.DefaultServiceLevel,
		DefaultLeadTimeDays:   cfg.Engine.DefaultLeadTimeDays,
		DefaultLeadTimeStdDev: cfg.Engine.DefaultLeadTimeStdDev,
		DefaultCostPerOrder:   cfg.Engine.DefaultCostPerOrder,
		HoldingCostRate:       cfg.Engine.HoldingCostRate,
	}
}

func transferConfig(cfg *config.Config) engine.TransferConfig {
	return engine.TransferConfig{
		BufferUnits:     cfg.Engine.TransferBufferUnits,
		CostPerMile:     cfg.Engine.TransferCostPerMile,
		MinHandlingCost: cfg.Engine.TransferMinHandlingCost,
		RadiusMiles:     cfg.Engine.TransferRadiusMiles,
		MaxResults:      cfg.Engine.TransferMaxResults,
	}
}
