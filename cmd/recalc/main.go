// backend-go/cmd/recalc/main.go
package main

import (
	"fmt"
	"os"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

	"github.com/retailgrid/replenish/backend-go/internal/batch"
	"github.com/retailgrid/replenish/backend-go/internal/config"
	"github.com/retailgrid/replenish/backend-go/internal/engine"
	"github.com/retailgrid/replenish/backend-go/internal/repository/postgres"
	"github.com/retailgrid/replenish/backend-go/internal/service"
	"github.com/retailgrid/replenish/backend-go/internal/storage"
	"github.com/retailgrid/replenish/backend-go/pkg/logger"
)

func newDBURLFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "db-url",
		Usage:    "Database connection string",
		Required: true,
		EnvVars:  []string{"DATABASE_URL"},
	}
}

func main() {
	if err := godotenv.Load(".env"); err != nil {
		logger.Log.Debug().Err(err).Msg("could not load .env file")
	}

	app := &cli.App{
		Name:  "recalc",
		Usage: "Recalculate reorder points for every forecasted store/product pair",
		Flags: []cli.Flag{
			newDBURLFlag(),
			&cli.Int64Flag{
				Name:     "tenant-id",
				Usage:    "Tenant to recalculate",
				Required: true,
				EnvVars:  []string{"TENANT_ID"},
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "Worker pool size (overrides BATCH_WORKERS)",
				EnvVars: []string{"BATCH_WORKERS"},
			},
			&cli.BoolFlag{
				Name:  "archive-report",
				Usage: "Upload the run summary to report storage",
			},
		},
		Action: runRecalc,
	}

	if err := app.Run(os.Args); err != nil {
		logger.Log.Fatal().Err(err).Msg("recalc failed")
	}
}

func runRecalc(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel(cfg.Server.Mode)

	db, err := postgres.NewDBFromURL("pgx", c.String("db-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	engineCfg := engine.Config{
		DefaultServiceLevel:   cfg.Engine.DefaultServiceLevel,
		DefaultLeadTimeDays:   cfg.Engine.DefaultLeadTimeDays,
		DefaultLeadTimeStdDev: cfg.Engine.DefaultLeadTimeStdDev,
		DefaultCostPerOrder:   cfg.Engine.DefaultCostPerOrder,
		HoldingCostRate:       cfg.Engine.HoldingCostRate,
	}

	forecasts := postgres.NewForecastRepository(db)
	resolver := engine.NewResolver(engineCfg,
		postgres.NewSourcingRuleRepository(db),
		postgres.NewDistributionCenterRepository(db),
		postgres.NewDCStockRepository(db),
		postgres.NewSupplierRepository(db),
	)
	optimizer := engine.NewOptimizer(engineCfg,
		postgres.NewProductRepository(db),
		forecasts,
		postgres.NewStoreRepository(db),
		postgres.NewReorderPointRepository(db),
	)

	// nightly runs always resolve fresh; no cache
	svc := service.NewReplenishmentService(engineCfg, resolver, optimizer, nil)

	workers := cfg.Batch.Workers
	if c.Int("workers") > 0 {
		workers = c.Int("workers")
	}
	runner := batch.NewRunner(batch.Config{
		Workers:     workers,
		PairTimeout: time.Duration(cfg.Batch.PairTimeoutSeconds) * time.Second,
	}, forecasts, svc)

	summary, err := runner.Run(c.Context, c.Int64("tenant-id"))
	if err != nil {
		return fmt.Errorf("recalculation run failed: %w", err)
	}

	if c.Bool("archive-report") && cfg.Reports.Enabled {
		store, err := storage.NewMinioClient(storage.MinioConfig{
			Endpoint:  cfg.Reports.Endpoint,
			AccessKey: cfg.Reports.AccessKey,
			SecretKey: cfg.Reports.SecretKey,
			Bucket:    cfg.Reports.Bucket,
			Region:    cfg.Reports.Region,
			UseSSL:    cfg.Reports.UseSSL,
		})
		if err != nil {
			return fmt.Errorf("failed to create report storage client: %w", err)
		}
		key, err := storage.NewReportArchive(store).SaveRecalcSummary(c.Context, summary)
		if err != nil {
			return fmt.Errorf("failed to archive recalc summary: %w", err)
		}
		logger.Log.Info().Str("key", key).Msg("recalc summary archived")
	}

	logger.Log.Info().
		Int("total_pairs", summary.TotalPairs).
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("unchanged", summary.Unchanged).
		Int("skipped", summary.Skipped).
		Int("errors", summary.Errors).
		Msg("recalculation complete")

	if summary.Errors > 0 {
		return fmt.Errorf("%d of %d pairs failed", summary.Errors, summary.TotalPairs)
	}
	return nil
}
