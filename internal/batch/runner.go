// Package batch drives the nightly reorder-point recalculation across
// every (store, product) pair with a demand forecast.
package batch

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/repository"
	"github.com/retailgrid/replenish/backend-go/internal/service"
)

// Recommender is the per-pair entry point the runner fans out over.
// *service.ReplenishmentService satisfies it.
type Recommender interface {
	Recommend(ctx context.Context, tenantID, storeID, productID int64, requestedQty int) (*service.Recommendation, error)
}

// Config bounds the runner's concurrency and per-pair work.
type Config struct {
	Workers     int
	PairTimeout time.Duration
}

// Runner executes a full recalculation for one tenant. One failing
// pair never aborts the batch; failures are counted and logged with
// enough identity to rerun them.
type Runner struct {
	cfg   Config
	pairs repository.ForecastRepository
	rec   Recommender
}

func NewRunner(cfg Config, pairs repository.ForecastRepository, rec Recommender) *Runner {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}
	if cfg.PairTimeout <= 0 {
		cfg.PairTimeout = 30 * time.Second
	}
	return &Runner{cfg: cfg, pairs: pairs, rec: rec}
}

// Run processes every forecasted (store, product) pair for the tenant
// through a bounded worker pool and returns the tallied summary.
func (r *Runner) Run(ctx context.Context, tenantID int64) (*domain.RecalcSummary, error) {
	pairs, err := r.pairs.ListPairs(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list forecast pairs for tenant %d: %w", tenantID, err)
	}

	summary := &domain.RecalcSummary{
		TenantID:   tenantID,
		TotalPairs: len(pairs),
		StartedAt:  time.Now().UTC(),
	}

	log.Info().
		Int64("tenant_id", tenantID).
		Int("pairs", len(pairs)).
		Int("workers", r.cfg.Workers).
		Msg("batch: recalculation started")

	pairChan := make(chan domain.StoreProductPair, len(pairs))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for i := 0; i < r.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for pair := range pairChan {
				action, err := r.processPair(ctx, tenantID, pair)
				mu.Lock()
				if err != nil {
					summary.Errors++
				} else {
					switch action {
					case domain.RecalcCreated:
						summary.Created++
					case domain.RecalcUpdated:
						summary.Updated++
					case domain.RecalcUnchanged:
						summary.Unchanged++
					case domain.RecalcSkipped:
						summary.Skipped++
					}
				}
				mu.Unlock()
				if err != nil {
					log.Error().Err(err).
						Int64("tenant_id", tenantID).
						Int64("store_id", pair.StoreID).
						Int64("product_id", pair.ProductID).
						Msg("batch: pair recalculation failed")
				}
			}
		}()
	}

	for _, pair := range pairs {
		select {
		case <-ctx.Done():
			close(pairChan)
			wg.Wait()
			return summary, ctx.Err()
		case pairChan <- pair:
		}
	}
	close(pairChan)
	wg.Wait()

	summary.CompletedAt = time.Now().UTC()

	log.Info().
		Int64("tenant_id", tenantID).
		Int("created", summary.Created).
		Int("updated", summary.Updated).
		Int("unchanged", summary.Unchanged).
		Int("skipped", summary.Skipped).
		Int("errors", summary.Errors).
		Dur("elapsed", summary.CompletedAt.Sub(summary.StartedAt)).
		Msg("batch: recalculation finished")

	return summary, nil
}

// processPair runs one pair under its own timeout, converting panics
// into counted errors so a poisoned pair cannot take down the batch.
func (r *Runner) processPair(ctx context.Context, tenantID int64, pair domain.StoreProductPair) (action domain.RecalcAction, err error) {
	pairCtx, cancel := context.WithTimeout(ctx, r.cfg.PairTimeout)
	defer cancel()

	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("panic recalculating store %d product %d: %v", pair.StoreID, pair.ProductID, rec)
		}
	}()

	recommendation, err := r.rec.Recommend(pairCtx, tenantID, pair.StoreID, pair.ProductID, 0)
	if err != nil {
		return "", err
	}
	return recommendation.Result.Action, nil
}

var _ Recommender = (*service.ReplenishmentService)(nil)
