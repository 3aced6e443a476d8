package batch

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/engine"
	"github.com/retailgrid/replenish/backend-go/internal/repository/memory"
	"github.com/retailgrid/replenish/backend-go/internal/service"
)

type stubRecommender struct {
	fn func(tenantID, storeID, productID int64) (*service.Recommendation, error)
}

func (s *stubRecommender) Recommend(ctx context.Context, tenantID, storeID, productID int64, requestedQty int) (*service.Recommendation, error) {
	return s.fn(tenantID, storeID, productID)
}

func resultOf(action domain.RecalcAction) *service.Recommendation {
	return &service.Recommendation{Result: &engine.RecalcResult{Action: action}}
}

func TestRunner_TalliesActions(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepo()
	for i := int64(1); i <= 4; i++ {
		repo.AddForecast(domain.DemandForecast{TenantID: 1, StoreID: i, ProductID: 100, MeanDaily: 10, StdDevDaily: 2})
	}

	actions := map[int64]domain.RecalcAction{
		1: domain.RecalcCreated,
		2: domain.RecalcUpdated,
		3: domain.RecalcUnchanged,
		4: domain.RecalcSkipped,
	}
	rec := &stubRecommender{fn: func(_, storeID, _ int64) (*service.Recommendation, error) {
		return resultOf(actions[storeID]), nil
	}}

	runner := NewRunner(Config{Workers: 2}, repo, rec)
	summary, err := runner.Run(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalPairs)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Updated)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Equal(t, 1, summary.Skipped)
	assert.Zero(t, summary.Errors)
	assert.False(t, summary.CompletedAt.Before(summary.StartedAt))
}

func TestRunner_OneFailureDoesNotAbortBatch(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepo()
	for i := int64(1); i <= 3; i++ {
		repo.AddForecast(domain.DemandForecast{TenantID: 1, StoreID: i, ProductID: 100, MeanDaily: 10, StdDevDaily: 2})
	}

	rec := &stubRecommender{fn: func(_, storeID, _ int64) (*service.Recommendation, error) {
		if storeID == 2 {
			return nil, fmt.Errorf("simulated failure")
		}
		return resultOf(domain.RecalcCreated), nil
	}}

	runner := NewRunner(Config{Workers: 2}, repo, rec)
	summary, err := runner.Run(ctx, 1)
	require.NoError(t, err, "a failing pair is counted, not fatal")

	assert.Equal(t, 3, summary.TotalPairs)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.Errors)
}

type blockingRecommender struct {
	slowStoreID int64
}

func (b *blockingRecommender) Recommend(ctx context.Context, tenantID, storeID, productID int64, requestedQty int) (*service.Recommendation, error) {
	if storeID == b.slowStoreID {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return resultOf(domain.RecalcCreated), nil
}

func TestRunner_SlowPairTimesOutWithoutStallingSiblings(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepo()
	for i := int64(1); i <= 3; i++ {
		repo.AddForecast(domain.DemandForecast{TenantID: 1, StoreID: i, ProductID: 100, MeanDaily: 10, StdDevDaily: 2})
	}

	runner := NewRunner(Config{Workers: 2, PairTimeout: 20 * time.Millisecond}, repo, &blockingRecommender{slowStoreID: 2})

	summary, err := runner.Run(ctx, 1)
	require.NoError(t, err, "a timed-out pair is counted, not fatal")

	assert.Equal(t, 3, summary.TotalPairs)
	assert.Equal(t, 2, summary.Created)
	assert.Equal(t, 1, summary.Errors)
}

func TestRunner_RecoversFromPanic(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepo()
	repo.AddForecast(domain.DemandForecast{TenantID: 1, StoreID: 1, ProductID: 100, MeanDaily: 10, StdDevDaily: 2})
	repo.AddForecast(domain.DemandForecast{TenantID: 1, StoreID: 2, ProductID: 100, MeanDaily: 10, StdDevDaily: 2})

	rec := &stubRecommender{fn: func(_, storeID, _ int64) (*service.Recommendation, error) {
		if storeID == 1 {
			panic("poisoned pair")
		}
		return resultOf(domain.RecalcUnchanged), nil
	}}

	runner := NewRunner(Config{Workers: 1}, repo, rec)
	summary, err := runner.Run(ctx, 1)
	require.NoError(t, err)

	assert.Equal(t, 1, summary.Errors)
	assert.Equal(t, 1, summary.Unchanged)
}

func TestRunner_EndToEndWithEngine(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepo()

	repo.AddProduct(domain.Product{ID: 100, TenantID: 1, Name: "Widget", Status: domain.ProductActive, UnitCost: 4})
	repo.AddProduct(domain.Product{ID: 200, TenantID: 1, Name: "Retired", Status: domain.ProductDelisted, UnitCost: 4})
	repo.AddStore(domain.Store{ID: 10, TenantID: 1, Name: "Store", ClusterTier: 1, Active: true})
	repo.AddForecast(domain.DemandForecast{TenantID: 1, StoreID: 10, ProductID: 100, MeanDaily: 12, StdDevDaily: 4})
	repo.AddForecast(domain.DemandForecast{TenantID: 1, StoreID: 10, ProductID: 200, MeanDaily: 3, StdDevDaily: 1})

	cfg := engine.DefaultConfig()
	svc := service.NewReplenishmentService(
		cfg,
		engine.NewResolver(cfg, repo, repo, repo, repo),
		engine.NewOptimizer(cfg, repo, repo, repo, repo),
		nil,
	)

	runner := NewRunner(Config{Workers: 4, PairTimeout: 5 * time.Second}, repo, svc)

	summary, err := runner.Run(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalPairs)
	assert.Equal(t, 1, summary.Created)
	assert.Equal(t, 1, summary.Skipped)
	assert.Zero(t, summary.Errors)

	// a second run over identical data changes nothing
	summary, err = runner.Run(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Unchanged)
	assert.Equal(t, 1, summary.Skipped)
}
