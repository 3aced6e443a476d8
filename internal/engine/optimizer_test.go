package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/repository"
	"github.com/retailgrid/replenish/backend-go/internal/repository/memory"
)

func TestComputeEOQ(t *testing.T) {
	tests := []struct {
		name         string
		annualDemand float64
		costPerOrder float64
		holdingCost  float64
		want         int
	}{
		{"textbook", 1000, 100, 5, 200},
		{"zero demand", 0, 100, 5, 1},
		{"negative demand", -10, 100, 5, 1},
		{"zero cost", 1000, 0, 5, 1},
		{"zero holding", 1000, 100, 0, 1},
		{"tiny result clamps to one", 1, 0.01, 100, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeEOQ(tt.annualDemand, tt.costPerOrder, tt.holdingCost))
		})
	}
}

func TestComputeSafetyStock(t *testing.T) {
	cfg := DefaultConfig()

	tests := []struct {
		name    string
		in      SafetyStockInputs
		wantSS  int
		wantROP int
	}{
		{
			name: "baseline golden",
			in: SafetyStockInputs{
				MeanDailyDemand: 20, DemandStdDev: 5,
				LeadTimeDays: 7, LeadTimeStdDev: 2,
				ServiceLevel: 0.95, OnTimeRate: 1.0, ClusterTier: 1,
			},
			wantSS:  69,
			wantROP: 209,
		},
		{
			name: "unreliable high-volume golden",
			in: SafetyStockInputs{
				MeanDailyDemand: 20, DemandStdDev: 5,
				LeadTimeDays: 7, LeadTimeStdDev: 2,
				ServiceLevel: 0.95, OnTimeRate: 0.7, ClusterTier: 0,
			},
			wantSS:  120,
			wantROP: 260,
		},
		{
			name: "dead stock zero demand",
			in: SafetyStockInputs{
				MeanDailyDemand: 0, DemandStdDev: 10,
				LeadTimeDays: 7, LeadTimeStdDev: 2,
				ServiceLevel: 0.95, OnTimeRate: 1.0, ClusterTier: 1,
			},
			wantSS:  0,
			wantROP: 0,
		},
		{
			name: "dead stock negative demand",
			in: SafetyStockInputs{
				MeanDailyDemand: -5, DemandStdDev: 10,
				LeadTimeDays: 7, LeadTimeStdDev: 2,
				ServiceLevel: 0.95, OnTimeRate: 1.0, ClusterTier: 1,
			},
			wantSS:  0,
			wantROP: 0,
		},
		{
			name: "non-positive lead time falls back to default",
			in: SafetyStockInputs{
				MeanDailyDemand: 10, DemandStdDev: 2,
				LeadTimeDays: 0, LeadTimeStdDev: 0,
				ServiceLevel: 0.95, OnTimeRate: 1.0, ClusterTier: 1,
			},
			wantSS:  34,
			wantROP: 104,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ss, rop := cfg.ComputeSafetyStock(tt.in)
			assert.Equal(t, tt.wantSS, ss, "safety stock")
			assert.Equal(t, tt.wantROP, rop, "reorder point")
			assert.GreaterOrEqual(t, rop, ss)
		})
	}
}

func TestComputeSafetyStock_LongerLeadTimeRaisesROP(t *testing.T) {
	cfg := DefaultConfig()

	prevROP := -1
	for _, lt := range []float64{2, 4, 8, 16} {
		_, rop := cfg.ComputeSafetyStock(SafetyStockInputs{
			MeanDailyDemand: 10, DemandStdDev: 3,
			LeadTimeDays: lt, LeadTimeStdDev: 1,
			ServiceLevel: 0.95, OnTimeRate: 1.0, ClusterTier: 1,
		})
		assert.Greater(t, rop, prevROP, "reorder point must strictly increase with lead time (lt=%f)", lt)
		prevROP = rop
	}
}

func TestSuggestedOrderQty(t *testing.T) {
	tests := []struct {
		name     string
		eoq      int
		moq      int
		casePack int
		want     int
	}{
		{"moq then case pack round up", 15, 50, 12, 60},
		{"eoq alone", 200, 0, 0, 200},
		{"moq dominates without case pack", 15, 50, 0, 50},
		{"exact case multiple stays", 48, 0, 12, 48},
		{"all zero yields one", 0, 0, 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SuggestedOrderQty(tt.eoq, tt.moq, tt.casePack))
		})
	}
}

func seedOptimizerFixture(t *testing.T) (*memory.Repo, *Optimizer) {
	t.Helper()
	repo := memory.NewRepo()
	repo.AddProduct(domain.Product{
		ID: 100, TenantID: 1, SKU: "SKU-100", Name: "Cold Brew Concentrate",
		Status: domain.ProductActive, UnitCost: 4,
	})
	repo.AddStore(domain.Store{ID: 10, TenantID: 1, Name: "Downtown", ClusterTier: 1, Active: true})
	repo.AddForecast(domain.DemandForecast{
		TenantID: 1, StoreID: 10, ProductID: 100, MeanDaily: 20, StdDevDaily: 5, WindowDays: 28,
	})
	opt := NewOptimizer(DefaultConfig(), repo, repo, repo, repo)
	return repo, opt
}

func TestOptimizer_Recalculate_CreatedThenUnchanged(t *testing.T) {
	ctx := context.Background()
	repo, opt := seedOptimizerFixture(t)

	result, err := opt.Recalculate(ctx, 1, 10, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.RecalcCreated, result.Action)
	require.NotNil(t, result.Record)
	assert.Equal(t, 69, result.Record.SafetyStock)
	assert.Equal(t, 209, result.Record.ReorderPoint)
	assert.Equal(t, 7.0, result.Record.LeadTimeDays)
	assert.Equal(t, 0.95, result.Record.ServiceLevel)
	// annual demand 7300, default cost per order 50, holding 4*0.25
	assert.Equal(t, 854, result.Record.EOQ)

	persisted, err := repo.GetReorderPoint(ctx, 1, 10, 100)
	require.NoError(t, err)
	assert.Equal(t, result.Record.ReorderPoint, persisted.ReorderPoint)

	again, err := opt.Recalculate(ctx, 1, 10, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.RecalcUnchanged, again.Action)
}

func TestOptimizer_Recalculate_UpdatedOnNewLeadTime(t *testing.T) {
	ctx := context.Background()
	_, opt := seedOptimizerFixture(t)

	_, err := opt.Recalculate(ctx, 1, 10, 100, nil)
	require.NoError(t, err)

	decision := &domain.SourcingDecision{
		SourceType: domain.SourceVendorDirect,
		LeadTime:   domain.LeadTimeEstimate{MeanDays: 14, StdDevDays: 2, Provenance: ProvenanceRule},
		OnTimeRate: 1.0,
	}
	result, err := opt.Recalculate(ctx, 1, 10, 100, decision)
	require.NoError(t, err)
	assert.Equal(t, domain.RecalcUpdated, result.Action)
	assert.Equal(t, 14.0, result.Record.LeadTimeDays)
	assert.Greater(t, result.Record.ReorderPoint, 209)
}

func TestOptimizer_Recalculate_SkipsNonOrderable(t *testing.T) {
	ctx := context.Background()

	for _, status := range []domain.ProductStatus{
		domain.ProductDelisted,
		domain.ProductDiscontinued,
		domain.ProductSeasonalOut,
		domain.ProductPendingActivation,
	} {
		t.Run(string(status), func(t *testing.T) {
			repo := memory.NewRepo()
			repo.AddProduct(domain.Product{ID: 100, TenantID: 1, Status: status})
			repo.AddForecast(domain.DemandForecast{TenantID: 1, StoreID: 10, ProductID: 100, MeanDaily: 20, StdDevDaily: 5})
			opt := NewOptimizer(DefaultConfig(), repo, repo, repo, repo)

			result, err := opt.Recalculate(ctx, 1, 10, 100, nil)
			require.NoError(t, err)
			assert.Equal(t, domain.RecalcSkipped, result.Action)
			assert.Nil(t, result.Record)

			_, err = repo.GetReorderPoint(ctx, 1, 10, 100)
			assert.ErrorIs(t, err, repository.ErrNotFound, "skipped pairs must not write a record")
		})
	}
}

func TestOptimizer_Recalculate_MissingProductFails(t *testing.T) {
	repo := memory.NewRepo()
	opt := NewOptimizer(DefaultConfig(), repo, repo, repo, repo)

	_, err := opt.Recalculate(context.Background(), 1, 10, 999, nil)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestOptimizer_Recalculate_NoForecastMeansDeadStock(t *testing.T) {
	repo := memory.NewRepo()
	repo.AddProduct(domain.Product{ID: 100, TenantID: 1, Status: domain.ProductActive, UnitCost: 4})
	repo.AddStore(domain.Store{ID: 10, TenantID: 1, ClusterTier: 1, Active: true})
	opt := NewOptimizer(DefaultConfig(), repo, repo, repo, repo)

	result, err := opt.Recalculate(context.Background(), 1, 10, 100, nil)
	require.NoError(t, err)
	assert.Equal(t, domain.RecalcCreated, result.Action)
	assert.Equal(t, 0, result.Record.SafetyStock)
	assert.Equal(t, 0, result.Record.ReorderPoint)
	assert.Equal(t, 1, result.Record.EOQ)
}
