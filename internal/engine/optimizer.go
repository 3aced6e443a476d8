package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/repository"
)

// Config carries the optimizer's policy values. DefaultLeadTimeDays
// and DefaultLeadTimeStdDev double as the sourcing resolver's no-rule
// fallback; the two paths must stay consistent.
type Config struct {
	DefaultServiceLevel   float64
	DefaultLeadTimeDays   float64
	DefaultLeadTimeStdDev float64
	DefaultCostPerOrder   float64
	HoldingCostRate       float64
}

// DefaultConfig returns the stock policy values used when no
// deployment overrides are configured.
func DefaultConfig() Config {
	return Config{
		DefaultServiceLevel:   0.95,
		DefaultLeadTimeDays:   7,
		DefaultLeadTimeStdDev: 2,
		DefaultCostPerOrder:   50,
		HoldingCostRate:       0.25,
	}
}

// DefaultLeadTime is the estimate applied when the resolver finds no
// viable source.
func (c Config) DefaultLeadTime() domain.LeadTimeEstimate {
	return domain.LeadTimeEstimate{
		MeanDays:   c.DefaultLeadTimeDays,
		StdDevDays: c.DefaultLeadTimeStdDev,
		Provenance: ProvenanceNoRules,
	}
}

// SafetyStockInputs are the statistics the safety-stock formula
// combines: demand uncertainty, lead-time uncertainty, the target
// service level, and the source/store adjustments.
type SafetyStockInputs struct {
	MeanDailyDemand float64
	DemandStdDev    float64
	LeadTimeDays    float64
	LeadTimeStdDev  float64
	ServiceLevel    float64
	OnTimeRate      float64
	ClusterTier     int
}

// ComputeSafetyStock evaluates the combined demand- and lead-time
// uncertainty formula:
//
//	SS  = Z(p) * sqrt(LT*sigma_d^2 + d^2*sigma_LT^2) * rel * cluster
//	ROP = d*LT + SS
//
// Non-positive demand yields zero for both (no reorder point for dead
// stock). A non-positive lead time is a configuration error and falls
// back to the shared default. Both outputs are clamped to >= 0 and
// rounded to whole units; ROP is computed on the already-rounded SS.
func (c Config) ComputeSafetyStock(in SafetyStockInputs) (safetyStock, reorderPoint int) {
	if in.MeanDailyDemand <= 0 {
		return 0, 0
	}

	lt := in.LeadTimeDays
	sd := in.LeadTimeStdDev
	if lt <= 0 {
		lt = c.DefaultLeadTimeDays
		sd = c.DefaultLeadTimeStdDev
	}

	z := ZScore(in.ServiceLevel)
	raw := z * math.Sqrt(lt*in.DemandStdDev*in.DemandStdDev+
		in.MeanDailyDemand*in.MeanDailyDemand*sd*sd)
	raw *= ReliabilityMultiplier(in.OnTimeRate)
	raw *= ClusterMultiplier(in.ClusterTier)

	safetyStock = int(math.Round(math.Max(0, raw)))
	reorderPoint = int(math.Round(math.Max(0, in.MeanDailyDemand*lt))) + safetyStock
	return safetyStock, reorderPoint
}

// ComputeEOQ returns the economic order quantity:
// round(sqrt(2*D*K/H)). Any non-positive input resolves to 1 — never
// zero, never negative.
func ComputeEOQ(annualDemand, costPerOrder, annualHoldingCost float64) int {
	if annualDemand <= 0 || costPerOrder <= 0 || annualHoldingCost <= 0 {
		return 1
	}
	eoq := int(math.Round(math.Sqrt(2 * annualDemand * costPerOrder / annualHoldingCost)))
	if eoq < 1 {
		return 1
	}
	return eoq
}

// SuggestedOrderQty lifts the EOQ to the minimum order quantity and
// rounds up to a whole number of case packs.
func SuggestedOrderQty(eoq, minOrderQty, casePackSize int) int {
	qty := eoq
	if minOrderQty > qty {
		qty = minOrderQty
	}
	if qty < 1 {
		qty = 1
	}
	if casePackSize > 1 {
		qty = int(math.Ceil(float64(qty)/float64(casePackSize))) * casePackSize
	}
	return qty
}

// Optimizer recomputes reorder points, safety stock, and order
// quantities for one (store, product) pair at a time.
type Optimizer struct {
	cfg       Config
	products  repository.ProductRepository
	forecasts repository.ForecastRepository
	stores    repository.StoreRepository
	points    repository.ReorderPointRepository
}

func NewOptimizer(
	cfg Config,
	products repository.ProductRepository,
	forecasts repository.ForecastRepository,
	stores repository.StoreRepository,
	points repository.ReorderPointRepository,
) *Optimizer {
	return &Optimizer{
		cfg:       cfg,
		products:  products,
		forecasts: forecasts,
		stores:    stores,
		points:    points,
	}
}

// RecalcResult is what a single recalculation produced. Record is nil
// when the pair was skipped.
type RecalcResult struct {
	Action       domain.RecalcAction  `json:"action"`
	Record       *domain.ReorderPoint `json:"record,omitempty"`
	SuggestedQty int                  `json:"suggested_qty"`
}

// Recalculate computes and persists the reorder point for a
// (store, product) pair. The decision may be nil, in which case the
// shared default lead time applies. Products in a non-orderable
// lifecycle state are skipped and write nothing.
func (o *Optimizer) Recalculate(ctx context.Context, tenantID, storeID, productID int64, decision *domain.SourcingDecision) (*RecalcResult, error) {
	product, err := o.products.GetProduct(ctx, tenantID, productID)
	if err != nil {
		return nil, fmt.Errorf("load product %d: %w", productID, err)
	}
	if !product.Status.Orderable() {
		return &RecalcResult{Action: domain.RecalcSkipped}, nil
	}

	forecast, err := o.forecasts.GetForecast(ctx, tenantID, storeID, productID)
	if errors.Is(err, repository.ErrNotFound) {
		// No forecast means no observed demand: dead stock policy applies.
		forecast = &domain.DemandForecast{TenantID: tenantID, StoreID: storeID, ProductID: productID}
	} else if err != nil {
		return nil, fmt.Errorf("load forecast for store %d product %d: %w", storeID, productID, err)
	}

	clusterTier := 1
	store, err := o.stores.GetStore(ctx, tenantID, storeID)
	if err == nil {
		clusterTier = store.ClusterTier
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load store %d: %w", storeID, err)
	}

	leadTime := o.cfg.DefaultLeadTime()
	onTimeRate := 1.0
	costPerOrder := o.cfg.DefaultCostPerOrder
	minOrderQty := product.MinOrderQty
	if decision != nil {
		leadTime = decision.LeadTime
		onTimeRate = decision.OnTimeRate
		if decision.CostPerOrder > 0 {
			costPerOrder = decision.CostPerOrder
		}
		if decision.MinOrderQty > minOrderQty {
			minOrderQty = decision.MinOrderQty
		}
	}

	effectiveLT := leadTime.MeanDays
	if effectiveLT <= 0 {
		effectiveLT = o.cfg.DefaultLeadTimeDays
	}

	safetyStock, reorderPoint := o.cfg.ComputeSafetyStock(SafetyStockInputs{
		MeanDailyDemand: forecast.MeanDaily,
		DemandStdDev:    forecast.StdDevDaily,
		LeadTimeDays:    leadTime.MeanDays,
		LeadTimeStdDev:  leadTime.StdDevDays,
		ServiceLevel:    o.cfg.DefaultServiceLevel,
		OnTimeRate:      onTimeRate,
		ClusterTier:     clusterTier,
	})

	annualDemand := forecast.MeanDaily * 365
	annualHoldingCost := product.UnitCost * o.cfg.HoldingCostRate
	eoq := ComputeEOQ(annualDemand, costPerOrder, annualHoldingCost)
	suggested := SuggestedOrderQty(eoq, minOrderQty, product.CasePackSize)

	record := &domain.ReorderPoint{
		TenantID:     tenantID,
		StoreID:      storeID,
		ProductID:    productID,
		ReorderPoint: reorderPoint,
		SafetyStock:  safetyStock,
		EOQ:          eoq,
		LeadTimeDays: effectiveLT,
		ServiceLevel: o.cfg.DefaultServiceLevel,
		UpdatedAt:    time.Now().UTC(),
	}

	action := domain.RecalcCreated
	existing, err := o.points.GetReorderPoint(ctx, tenantID, storeID, productID)
	switch {
	case err == nil:
		record.ID = existing.ID
		if record.Same(existing) {
			return &RecalcResult{Action: domain.RecalcUnchanged, Record: existing, SuggestedQty: suggested}, nil
		}
		action = domain.RecalcUpdated
	case errors.Is(err, repository.ErrNotFound):
		// first computation for this pair
	default:
		return nil, fmt.Errorf("load reorder point for store %d product %d: %w", storeID, productID, err)
	}

	if err := o.points.UpsertReorderPoint(ctx, record); err != nil {
		return nil, fmt.Errorf("persist reorder point for store %d product %d: %w", storeID, productID, err)
	}

	return &RecalcResult{Action: action, Record: record, SuggestedQty: suggested}, nil
}
