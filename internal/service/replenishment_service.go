package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/retailgrid/replenish/backend-go/internal/cache"
	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/engine"
)

// Recommendation is the complete per-pair output handed to callers:
// the resolved source (nil when no rule was viable), the lead-time
// estimate actually used, and the recalculated reorder point record.
type Recommendation struct {
	TenantID  int64                    `json:"tenant_id"`
	StoreID   int64                    `json:"store_id"`
	ProductID int64                    `json:"product_id"`
	Decision  *domain.SourcingDecision `json:"decision,omitempty"`
	LeadTime  domain.LeadTimeEstimate  `json:"lead_time"`
	Result    *engine.RecalcResult     `json:"result"`
}

// ReplenishmentService composes the sourcing resolver and the
// optimizer for one (store, product) pair at a time.
type ReplenishmentService struct {
	resolver  *engine.Resolver
	optimizer *engine.Optimizer
	cfg       engine.Config
	cache     cache.DecisionCache
}

func NewReplenishmentService(cfg engine.Config, resolver *engine.Resolver, optimizer *engine.Optimizer, cacheImpl cache.DecisionCache) *ReplenishmentService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDecisionCache()
	}
	return &ReplenishmentService{
		resolver:  resolver,
		optimizer: optimizer,
		cfg:       cfg,
		cache:     cacheImpl,
	}
}

// ResolveSource returns the best currently-viable source for the pair,
// or nil when no rule produced a decision. The caller then falls back
// to the default lead time.
func (s *ReplenishmentService) ResolveSource(ctx context.Context, tenantID, storeID, productID int64, requestedQty int) (*domain.SourcingDecision, error) {
	if requestedQty <= 0 {
		requestedQty = 1
	}

	if decision, ok, err := s.cache.Get(ctx, tenantID, storeID, productID, requestedQty); err == nil && ok {
		return decision, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("replenishment: decision cache get failed")
	}

	decision, err := s.resolver.Resolve(ctx, tenantID, storeID, productID, requestedQty)
	if errors.Is(err, engine.ErrNoDecision) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, tenantID, storeID, productID, requestedQty, decision); err != nil {
		log.Warn().Err(err).Msg("replenishment: decision cache set failed")
	}
	return decision, nil
}

// Recommend resolves a source and recomputes the reorder point for a
// (store, product) pair. Callers always receive either a complete
// recommendation or an explicit skipped/no-decision signal inside it,
// never a partial result.
func (s *ReplenishmentService) Recommend(ctx context.Context, tenantID, storeID, productID int64, requestedQty int) (*Recommendation, error) {
	decision, err := s.ResolveSource(ctx, tenantID, storeID, productID, requestedQty)
	if err != nil {
		return nil, err
	}

	result, err := s.optimizer.Recalculate(ctx, tenantID, storeID, productID, decision)
	if err != nil {
		return nil, err
	}

	leadTime := s.cfg.DefaultLeadTime()
	if decision != nil {
		leadTime = decision.LeadTime
	}

	return &Recommendation{
		TenantID:  tenantID,
		StoreID:   storeID,
		ProductID: productID,
		Decision:  decision,
		LeadTime:  leadTime,
		Result:    result,
	}, nil
}
