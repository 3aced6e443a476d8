package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/repository"
)

// ErrNoDecision signals that no sourcing rule produced a viable
// decision. Callers apply the shared default lead time.
var ErrNoDecision = errors.New("no viable sourcing decision")

// Lead-time provenance strings surfaced on sourcing decisions.
const (
	ProvenanceNoRules   = "no sourcing rules configured"
	ProvenanceRule      = "sourcing rule"
	ProvenanceScorecard = "supplier scorecard"
)

// Resolver walks the priority-ordered sourcing rules for a
// (store, product) pair and returns the first viable decision.
type Resolver struct {
	cfg       Config
	rules     repository.SourcingRuleRepository
	dcs       repository.DistributionCenterRepository
	dcStock   repository.DCStockRepository
	suppliers repository.SupplierRepository
}

func NewResolver(
	cfg Config,
	rules repository.SourcingRuleRepository,
	dcs repository.DistributionCenterRepository,
	dcStock repository.DCStockRepository,
	suppliers repository.SupplierRepository,
) *Resolver {
	return &Resolver{
		cfg:       cfg,
		rules:     rules,
		dcs:       dcs,
		dcStock:   dcStock,
		suppliers: suppliers,
	}
}

// Resolve evaluates the rules in order and returns the first decision
// whose source can fulfill the requested quantity. DC rules without
// sufficient stock fall through to the next rule; a missing supplier
// or DC record makes that rule fail silently. When every rule is
// exhausted, or none exist, Resolve returns ErrNoDecision.
func (r *Resolver) Resolve(ctx context.Context, tenantID, storeID, productID int64, requestedQty int) (*domain.SourcingDecision, error) {
	if requestedQty <= 0 {
		requestedQty = 1
	}

	rules, err := r.rules.ListForStoreProduct(ctx, tenantID, storeID, productID)
	if err != nil {
		return nil, fmt.Errorf("list sourcing rules for store %d product %d: %w", storeID, productID, err)
	}
	if len(rules) == 0 {
		return nil, ErrNoDecision
	}

	orderRules(rules)

	for i := range rules {
		rule := &rules[i]

		var decision *domain.SourcingDecision
		switch {
		case rule.SourceType.IsDC():
			decision, err = r.evaluateDC(ctx, rule, requestedQty)
		case rule.SourceType == domain.SourceVendorDirect:
			decision, err = r.evaluateVendor(ctx, rule)
		default:
			// transfer rules belong to the transfer ranker, not this path
			continue
		}
		if err != nil {
			return nil, err
		}
		if decision != nil {
			return decision, nil
		}
	}

	return nil, ErrNoDecision
}

// orderRules sorts in place: all store-specific rules before all
// global rules, each group ascending by priority.
func orderRules(rules []domain.SourcingRule) {
	sort.SliceStable(rules, func(i, j int) bool {
		si, sj := rules[i].IsStoreSpecific(), rules[j].IsStoreSpecific()
		if si != sj {
			return si
		}
		return rules[i].Priority < rules[j].Priority
	})
}

// evaluateDC gates a dc/regional_dc rule on the latest stock snapshot.
// A nil decision with nil error means "fall through to the next rule".
func (r *Resolver) evaluateDC(ctx context.Context, rule *domain.SourcingRule, requestedQty int) (*domain.SourcingDecision, error) {
	dc, err := r.dcs.GetDC(ctx, rule.TenantID, rule.SourceID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Debug().Int64("rule_id", rule.ID).Int64("dc_id", rule.SourceID).
			Msg("sourcing: DC not found, skipping rule")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load DC %d: %w", rule.SourceID, err)
	}

	snapshot, err := r.dcStock.LatestSnapshot(ctx, rule.TenantID, rule.SourceID, rule.ProductID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Debug().Int64("rule_id", rule.ID).Int64("dc_id", rule.SourceID).
			Msg("sourcing: no stock snapshot for DC, skipping rule")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load DC %d stock snapshot: %w", rule.SourceID, err)
	}

	if snapshot.QtyAvailable < requestedQty {
		// insufficient stock is not an error: fall through
		return nil, nil
	}

	available := snapshot.QtyAvailable
	return &domain.SourcingDecision{
		RuleID:     rule.ID,
		Priority:   rule.Priority,
		SourceType: rule.SourceType,
		SourceID:   rule.SourceID,
		SourceName: dc.Name,
		LeadTime: domain.LeadTimeEstimate{
			MeanDays:   rule.LeadTimeDays,
			StdDevDays: rule.LeadTimeStdDev,
			Provenance: ProvenanceRule,
		},
		MinOrderQty:      rule.MinOrderQty,
		CostPerOrder:     rule.CostPerOrder,
		OnTimeRate:       1.0,
		DCStockAvailable: &available,
	}, nil
}

// evaluateVendor builds a vendor_direct decision. Vendors never block
// on stock; the nightly scorecard overrides the rule's configured lead
// time when measured statistics exist.
func (r *Resolver) evaluateVendor(ctx context.Context, rule *domain.SourcingRule) (*domain.SourcingDecision, error) {
	supplier, err := r.suppliers.GetSupplier(ctx, rule.TenantID, rule.SourceID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Debug().Int64("rule_id", rule.ID).Int64("supplier_id", rule.SourceID).
			Msg("sourcing: supplier not found, skipping rule")
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load supplier %d: %w", rule.SourceID, err)
	}

	leadTime := domain.LeadTimeEstimate{
		MeanDays:   rule.LeadTimeDays,
		StdDevDays: rule.LeadTimeStdDev,
		Provenance: ProvenanceRule,
	}
	minOrderQty := rule.MinOrderQty
	costPerOrder := rule.CostPerOrder
	onTimeRate := 1.0

	scorecard, err := r.suppliers.GetScorecard(ctx, rule.TenantID, rule.SourceID)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load supplier %d scorecard: %w", rule.SourceID, err)
	}
	if scorecard != nil {
		onTimeRate = scorecard.OnTimeRate
		if scorecard.AvgLeadTimeDays != nil {
			leadTime.MeanDays = *scorecard.AvgLeadTimeDays
			leadTime.Provenance = ProvenanceScorecard
		}
		if scorecard.LeadTimeStdDev != nil {
			leadTime.StdDevDays = *scorecard.LeadTimeStdDev
			leadTime.Provenance = ProvenanceScorecard
		}
		if scorecard.MinOrderQty > minOrderQty {
			minOrderQty = scorecard.MinOrderQty
		}
		if costPerOrder <= 0 {
			costPerOrder = scorecard.CostPerOrder
		}
	}

	return &domain.SourcingDecision{
		RuleID:       rule.ID,
		Priority:     rule.Priority,
		SourceType:   domain.SourceVendorDirect,
		SourceID:     rule.SourceID,
		SourceName:   supplier.Name,
		LeadTime:     leadTime,
		MinOrderQty:  minOrderQty,
		CostPerOrder: costPerOrder,
		OnTimeRate:   onTimeRate,
	}, nil
}
