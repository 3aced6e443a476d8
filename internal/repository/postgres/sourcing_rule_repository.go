package postgres

import (
	"context"
	"fmt"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
)

type sourcingRuleRepository struct {
	db *DB
}

func NewSourcingRuleRepository(db *DB) *sourcingRuleRepository {
	return &sourcingRuleRepository{db: db}
}

// ListForStoreProduct returns every active rule that applies to the
// pair: store-specific rules plus product-wide rules with no store
// scope. Ordering is the resolver's job, not the query's.
func (r *sourcingRuleRepository) ListForStoreProduct(ctx context.Context, tenantID, storeID, productID int64) ([]domain.SourcingRule, error) {
	query := `
		SELECT id, tenant_id, product_id, store_id, source_type, source_id,
		       priority, lead_time_days, lead_time_std_dev, min_order_qty,
		       cost_per_order, active, created_at, updated_at
		FROM sourcing_rules
		WHERE tenant_id = $1
		  AND product_id = $2
		  AND (store_id = $3 OR store_id IS NULL)
		  AND active = TRUE
	`

	var rules []domain.SourcingRule
	if err := r.db.SelectContext(ctx, &rules, query, tenantID, productID, storeID); err != nil {
		return nil, fmt.Errorf("failed to list sourcing rules: %w", err)
	}
	return rules, nil
}
