package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/repository"
)

type reorderPointRepository struct {
	db *DB
}

func NewReorderPointRepository(db *DB) *reorderPointRepository {
	return &reorderPointRepository{db: db}
}

func (r *reorderPointRepository) GetReorderPoint(ctx context.Context, tenantID, storeID, productID int64) (*domain.ReorderPoint, error) {
	query := `
		SELECT id, tenant_id, store_id, product_id, reorder_point,
		       safety_stock, eoq, lead_time_days, service_level, updated_at
		FROM reorder_points
		WHERE tenant_id = $1 AND store_id = $2 AND product_id = $3
	`

	var rp domain.ReorderPoint
	err := r.db.GetContext(ctx, &rp, query, tenantID, storeID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reorder point: %w", err)
	}
	return &rp, nil
}

// UpsertReorderPoint inserts or replaces the single reorder point row
// per (tenant, store, product) and backfills the row ID.
func (r *reorderPointRepository) UpsertReorderPoint(ctx context.Context, rp *domain.ReorderPoint) error {
	query := `
		INSERT INTO reorder_points (
			tenant_id, store_id, product_id, reorder_point,
			safety_stock, eoq, lead_time_days, service_level, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tenant_id, store_id, product_id)
		DO UPDATE SET
			reorder_point = EXCLUDED.reorder_point,
			safety_stock = EXCLUDED.safety_stock,
			eoq = EXCLUDED.eoq,
			lead_time_days = EXCLUDED.lead_time_days,
			service_level = EXCLUDED.service_level,
			updated_at = EXCLUDED.updated_at
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, query,
		rp.TenantID, rp.StoreID, rp.ProductID, rp.ReorderPoint,
		rp.SafetyStock, rp.EOQ, rp.LeadTimeDays, rp.ServiceLevel, rp.UpdatedAt,
	).Scan(&rp.ID)
	if err != nil {
		return fmt.Errorf("failed to upsert reorder point: %w", err)
	}
	return nil
}
