package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/repository"
)

type supplierRepository struct {
	db *DB
}

func NewSupplierRepository(db *DB) *supplierRepository {
	return &supplierRepository{db: db}
}

func (r *supplierRepository) GetSupplier(ctx context.Context, tenantID, supplierID int64) (*domain.Supplier, error) {
	query := `
		SELECT id, tenant_id, name, active
		FROM suppliers
		WHERE tenant_id = $1 AND id = $2
	`

	var s domain.Supplier
	err := r.db.GetContext(ctx, &s, query, tenantID, supplierID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier %d: %w", supplierID, err)
	}
	return &s, nil
}

// GetScorecard returns the nightly scorecard for a supplier, or
// ErrNotFound when the scorecard job has not produced one yet.
func (r *supplierRepository) GetScorecard(ctx context.Context, tenantID, supplierID int64) (*domain.SupplierScorecard, error) {
	query := `
		SELECT supplier_id, tenant_id, on_time_rate, avg_lead_time_days,
		       lead_time_std_dev, min_order_qty, cost_per_order, updated_at
		FROM supplier_scorecards
		WHERE tenant_id = $1 AND supplier_id = $2
	`

	var sc domain.SupplierScorecard
	err := r.db.GetContext(ctx, &sc, query, tenantID, supplierID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get supplier %d scorecard: %w", supplierID, err)
	}
	return &sc, nil
}
