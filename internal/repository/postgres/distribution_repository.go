package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/repository"
)

type distributionCenterRepository struct {
	db *DB
}

func NewDistributionCenterRepository(db *DB) *distributionCenterRepository {
	return &distributionCenterRepository{db: db}
}

func (r *distributionCenterRepository) GetDC(ctx context.Context, tenantID, dcID int64) (*domain.DistributionCenter, error) {
	query := `
		SELECT id, tenant_id, name, active
		FROM distribution_centers
		WHERE tenant_id = $1 AND id = $2
	`

	var dc domain.DistributionCenter
	err := r.db.GetContext(ctx, &dc, query, tenantID, dcID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get distribution center %d: %w", dcID, err)
	}
	return &dc, nil
}

type dcStockRepository struct {
	db *DB
}

func NewDCStockRepository(db *DB) *dcStockRepository {
	return &dcStockRepository{db: db}
}

// LatestSnapshot returns the most recent snapshot for the
// (distribution center, product) pair. Older rows are history only.
func (r *dcStockRepository) LatestSnapshot(ctx context.Context, tenantID, dcID, productID int64) (*domain.DCStockSnapshot, error) {
	query := `
		SELECT id, tenant_id, dc_id, product_id, qty_available, snapshot_at
		FROM dc_stock_snapshots
		WHERE tenant_id = $1 AND dc_id = $2 AND product_id = $3
		ORDER BY snapshot_at DESC
		LIMIT 1
	`

	var snap domain.DCStockSnapshot
	err := r.db.GetContext(ctx, &snap, query, tenantID, dcID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get DC stock snapshot: %w", err)
	}
	return &snap, nil
}
