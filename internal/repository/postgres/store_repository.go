package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/repository"
)

type storeRepository struct {
	db *DB
}

func NewStoreRepository(db *DB) *storeRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) GetStore(ctx context.Context, tenantID, storeID int64) (*domain.Store, error) {
	query := `
		SELECT id, tenant_id, name, latitude, longitude, cluster_tier,
		       active, created_at, updated_at
		FROM stores
		WHERE tenant_id = $1 AND id = $2
	`

	var s domain.Store
	err := r.db.GetContext(ctx, &s, query, tenantID, storeID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get store %d: %w", storeID, err)
	}
	return &s, nil
}

func (r *storeRepository) ListActiveStores(ctx context.Context, tenantID int64) ([]domain.Store, error) {
	query := `
		SELECT id, tenant_id, name, latitude, longitude, cluster_tier,
		       active, created_at, updated_at
		FROM stores
		WHERE tenant_id = $1 AND active = TRUE
		ORDER BY id
	`

	var stores []domain.Store
	if err := r.db.SelectContext(ctx, &stores, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list active stores: %w", err)
	}
	return stores, nil
}

type storeStockRepository struct {
	db *DB
}

func NewStoreStockRepository(db *DB) *storeStockRepository {
	return &storeStockRepository{db: db}
}

// LatestAvailable returns the quantity from the most recent store
// stock snapshot for the pair.
func (r *storeStockRepository) LatestAvailable(ctx context.Context, tenantID, storeID, productID int64) (int, error) {
	query := `
		SELECT qty_available
		FROM store_stock_snapshots
		WHERE tenant_id = $1 AND store_id = $2 AND product_id = $3
		ORDER BY snapshot_at DESC
		LIMIT 1
	`

	var qty int
	err := r.db.GetContext(ctx, &qty, query, tenantID, storeID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, repository.ErrNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get store stock snapshot: %w", err)
	}
	return qty, nil
}
