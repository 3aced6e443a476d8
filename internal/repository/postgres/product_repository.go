package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/repository"
)

type productRepository struct {
	db *DB
}

func NewProductRepository(db *DB) *productRepository {
	return &productRepository{db: db}
}

func (r *productRepository) GetProduct(ctx context.Context, tenantID, productID int64) (*domain.Product, error) {
	query := `
		SELECT id, tenant_id, sku, name, status, min_order_qty,
		       case_pack_size, unit_cost, created_at, updated_at
		FROM products
		WHERE tenant_id = $1 AND id = $2
	`

	var p domain.Product
	err := r.db.GetContext(ctx, &p, query, tenantID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product %d: %w", productID, err)
	}
	return &p, nil
}
