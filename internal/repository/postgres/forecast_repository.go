package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/repository"
)

type forecastRepository struct {
	db *DB
}

func NewForecastRepository(db *DB) *forecastRepository {
	return &forecastRepository{db: db}
}

func (r *forecastRepository) GetForecast(ctx context.Context, tenantID, storeID, productID int64) (*domain.DemandForecast, error) {
	query := `
		SELECT tenant_id, store_id, product_id, mean_daily, std_dev_daily,
		       window_days, generated_at
		FROM demand_forecasts
		WHERE tenant_id = $1 AND store_id = $2 AND product_id = $3
	`

	var f domain.DemandForecast
	err := r.db.GetContext(ctx, &f, query, tenantID, storeID, productID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get demand forecast: %w", err)
	}
	return &f, nil
}

// ListPairs returns every distinct (store, product) pair with a
// forecast, which is the nightly batch's work list.
func (r *forecastRepository) ListPairs(ctx context.Context, tenantID int64) ([]domain.StoreProductPair, error) {
	query := `
		SELECT DISTINCT store_id, product_id
		FROM demand_forecasts
		WHERE tenant_id = $1
		ORDER BY store_id, product_id
	`

	var pairs []domain.StoreProductPair
	if err := r.db.SelectContext(ctx, &pairs, query, tenantID); err != nil {
		return nil, fmt.Errorf("failed to list forecast pairs: %w", err)
	}
	return pairs, nil
}
