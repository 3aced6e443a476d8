// backend-go/internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// The engine treats missing reference data for a configured rule as
// that rule failing silently, so callers match on this error rather
// than driver-specific sentinels.
var ErrNotFound = errors.New("record not found")

// SourcingRuleRepository reads the sourcing rule catalog. Rules are
// configured externally and are read-only to the engine.
type SourcingRuleRepository interface {
	// ListForStoreProduct returns all active rules for the product that
	// apply to the store: store-specific rules plus global rules.
	// Ordering is the resolver's responsibility.
	ListForStoreProduct(ctx context.Context, tenantID, storeID, productID int64) ([]domain.SourcingRule, error)
}

// DCStockRepository reads distribution-center inventory snapshots.
type DCStockRepository interface {
	// LatestSnapshot returns the most recent snapshot for the
	// (DC, product) pair, or ErrNotFound if none exists.
	LatestSnapshot(ctx context.Context, tenantID, dcID, productID int64) (*domain.DCStockSnapshot, error)
}

// DistributionCenterRepository reads DC reference data.
type DistributionCenterRepository interface {
	GetDC(ctx context.Context, tenantID, dcID int64) (*domain.DistributionCenter, error)
}

// SupplierRepository reads supplier reference data and the nightly
// vendor scorecard.
type SupplierRepository interface {
	GetSupplier(ctx context.Context, tenantID, supplierID int64) (*domain.Supplier, error)
	// GetScorecard returns ErrNotFound when no scorecard has been
	// produced yet; the resolver then keeps the rule's configured values.
	GetScorecard(ctx context.Context, tenantID, supplierID int64) (*domain.SupplierScorecard, error)
}

// ForecastRepository reads the forecasting subsystem's demand statistics.
type ForecastRepository interface {
	GetForecast(ctx context.Context, tenantID, storeID, productID int64) (*domain.DemandForecast, error)
	// ListPairs enumerates every (store, product) pair carrying a
	// forecast for the tenant; this is the nightly batch's work list.
	ListPairs(ctx context.Context, tenantID int64) ([]domain.StoreProductPair, error)
}

// ProductRepository reads product catalog data.
type ProductRepository interface {
	GetProduct(ctx context.Context, tenantID, productID int64) (*domain.Product, error)
}

// StoreRepository reads store reference data.
type StoreRepository interface {
	GetStore(ctx context.Context, tenantID, storeID int64) (*domain.Store, error)
	ListActiveStores(ctx context.Context, tenantID int64) ([]domain.Store, error)
}

// StoreStockRepository reads store-level availability snapshots for
// transfer ranking.
type StoreStockRepository interface {
	// LatestAvailable returns the most recent available quantity for the
	// (store, product) pair, or ErrNotFound if no snapshot exists.
	LatestAvailable(ctx context.Context, tenantID, storeID, productID int64) (int, error)
}

// ReorderPointRepository persists the optimizer's output.
type ReorderPointRepository interface {
	GetReorderPoint(ctx context.Context, tenantID, storeID, productID int64) (*domain.ReorderPoint, error)
	UpsertReorderPoint(ctx context.Context, rp *domain.ReorderPoint) error
}

// TransferRequestRepository persists transfer requests created from
// chosen transfer options.
type TransferRequestRepository interface {
	CreateTransferRequest(ctx context.Context, tr *domain.TransferRequest) error
}
