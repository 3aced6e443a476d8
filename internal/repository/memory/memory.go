// Package memory provides in-memory repository implementations used by
// tests and local development. All implementations are safe for
// concurrent use.
package memory

import (
	"context"
	"sync"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/repository"
)

// Repo implements every engine repository interface over in-memory
// slices and maps.
type Repo struct {
	mu         sync.RWMutex
	nextID     int64
	rules      []domain.SourcingRule
	dcs        map[int64]domain.DistributionCenter
	dcStock    []domain.DCStockSnapshot
	suppliers  map[int64]domain.Supplier
	scorecards map[int64]domain.SupplierScorecard
	forecasts  []domain.DemandForecast
	products   map[int64]domain.Product
	stores     map[int64]domain.Store
	storeStock []domain.StoreStockSnapshot
	points     []domain.ReorderPoint
	transfers  []domain.TransferRequest
}

func NewRepo() *Repo {
	return &Repo{
		dcs:        make(map[int64]domain.DistributionCenter),
		suppliers:  make(map[int64]domain.Supplier),
		scorecards: make(map[int64]domain.SupplierScorecard),
		products:   make(map[int64]domain.Product),
		stores:     make(map[int64]domain.Store),
	}
}

func (r *Repo) allocID() int64 {
	r.nextID++
	return r.nextID
}

// --- seeding helpers ---

func (r *Repo) AddSourcingRule(rule domain.SourcingRule) domain.SourcingRule {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rule.ID == 0 {
		rule.ID = r.allocID()
	}
	r.rules = append(r.rules, rule)
	return rule
}

func (r *Repo) AddDC(dc domain.DistributionCenter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dcs[dc.ID] = dc
}

func (r *Repo) AddDCStock(snap domain.DCStockSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if snap.ID == 0 {
		snap.ID = r.allocID()
	}
	r.dcStock = append(r.dcStock, snap)
}

func (r *Repo) AddSupplier(s domain.Supplier) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.suppliers[s.ID] = s
}

func (r *Repo) AddScorecard(sc domain.SupplierScorecard) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scorecards[sc.SupplierID] = sc
}

func (r *Repo) AddForecast(f domain.DemandForecast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.forecasts = append(r.forecasts, f)
}

func (r *Repo) AddProduct(p domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products[p.ID] = p
}

func (r *Repo) AddStore(s domain.Store) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stores[s.ID] = s
}

func (r *Repo) AddStoreStock(snap domain.StoreStockSnapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if snap.ID == 0 {
		snap.ID = r.allocID()
	}
	r.storeStock = append(r.storeStock, snap)
}

func (r *Repo) SeedReorderPoint(rp domain.ReorderPoint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rp.ID == 0 {
		rp.ID = r.allocID()
	}
	r.points = append(r.points, rp)
}

// TransferRequests returns a copy of all persisted transfer requests.
func (r *Repo) TransferRequests() []domain.TransferRequest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]domain.TransferRequest, len(r.transfers))
	copy(out, r.transfers)
	return out
}

// --- repository.SourcingRuleRepository ---

func (r *Repo) ListForStoreProduct(ctx context.Context, tenantID, storeID, productID int64) ([]domain.SourcingRule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.SourcingRule
	for _, rule := range r.rules {
		if rule.TenantID != tenantID || rule.ProductID != productID || !rule.Active {
			continue
		}
		if rule.StoreID != nil && *rule.StoreID != storeID {
			continue
		}
		out = append(out, rule)
	}
	return out, nil
}

// --- repository.DCStockRepository ---

func (r *Repo) LatestSnapshot(ctx context.Context, tenantID, dcID, productID int64) (*domain.DCStockSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *domain.DCStockSnapshot
	for i := range r.dcStock {
		snap := &r.dcStock[i]
		if snap.TenantID != tenantID || snap.DCID != dcID || snap.ProductID != productID {
			continue
		}
		if latest == nil || snap.SnapshotAt.After(latest.SnapshotAt) {
			latest = snap
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	out := *latest
	return &out, nil
}

// --- repository.DistributionCenterRepository ---

func (r *Repo) GetDC(ctx context.Context, tenantID, dcID int64) (*domain.DistributionCenter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	dc, ok := r.dcs[dcID]
	if !ok || dc.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	return &dc, nil
}

// --- repository.SupplierRepository ---

func (r *Repo) GetSupplier(ctx context.Context, tenantID, supplierID int64) (*domain.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.suppliers[supplierID]
	if !ok || s.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *Repo) GetScorecard(ctx context.Context, tenantID, supplierID int64) (*domain.SupplierScorecard, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	sc, ok := r.scorecards[supplierID]
	if !ok || sc.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	return &sc, nil
}

// --- repository.ForecastRepository ---

func (r *Repo) GetForecast(ctx context.Context, tenantID, storeID, productID int64) (*domain.DemandForecast, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.forecasts {
		f := r.forecasts[i]
		if f.TenantID == tenantID && f.StoreID == storeID && f.ProductID == productID {
			return &f, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Repo) ListPairs(ctx context.Context, tenantID int64) ([]domain.StoreProductPair, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[domain.StoreProductPair]struct{})
	var out []domain.StoreProductPair
	for _, f := range r.forecasts {
		if f.TenantID != tenantID {
			continue
		}
		pair := domain.StoreProductPair{StoreID: f.StoreID, ProductID: f.ProductID}
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		out = append(out, pair)
	}
	return out, nil
}

// --- repository.ProductRepository ---

func (r *Repo) GetProduct(ctx context.Context, tenantID, productID int64) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.products[productID]
	if !ok || p.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

// --- repository.StoreRepository ---

func (r *Repo) GetStore(ctx context.Context, tenantID, storeID int64) (*domain.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.stores[storeID]
	if !ok || s.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *Repo) ListActiveStores(ctx context.Context, tenantID int64) ([]domain.Store, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []domain.Store
	for _, s := range r.stores {
		if s.TenantID == tenantID && s.Active {
			out = append(out, s)
		}
	}
	return out, nil
}

// --- repository.StoreStockRepository ---

func (r *Repo) LatestAvailable(ctx context.Context, tenantID, storeID, productID int64) (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *domain.StoreStockSnapshot
	for i := range r.storeStock {
		snap := &r.storeStock[i]
		if snap.TenantID != tenantID || snap.StoreID != storeID || snap.ProductID != productID {
			continue
		}
		if latest == nil || snap.SnapshotAt.After(latest.SnapshotAt) {
			latest = snap
		}
	}
	if latest == nil {
		return 0, repository.ErrNotFound
	}
	return latest.QtyAvailable, nil
}

// --- repository.ReorderPointRepository ---

func (r *Repo) GetReorderPoint(ctx context.Context, tenantID, storeID, productID int64) (*domain.ReorderPoint, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.points {
		rp := r.points[i]
		if rp.TenantID == tenantID && rp.StoreID == storeID && rp.ProductID == productID {
			return &rp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *Repo) UpsertReorderPoint(ctx context.Context, rp *domain.ReorderPoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.points {
		existing := &r.points[i]
		if existing.TenantID == rp.TenantID && existing.StoreID == rp.StoreID && existing.ProductID == rp.ProductID {
			rp.ID = existing.ID
			*existing = *rp
			return nil
		}
	}
	if rp.ID == 0 {
		rp.ID = r.allocID()
	}
	r.points = append(r.points, *rp)
	return nil
}

// --- repository.TransferRequestRepository ---

func (r *Repo) CreateTransferRequest(ctx context.Context, tr *domain.TransferRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if tr.ID == 0 {
		tr.ID = r.allocID()
	}
	r.transfers = append(r.transfers, *tr)
	return nil
}

var (
	_ repository.SourcingRuleRepository       = (*Repo)(nil)
	_ repository.DCStockRepository            = (*Repo)(nil)
	_ repository.DistributionCenterRepository = (*Repo)(nil)
	_ repository.SupplierRepository           = (*Repo)(nil)
	_ repository.ForecastRepository           = (*Repo)(nil)
	_ repository.ProductRepository            = (*Repo)(nil)
	_ repository.StoreRepository              = (*Repo)(nil)
	_ repository.StoreStockRepository         = (*Repo)(nil)
	_ repository.ReorderPointRepository       = (*Repo)(nil)
	_ repository.TransferRequestRepository    = (*Repo)(nil)
)
