// backend-go/internal/domain/models.go
package domain

import "time"

// Store represents a retail store location. Latitude/Longitude are
// optional; transfer ranking requires both to be present.
type Store struct {
	ID          int64     `json:"id" db:"id"`
	TenantID    int64     `json:"tenant_id" db:"tenant_id"`
	Name        string    `json:"name" db:"name"`
	Latitude    *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude   *float64  `json:"longitude,omitempty" db:"longitude"`
	ClusterTier int       `json:"cluster_tier" db:"cluster_tier"`
	Active      bool      `json:"active" db:"active"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// HasCoordinates reports whether the store can participate in
// geographic transfer ranking.
func (s *Store) HasCoordinates() bool {
	return s.Latitude != nil && s.Longitude != nil
}

// Product carries the catalog attributes the engine reads: lifecycle
// status, order sizing constraints, and unit cost for holding-cost math.
type Product struct {
	ID           int64         `json:"id" db:"id"`
	TenantID     int64         `json:"tenant_id" db:"tenant_id"`
	SKU          string        `json:"sku" db:"sku"`
	Name         string        `json:"name" db:"name"`
	Status       ProductStatus `json:"status" db:"status"`
	MinOrderQty  int           `json:"min_order_qty" db:"min_order_qty"`
	CasePackSize int           `json:"case_pack_size" db:"case_pack_size"`
	UnitCost     float64       `json:"unit_cost" db:"unit_cost"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at" db:"updated_at"`
}

// SourcingRule describes one candidate fulfillment path for a product.
// A nil StoreID scopes the rule to all stores for the product.
type SourcingRule struct {
	ID             int64      `json:"id" db:"id"`
	TenantID       int64      `json:"tenant_id" db:"tenant_id"`
	ProductID      int64      `json:"product_id" db:"product_id"`
	StoreID        *int64     `json:"store_id,omitempty" db:"store_id"`
	SourceType     SourceType `json:"source_type" db:"source_type"`
	SourceID       int64      `json:"source_id" db:"source_id"`
	Priority       int        `json:"priority" db:"priority"`
	LeadTimeDays   float64    `json:"lead_time_days" db:"lead_time_days"`
	LeadTimeStdDev float64    `json:"lead_time_std_dev" db:"lead_time_std_dev"`
	MinOrderQty    int        `json:"min_order_qty" db:"min_order_qty"`
	CostPerOrder   float64    `json:"cost_per_order" db:"cost_per_order"`
	Active         bool       `json:"active" db:"active"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
}

// IsStoreSpecific reports whether the rule is scoped to a single store.
func (r *SourcingRule) IsStoreSpecific() bool {
	return r.StoreID != nil
}

// DistributionCenter is an intermediate warehouse between vendor and store.
type DistributionCenter struct {
	ID       int64  `json:"id" db:"id"`
	TenantID int64  `json:"tenant_id" db:"tenant_id"`
	Name     string `json:"name" db:"name"`
	Active   bool   `json:"active" db:"active"`
}

// DCStockSnapshot is a point-in-time available quantity for a
// (distribution center, product) pair. Only the most recent snapshot
// per pair is authoritative.
type DCStockSnapshot struct {
	ID           int64     `json:"id" db:"id"`
	TenantID     int64     `json:"tenant_id" db:"tenant_id"`
	DCID         int64     `json:"dc_id" db:"dc_id"`
	ProductID    int64     `json:"product_id" db:"product_id"`
	QtyAvailable int       `json:"qty_available" db:"qty_available"`
	SnapshotAt   time.Time `json:"snapshot_at" db:"snapshot_at"`
}

// Supplier is a vendor that can fulfill vendor_direct sourcing rules.
type Supplier struct {
	ID       int64  `json:"id" db:"id"`
	TenantID int64  `json:"tenant_id" db:"tenant_id"`
	Name     string `json:"name" db:"name"`
	Active   bool   `json:"active" db:"active"`
}

// SupplierScorecard holds the nightly vendor-scorecard output: measured
// reliability and lead-time statistics. AvgLeadTimeDays and
// LeadTimeStdDev are nil until enough deliveries have been observed;
// when present they override a rule's configured lead time.
type SupplierScorecard struct {
	SupplierID      int64     `json:"supplier_id" db:"supplier_id"`
	TenantID        int64     `json:"tenant_id" db:"tenant_id"`
	OnTimeRate      float64   `json:"on_time_rate" db:"on_time_rate"`
	AvgLeadTimeDays *float64  `json:"avg_lead_time_days,omitempty" db:"avg_lead_time_days"`
	LeadTimeStdDev  *float64  `json:"lead_time_std_dev,omitempty" db:"lead_time_std_dev"`
	MinOrderQty     int       `json:"min_order_qty" db:"min_order_qty"`
	CostPerOrder    float64   `json:"cost_per_order" db:"cost_per_order"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// DemandForecast is the forecasting subsystem's output for a
// (store, product) pair: mean and standard deviation of daily demand.
type DemandForecast struct {
	TenantID    int64     `json:"tenant_id" db:"tenant_id"`
	StoreID     int64     `json:"store_id" db:"store_id"`
	ProductID   int64     `json:"product_id" db:"product_id"`
	MeanDaily   float64   `json:"mean_daily" db:"mean_daily"`
	StdDevDaily float64   `json:"std_dev_daily" db:"std_dev_daily"`
	WindowDays  int       `json:"window_days" db:"window_days"`
	GeneratedAt time.Time `json:"generated_at" db:"generated_at"`
}

// ReorderPoint is the optimizer's persisted output for a
// (store, product) pair. Invariant: ReorderPoint >= SafetyStock >= 0
// and EOQ >= 1.
type ReorderPoint struct {
	ID           int64     `json:"id" db:"id"`
	TenantID     int64     `json:"tenant_id" db:"tenant_id"`
	StoreID      int64     `json:"store_id" db:"store_id"`
	ProductID    int64     `json:"product_id" db:"product_id"`
	ReorderPoint int       `json:"reorder_point" db:"reorder_point"`
	SafetyStock  int       `json:"safety_stock" db:"safety_stock"`
	EOQ          int       `json:"eoq" db:"eoq"`
	LeadTimeDays float64   `json:"lead_time_days" db:"lead_time_days"`
	ServiceLevel float64   `json:"service_level" db:"service_level"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Same compares the computed fields that decide whether a
// recalculation is an update or a no-op.
func (r *ReorderPoint) Same(other *ReorderPoint) bool {
	if other == nil {
		return false
	}
	return r.ReorderPoint == other.ReorderPoint &&
		r.SafetyStock == other.SafetyStock &&
		r.EOQ == other.EOQ &&
		r.LeadTimeDays == other.LeadTimeDays &&
		r.ServiceLevel == other.ServiceLevel
}

// LeadTimeEstimate is a resolved lead-time distribution plus where it
// came from. StdDevDays is the day-unit spread fed into the safety
// stock formula.
type LeadTimeEstimate struct {
	MeanDays   float64 `json:"mean_days"`
	StdDevDays float64 `json:"std_dev_days"`
	Provenance string  `json:"provenance"`
}

// SourcingDecision is the resolver's choice for a (store, product)
// request. DCStockAvailable is nil for non-DC sources. Derived, never
// persisted.
type SourcingDecision struct {
	RuleID           int64            `json:"rule_id"`
	Priority         int              `json:"priority"`
	SourceType       SourceType       `json:"source_type"`
	SourceID         int64            `json:"source_id"`
	SourceName       string           `json:"source_name"`
	LeadTime         LeadTimeEstimate `json:"lead_time"`
	MinOrderQty      int              `json:"min_order_qty"`
	CostPerOrder     float64          `json:"cost_per_order"`
	OnTimeRate       float64          `json:"on_time_rate"`
	DCStockAvailable *int             `json:"dc_stock_available,omitempty"`
}

// StoreStockSnapshot is a store-level available quantity, used by the
// transfer ranker to size donor excess.
type StoreStockSnapshot struct {
	ID           int64     `json:"id" db:"id"`
	TenantID     int64     `json:"tenant_id" db:"tenant_id"`
	StoreID      int64     `json:"store_id" db:"store_id"`
	ProductID    int64     `json:"product_id" db:"product_id"`
	QtyAvailable int       `json:"qty_available" db:"qty_available"`
	SnapshotAt   time.Time `json:"snapshot_at" db:"snapshot_at"`
}

// TransferOption is one ranked donor-store candidate. Derived, never
// persisted.
type TransferOption struct {
	FromStoreID    int64   `json:"from_store_id"`
	FromStoreName  string  `json:"from_store_name"`
	DistanceMiles  float64 `json:"distance_miles"`
	TransferCost   float64 `json:"transfer_cost"`
	ExcessQty      int     `json:"excess_qty"`
	RecommendedQty int     `json:"recommended_qty"`
	EstLeadDays    int     `json:"est_lead_days"`
}

// TransferRequest is the persisted record created from a chosen
// transfer option. The engine only ever creates it in the requested
// state; approval and execution belong to calling workflows.
type TransferRequest struct {
	ID          int64          `json:"id" db:"id"`
	TenantID    int64          `json:"tenant_id" db:"tenant_id"`
	ProductID   int64          `json:"product_id" db:"product_id"`
	FromStoreID int64          `json:"from_store_id" db:"from_store_id"`
	ToStoreID   int64          `json:"to_store_id" db:"to_store_id"`
	Qty         int            `json:"qty" db:"qty"`
	Status      TransferStatus `json:"status" db:"status"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at"`
}

// StoreProductPair identifies one unit of batch work.
type StoreProductPair struct {
	StoreID   int64 `json:"store_id" db:"store_id"`
	ProductID int64 `json:"product_id" db:"product_id"`
}

// RecalcSummary reports the outcome of a nightly recalculation batch.
type RecalcSummary struct {
	TenantID    int64     `json:"tenant_id"`
	TotalPairs  int       `json:"total_pairs"`
	Created     int       `json:"created"`
	Updated     int       `json:"updated"`
	Unchanged   int       `json:"unchanged"`
	Skipped     int       `json:"skipped"`
	Errors      int       `json:"errors"`
	StartedAt   time.Time `json:"started_at"`
	CompletedAt time.Time `json:"completed_at"`
}
