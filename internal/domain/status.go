package domain

// SourceType tags a sourcing rule's fulfillment path.
type SourceType string

const (
	SourceVendorDirect SourceType = "vendor_direct"
	SourceDC           SourceType = "dc"
	SourceRegionalDC   SourceType = "regional_dc"
	SourceTransfer     SourceType = "transfer"
)

// IsDC reports whether the source is stock-gated on a distribution
// center snapshot.
func (t SourceType) IsDC() bool {
	return t == SourceDC || t == SourceRegionalDC
}

// ProductStatus is the product lifecycle state.
type ProductStatus string

const (
	ProductActive            ProductStatus = "active"
	ProductPendingActivation ProductStatus = "pending_activation"
	ProductSeasonalOut       ProductStatus = "seasonal_out"
	ProductDelisted          ProductStatus = "delisted"
	ProductDiscontinued      ProductStatus = "discontinued"
)

// Orderable reports whether reorder points should be computed for a
// product in this state. Non-orderable products are skipped entirely.
func (s ProductStatus) Orderable() bool {
	return s == ProductActive
}

// TransferStatus is the lifecycle state of a transfer request. The
// engine only creates requests; the rest of the lifecycle is owned by
// approval workflows.
type TransferStatus string

const (
	TransferRequested TransferStatus = "requested"
	TransferApproved  TransferStatus = "approved"
	TransferRejected  TransferStatus = "rejected"
	TransferCompleted TransferStatus = "completed"
)

// RecalcAction describes what a reorder-point recalculation did.
type RecalcAction string

const (
	RecalcCreated   RecalcAction = "created"
	RecalcUpdated   RecalcAction = "updated"
	RecalcUnchanged RecalcAction = "unchanged"
	RecalcSkipped   RecalcAction = "skipped"
)
