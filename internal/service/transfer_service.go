package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/engine"
	"github.com/retailgrid/replenish/backend-go/internal/repository"
)

// TransferService wraps the emergency store-to-store transfer path:
// ranking donor candidates and persisting a chosen option as a
// transfer request.
type TransferService struct {
	ranker    *engine.Ranker
	transfers repository.TransferRequestRepository
}

func NewTransferService(ranker *engine.Ranker, transfers repository.TransferRequestRepository) *TransferService {
	return &TransferService{ranker: ranker, transfers: transfers}
}

// FindOptions ranks donor stores for the product within the search
// radius. The result may be empty; that is an explicit "no donors"
// answer, not an error.
func (s *TransferService) FindOptions(ctx context.Context, tenantID, productID, storeID int64, qtyNeeded, maxResults int, radiusMiles float64) ([]domain.TransferOption, error) {
	return s.ranker.FindOptions(ctx, tenantID, productID, storeID, qtyNeeded, maxResults, radiusMiles)
}

// CreateRequest persists a transfer request in the requested state
// from a chosen option. Approval and execution are the caller's
// workflow, never this engine's.
func (s *TransferService) CreateRequest(ctx context.Context, tenantID, productID, fromStoreID, toStoreID int64, qty int) (*domain.TransferRequest, error) {
	if qty <= 0 {
		return nil, fmt.Errorf("transfer quantity must be positive, got %d", qty)
	}
	if fromStoreID == toStoreID {
		return nil, fmt.Errorf("transfer source and destination stores must differ")
	}

	request := &domain.TransferRequest{
		TenantID:    tenantID,
		ProductID:   productID,
		FromStoreID: fromStoreID,
		ToStoreID:   toStoreID,
		Qty:         qty,
		Status:      domain.TransferRequested,
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.transfers.CreateTransferRequest(ctx, request); err != nil {
		return nil, fmt.Errorf("persist transfer request: %w", err)
	}

	log.Info().
		Int64("tenant_id", tenantID).
		Int64("product_id", productID).
		Int64("from_store_id", fromStoreID).
		Int64("to_store_id", toStoreID).
		Int("qty", qty).
		Msg("transfer request created")

	return request, nil
}
