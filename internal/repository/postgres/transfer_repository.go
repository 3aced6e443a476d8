package postgres

import (
	"context"
	"fmt"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
)

type transferRequestRepository struct {
	db *DB
}

func NewTransferRequestRepository(db *DB) *transferRequestRepository {
	return &transferRequestRepository{db: db}
}

func (r *transferRequestRepository) CreateTransferRequest(ctx context.Context, tr *domain.TransferRequest) error {
	query := `
		INSERT INTO transfer_requests (
			tenant_id, product_id, from_store_id, to_store_id,
			qty, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id
	`

	err := r.db.QueryRowxContext(ctx, query,
		tr.TenantID, tr.ProductID, tr.FromStoreID, tr.ToStoreID,
		tr.Qty, tr.Status, tr.CreatedAt,
	).Scan(&tr.ID)
	if err != nil {
		return fmt.Errorf("failed to create transfer request: %w", err)
	}
	return nil
}
