package engine

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/repository"
)

// TransferConfig carries the emergency store-to-store transfer policy.
type TransferConfig struct {
	// BufferUnits is the shelf-presentation reserve a donor keeps back.
	BufferUnits     int
	CostPerMile     float64
	MinHandlingCost float64
	RadiusMiles     float64
	MaxResults      int
}

// DefaultTransferConfig returns the stock transfer policy.
func DefaultTransferConfig() TransferConfig {
	return TransferConfig{
		BufferUnits:     20,
		CostPerMile:     0.50,
		MinHandlingCost: 10,
		RadiusMiles:     75,
		MaxResults:      3,
	}
}

const earthRadiusMiles = 3958.8

// Haversine returns the great-circle distance in miles between two
// coordinates.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	const degToRad = math.Pi / 180
	dLat := (lat2 - lat1) * degToRad
	dLon := (lon2 - lon1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusMiles * math.Asin(math.Sqrt(a))
}

// Ranker finds donor stores for emergency rebalancing when no vendor
// or DC source can fulfill in time.
type Ranker struct {
	cfg    TransferConfig
	stores repository.StoreRepository
	stock  repository.StoreStockRepository
	points repository.ReorderPointRepository
}

func NewRanker(
	cfg TransferConfig,
	stores repository.StoreRepository,
	stock repository.StoreStockRepository,
	points repository.ReorderPointRepository,
) *Ranker {
	return &Ranker{cfg: cfg, stores: stores, stock: stock, points: points}
}

// FindOptions ranks candidate donor stores within radiusMiles of the
// requesting store by excess-per-mile and returns the top maxResults.
// qtyNeeded of 0 means any amount helps. Non-positive maxResults and
// radiusMiles fall back to the configured defaults. A requesting store
// without coordinates yields an empty result set.
func (r *Ranker) FindOptions(ctx context.Context, tenantID, productID, storeID int64, qtyNeeded, maxResults int, radiusMiles float64) ([]domain.TransferOption, error) {
	if maxResults <= 0 {
		maxResults = r.cfg.MaxResults
	}
	if radiusMiles <= 0 {
		radiusMiles = r.cfg.RadiusMiles
	}

	requester, err := r.stores.GetStore(ctx, tenantID, storeID)
	if errors.Is(err, repository.ErrNotFound) {
		log.Debug().Int64("store_id", storeID).Msg("transfer: requesting store not found")
		return []domain.TransferOption{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load requesting store %d: %w", storeID, err)
	}
	if !requester.HasCoordinates() {
		// cannot rank donors without a reference point
		return []domain.TransferOption{}, nil
	}

	candidates, err := r.stores.ListActiveStores(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list stores for tenant %d: %w", tenantID, err)
	}

	options := make([]domain.TransferOption, 0, len(candidates))
	for i := range candidates {
		donor := &candidates[i]
		if donor.ID == storeID || !donor.HasCoordinates() {
			continue
		}

		distance := Haversine(*requester.Latitude, *requester.Longitude, *donor.Latitude, *donor.Longitude)
		if distance > radiusMiles {
			continue
		}

		available, err := r.stock.LatestAvailable(ctx, tenantID, donor.ID, productID)
		if errors.Is(err, repository.ErrNotFound) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load stock for store %d product %d: %w", donor.ID, productID, err)
		}

		safetyStock := 0
		rp, err := r.points.GetReorderPoint(ctx, tenantID, donor.ID, productID)
		if err == nil {
			safetyStock = rp.SafetyStock
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("load reorder point for store %d product %d: %w", donor.ID, productID, err)
		}

		excess := available - safetyStock - r.cfg.BufferUnits
		if excess <= 0 {
			continue
		}

		cost := distance * r.cfg.CostPerMile
		if cost < r.cfg.MinHandlingCost {
			cost = r.cfg.MinHandlingCost
		}

		recommended := excess
		if qtyNeeded > 0 && qtyNeeded < excess {
			recommended = qtyNeeded
		}

		leadDays := 3
		if distance <= 30 {
			leadDays = 2
		}

		options = append(options, domain.TransferOption{
			FromStoreID:    donor.ID,
			FromStoreName:  donor.Name,
			DistanceMiles:  distance,
			TransferCost:   cost,
			ExcessQty:      excess,
			RecommendedQty: recommended,
			EstLeadDays:    leadDays,
		})
	}

	// closer, larger-excess donors first
	sort.SliceStable(options, func(i, j int) bool {
		return transferScore(options[i]) > transferScore(options[j])
	})

	if len(options) > maxResults {
		options = options[:maxResults]
	}
	return options, nil
}

func transferScore(opt domain.TransferOption) float64 {
	return float64(opt.ExcessQty) / math.Max(opt.DistanceMiles, 1)
}
