package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/retailgrid/replenish/backend-go/internal/domain"
	"github.com/retailgrid/replenish/backend-go/internal/repository/memory"
)

func TestHaversine(t *testing.T) {
	// New York to Los Angeles, roughly 2445 miles
	nyLat, nyLon := 40.7128, -74.0060
	laLat, laLon := 34.0522, -118.2437

	dist := Haversine(nyLat, nyLon, laLat, laLon)
	assert.InDelta(t, 2445, dist, 15)

	// symmetric and zero for identical points
	assert.InDelta(t, dist, Haversine(laLat, laLon, nyLat, nyLon), 1e-9)
	assert.Zero(t, Haversine(nyLat, nyLon, nyLat, nyLon))
}

func addDonor(repo *memory.Repo, id int64, name string, lat, lon float64, available, safetyStock int) {
	repo.AddStore(domain.Store{
		ID: id, TenantID: 1, Name: name,
		Latitude: ptrFloat64(lat), Longitude: ptrFloat64(lon),
		Active: true,
	})
	repo.AddStoreStock(domain.StoreStockSnapshot{
		TenantID: 1, StoreID: id, ProductID: 100,
		QtyAvailable: available, SnapshotAt: time.Now(),
	})
	if safetyStock > 0 {
		repo.SeedReorderPoint(domain.ReorderPoint{
			TenantID: 1, StoreID: id, ProductID: 100, SafetyStock: safetyStock, ReorderPoint: safetyStock,
		})
	}
}

func seedTransferFixture() *memory.Repo {
	repo := memory.NewRepo()
	repo.AddStore(domain.Store{
		ID: 1, TenantID: 1, Name: "Requesting Store",
		Latitude: ptrFloat64(40.0), Longitude: ptrFloat64(-75.0),
		Active: true,
	})
	return repo
}

func TestRanker_RanksByExcessPerMile(t *testing.T) {
	ctx := context.Background()
	repo := seedTransferFixture()
	// ~6.9 miles north, excess 100-10-20 = 70
	addDonor(repo, 2, "Near Store", 40.1, -75.0, 100, 10)
	// ~41.5 miles north, excess 500-0-20 = 480
	addDonor(repo, 3, "Big Store", 40.6, -75.0, 500, 0)

	ranker := NewRanker(DefaultTransferConfig(), repo, repo, repo)
	options, err := ranker.FindOptions(ctx, 1, 100, 1, 50, 0, 0)
	require.NoError(t, err)
	require.Len(t, options, 2)

	// 480 excess over ~41 miles outranks 70 excess over ~7 miles
	assert.Equal(t, int64(3), options[0].FromStoreID)
	assert.Equal(t, int64(2), options[1].FromStoreID)

	big := options[0]
	assert.Equal(t, 480, big.ExcessQty)
	assert.Equal(t, 50, big.RecommendedQty, "recommended is capped at quantity needed")
	assert.Equal(t, 3, big.EstLeadDays, "beyond 30 miles takes 3 days")
	assert.InDelta(t, big.DistanceMiles*0.50, big.TransferCost, 0.01)

	near := options[1]
	assert.Equal(t, 70, near.ExcessQty)
	assert.Equal(t, 2, near.EstLeadDays, "within 30 miles takes 2 days")
	assert.Equal(t, 10.0, near.TransferCost, "short hops pay the handling-cost floor")
}

func TestRanker_ZeroNeededMeansAnyAmountHelps(t *testing.T) {
	ctx := context.Background()
	repo := seedTransferFixture()
	addDonor(repo, 2, "Near Store", 40.1, -75.0, 100, 10)

	ranker := NewRanker(DefaultTransferConfig(), repo, repo, repo)
	options, err := ranker.FindOptions(ctx, 1, 100, 1, 0, 0, 0)
	require.NoError(t, err)
	require.Len(t, options, 1)
	assert.Equal(t, 70, options[0].RecommendedQty, "zero needed recommends the full excess")
}

func TestRanker_ExcludesNonPositiveExcess(t *testing.T) {
	ctx := context.Background()
	repo := seedTransferFixture()
	// 30 available - 15 safety stock - 20 buffer = -5
	addDonor(repo, 2, "Tight Store", 40.1, -75.0, 30, 15)
	// exactly zero excess is excluded too
	addDonor(repo, 3, "Break-even Store", 40.1, -75.0, 20, 0)

	ranker := NewRanker(DefaultTransferConfig(), repo, repo, repo)
	options, err := ranker.FindOptions(ctx, 1, 100, 1, 10, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestRanker_RespectsSearchRadius(t *testing.T) {
	ctx := context.Background()
	repo := seedTransferFixture()
	// ~207 miles away, outside the default 75 mile radius
	addDonor(repo, 2, "Far Store", 43.0, -75.0, 500, 0)

	ranker := NewRanker(DefaultTransferConfig(), repo, repo, repo)
	options, err := ranker.FindOptions(ctx, 1, 100, 1, 10, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, options)

	// a wider explicit radius brings it back
	options, err = ranker.FindOptions(ctx, 1, 100, 1, 10, 0, 250)
	require.NoError(t, err)
	assert.Len(t, options, 1)
}

func TestRanker_RequesterWithoutCoordinates(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewRepo()
	repo.AddStore(domain.Store{ID: 1, TenantID: 1, Name: "No Geo Store", Active: true})
	addDonor(repo, 2, "Near Store", 40.1, -75.0, 100, 0)

	ranker := NewRanker(DefaultTransferConfig(), repo, repo, repo)
	options, err := ranker.FindOptions(ctx, 1, 100, 1, 10, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, options, "cannot rank without a reference point")
}

func TestRanker_SkipsDonorsWithoutCoordinatesOrStock(t *testing.T) {
	ctx := context.Background()
	repo := seedTransferFixture()
	repo.AddStore(domain.Store{ID: 2, TenantID: 1, Name: "No Geo Donor", Active: true})
	// donor with coordinates but no stock snapshot
	repo.AddStore(domain.Store{
		ID: 3, TenantID: 1, Name: "No Snapshot Donor",
		Latitude: ptrFloat64(40.1), Longitude: ptrFloat64(-75.0), Active: true,
	})

	ranker := NewRanker(DefaultTransferConfig(), repo, repo, repo)
	options, err := ranker.FindOptions(ctx, 1, 100, 1, 10, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, options)
}

func TestRanker_TruncatesToMaxResults(t *testing.T) {
	ctx := context.Background()
	repo := seedTransferFixture()
	addDonor(repo, 2, "Donor A", 40.1, -75.0, 100, 0)
	addDonor(repo, 3, "Donor B", 40.2, -75.0, 200, 0)
	addDonor(repo, 4, "Donor C", 40.3, -75.0, 300, 0)
	addDonor(repo, 5, "Donor D", 40.4, -75.0, 400, 0)

	ranker := NewRanker(DefaultTransferConfig(), repo, repo, repo)

	options, err := ranker.FindOptions(ctx, 1, 100, 1, 0, 0, 0)
	require.NoError(t, err)
	assert.Len(t, options, 3, "default max results is 3")

	options, err = ranker.FindOptions(ctx, 1, 100, 1, 0, 2, 0)
	require.NoError(t, err)
	assert.Len(t, options, 2)
}
