package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/retailgrid/replenish/backend-go/internal/config"
	"github.com/retailgrid/replenish/backend-go/internal/domain"
)

const (
	decisionKeyPrefix = "replenish:decision"
	decisionScanBatch = 100
)

// DecisionCache shortcuts repeat sourcing resolutions for the same
// (store, product, quantity) within the configured TTL. Sourcing rules
// and snapshots change slowly relative to interactive requests.
type DecisionCache interface {
	Get(ctx context.Context, tenantID, storeID, productID int64, qty int) (*domain.SourcingDecision, bool, error)
	Set(ctx context.Context, tenantID, storeID, productID int64, qty int, decision *domain.SourcingDecision) error
	InvalidateAll(ctx context.Context) error
}

type redisDecisionCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDecisionCache struct{}

func NewDecisionCache(cfg config.CacheConfig) (DecisionCache, error) {
	if !cfg.Enabled {
		return &noopDecisionCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDecisionCache{client: client, ttl: ttl}, nil
}

func NewNoopDecisionCache() DecisionCache {
	return &noopDecisionCache{}
}

func (c *redisDecisionCache) Get(ctx context.Context, tenantID, storeID, productID int64, qty int) (*domain.SourcingDecision, bool, error) {
	payload, err := c.client.Get(ctx, decisionKey(tenantID, storeID, productID, qty)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var decision domain.SourcingDecision
	if err := json.Unmarshal(payload, &decision); err != nil {
		return nil, false, fmt.Errorf("decode sourcing decision cache: %w", err)
	}
	return &decision, true, nil
}

func (c *redisDecisionCache) Set(ctx context.Context, tenantID, storeID, productID int64, qty int, decision *domain.SourcingDecision) error {
	payload, err := json.Marshal(decision)
	if err != nil {
		return fmt.Errorf("encode sourcing decision cache: %w", err)
	}

	if err := c.client.Set(ctx, decisionKey(tenantID, storeID, productID, qty), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (c *redisDecisionCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, decisionKeyPrefix, decisionScanBatch)
}

func (n *noopDecisionCache) Get(ctx context.Context, tenantID, storeID, productID int64, qty int) (*domain.SourcingDecision, bool, error) {
	return nil, false, nil
}

func (n *noopDecisionCache) Set(ctx context.Context, tenantID, storeID, productID int64, qty int, decision *domain.SourcingDecision) error {
	return nil
}

func (n *noopDecisionCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func decisionKey(tenantID, storeID, productID int64, qty int) string {
	return fmt.Sprintf("%s:%d:%d:%d:%d", decisionKeyPrefix, tenantID, storeID, productID, qty)
}
