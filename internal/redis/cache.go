package redis

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/IngesoftV-backend-microservices/payment-service/internal/domain"
)

// OrderCache holds short-lived snapshots of orders fetched from the order
// service. Only best-effort enrichment reads through it; eligibility checks
// and strict lookups always go to the order service directly.
type OrderCache struct {
	client *redis.Client
}

// NewOrderCache creates a new OrderCache.
func NewOrderCache(client *redis.Client) *OrderCache {
	return &OrderCache{client: client}
}

// OrderCacheTTL bounds how stale a cached order snapshot can get.
// Order status changes during payment processing, so keep it short.
const OrderCacheTTL = 10 * time.Second

const orderCachePrefix = "cache:order:"

// cachedOrder is the cached wire form of an order snapshot.
type cachedOrder struct {
	ID     int64   `json:"id"`
	Status string  `json:"status"`
	Fee    float64 `json:"fee"`
}

// GetOrder retrieves an order snapshot from cache. A cache miss returns
// nil, nil.
func (s *OrderCache) GetOrder(ctx context.Context, orderID int64) (*domain.OrderSummary, error) {
	key := orderCachePrefix + strconv.FormatInt(orderID, 10)
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // Cache miss
		}
		return nil, err
	}

	var order cachedOrder
	if err := json.Unmarshal(data, &order); err != nil {
		return nil, err
	}
	return &domain.OrderSummary{ID: order.ID, Status: order.Status, Fee: order.Fee}, nil
}

// SetOrder stores an order snapshot in cache.
func (s *OrderCache) SetOrder(ctx context.Context, order *domain.OrderSummary) error {
	key := orderCachePrefix + strconv.FormatInt(order.ID, 10)
	data, err := json.Marshal(cachedOrder{ID: order.ID, Status: order.Status, Fee: order.Fee})
	if err != nil {
		return err
	}
	return s.client.Set(ctx, key, data, OrderCacheTTL).Err()
}

// InvalidateOrder removes an order snapshot from cache.
func (s *OrderCache) InvalidateOrder(ctx context.Context, orderID int64) error {
	key := orderCachePrefix + strconv.FormatInt(orderID, 10)
	return s.client.Del(ctx, key).Err()
}
