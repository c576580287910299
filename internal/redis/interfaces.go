package redis

import (
	"context"

	"github.com/IngesoftV-backend-microservices/payment-service/internal/domain"
)

// OrderCacheInterface defines the interface for order snapshot caching.
type OrderCacheInterface interface {
	GetOrder(ctx context.Context, orderID int64) (*domain.OrderSummary, error)
	SetOrder(ctx context.Context, order *domain.OrderSummary) error
	InvalidateOrder(ctx context.Context, orderID int64) error
}

// Ensure concrete types implement interfaces.
var _ OrderCacheInterface = (*OrderCache)(nil)
