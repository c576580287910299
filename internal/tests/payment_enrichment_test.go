package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/IngesoftV-backend-microservices/payment-service/internal/domain"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/orderclient"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/repository"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/service"
)

// ──────────────────────────────────────────────
// 4. ENRICHMENT: BEST-EFFORT LIST vs STRICT GET
// ──────────────────────────────────────────────

func TestList_FailedEnrichmentIsIsolated(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()
	m := NewMockMetrics()

	paymentRepo.AddPayment(&domain.Payment{ID: "pay-1", OrderID: 1, Status: domain.PaymentStatusNotStarted})
	paymentRepo.AddPayment(&domain.Payment{ID: "pay-2", OrderID: 2, Status: domain.PaymentStatusInProgress})

	// Only order 1 exists; the lookup for order 2 fails.
	gateway.AddOrder(&domain.OrderSummary{ID: 1, Status: domain.OrderStatusOrdered})

	paymentService := service.NewPaymentService(paymentRepo, gateway, m, nil)

	payments, err := paymentService.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(payments) != 2 {
		t.Fatalf("expected both payments returned, got %d", len(payments))
	}

	byID := make(map[string]*domain.Payment, len(payments))
	for _, p := range payments {
		byID[p.ID] = p
	}

	if byID["pay-1"].Order == nil {
		t.Error("expected pay-1 to be enriched")
	}
	if byID["pay-2"].Order != nil {
		t.Error("expected pay-2 to be returned unenriched")
	}
}

func TestList_RemovesDuplicatesAfterEnrichment(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()

	duplicate := &domain.Payment{ID: "pay-1", OrderID: 5, Status: domain.PaymentStatusNotStarted}
	paymentRepo.GetAllResult = []*domain.Payment{duplicate, duplicate}

	gateway.AddOrder(&domain.OrderSummary{ID: 5, Status: domain.OrderStatusOrdered})

	paymentService := service.NewPaymentService(paymentRepo, gateway, NewMockMetrics(), nil)

	payments, err := paymentService.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(payments) != 1 {
		t.Errorf("expected identical records collapsed to one, got %d", len(payments))
	}
}

func TestList_DuplicatesWithDifferingEnrichmentAreKept(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()

	duplicate := &domain.Payment{ID: "pay-1", OrderID: 5, Status: domain.PaymentStatusNotStarted}
	paymentRepo.GetAllResult = []*domain.Payment{duplicate, duplicate}

	gateway.AddOrder(&domain.OrderSummary{ID: 5, Status: domain.OrderStatusOrdered})
	// First lookup succeeds, second fails: one copy enriched, one not.
	gateway.FailGetOrderAfter = 1

	paymentService := service.NewPaymentService(paymentRepo, gateway, NewMockMetrics(), nil)

	payments, err := paymentService.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(payments) != 2 {
		t.Fatalf("expected records with differing enrichment kept distinct, got %d", len(payments))
	}
	if payments[0].Order == nil || payments[1].Order != nil {
		t.Error("expected the first copy enriched and the second unenriched")
	}
}

func TestList_UsesCachedOrderSnapshots(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()
	cache := NewMockOrderCache()

	paymentRepo.AddPayment(&domain.Payment{ID: "pay-1", OrderID: 3, Status: domain.PaymentStatusNotStarted})
	cache.AddOrder(&domain.OrderSummary{ID: 3, Status: domain.OrderStatusOrdered})

	paymentService := service.NewPaymentService(paymentRepo, gateway, NewMockMetrics(), cache)

	payments, err := paymentService.List(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(payments) != 1 || payments[0].Order == nil {
		t.Fatal("expected the payment enriched from cache")
	}
	if gateway.GetOrderCallCount != 0 {
		t.Error("expected no gateway call on a cache hit")
	}
}

func TestList_FillsCacheOnMiss(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()
	cache := NewMockOrderCache()

	paymentRepo.AddPayment(&domain.Payment{ID: "pay-1", OrderID: 3, Status: domain.PaymentStatusNotStarted})
	gateway.AddOrder(&domain.OrderSummary{ID: 3, Status: domain.OrderStatusOrdered})

	paymentService := service.NewPaymentService(paymentRepo, gateway, NewMockMetrics(), cache)

	if _, err := paymentService.List(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gateway.GetOrderCallCount != 1 {
		t.Errorf("expected one gateway call, got %d", gateway.GetOrderCallCount)
	}
	if cache.SetCallCount != 1 {
		t.Errorf("expected the fetched snapshot cached, got %d sets", cache.SetCallCount)
	}
}

func TestGet_StrictEnrichment_OrderMissing(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()

	paymentRepo.AddPayment(&domain.Payment{ID: "pay-1", OrderID: 4, Status: domain.PaymentStatusNotStarted})

	paymentService := service.NewPaymentService(paymentRepo, gateway, NewMockMetrics(), nil)

	_, err := paymentService.Get(context.Background(), "pay-1")
	if !errors.Is(err, orderclient.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestGet_StrictEnrichment_CommunicationError(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()

	paymentRepo.AddPayment(&domain.Payment{ID: "pay-1", OrderID: 4, Status: domain.PaymentStatusNotStarted})
	gateway.GetOrderError = fmt.Errorf("%w: timeout", orderclient.ErrUnavailable)

	paymentService := service.NewPaymentService(paymentRepo, gateway, NewMockMetrics(), nil)

	_, err := paymentService.Get(context.Background(), "pay-1")
	if !errors.Is(err, service.ErrOrderService) {
		t.Fatalf("expected ErrOrderService, got %v", err)
	}
}

func TestGet_UnknownPayment(t *testing.T) {
	t.Parallel()

	paymentService := service.NewPaymentService(NewMockPaymentRepository(), NewMockOrderGateway(), NewMockMetrics(), nil)

	_, err := paymentService.Get(context.Background(), "missing")
	if !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
