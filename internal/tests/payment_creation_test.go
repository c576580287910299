package tests

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/IngesoftV-backend-microservices/payment-service/internal/domain"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/orderclient"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/service"
)

// ──────────────────────────────────────────────
// 2. PAYMENT CREATION
// ──────────────────────────────────────────────

func TestCreate_OrderedOrder_PersistsAndAdvancesOrder(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()
	m := NewMockMetrics()

	gateway.AddOrder(&domain.OrderSummary{ID: 55, Status: domain.OrderStatusOrdered, Fee: 120.50})

	paymentService := service.NewPaymentService(paymentRepo, gateway, m, nil)

	created, err := paymentService.Create(context.Background(), &domain.Payment{OrderID: 55})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if created.Status != domain.PaymentStatusNotStarted {
		t.Errorf("expected status %s, got %s", domain.PaymentStatusNotStarted, created.Status)
	}
	if created.IsPaid {
		t.Error("expected is_paid false for a NOT_STARTED payment")
	}
	if created.ID == "" {
		t.Error("expected an assigned payment id")
	}
	if created.Order == nil || created.Order.ID != 55 {
		t.Error("expected the returned payment to carry the order snapshot")
	}

	// Persisted in the store.
	if paymentRepo.CountPayments() != 1 {
		t.Errorf("expected 1 stored payment, got %d", paymentRepo.CountPayments())
	}

	// Order advanced exactly once, for order 55.
	advanced := gateway.AdvancedOrders()
	if len(advanced) != 1 || advanced[0] != 55 {
		t.Errorf("expected one order advance for order 55, got %v", advanced)
	}

	// One attempt tagged NOT_STARTED, no success/failure.
	attempts := m.Attempts()
	if len(attempts) != 1 || attempts[0] != domain.PaymentStatusNotStarted {
		t.Errorf("expected one NOT_STARTED attempt, got %v", attempts)
	}
	if m.SuccessCount != 0 || m.FailureCount != 0 {
		t.Errorf("expected no success/failure events, got %d/%d", m.SuccessCount, m.FailureCount)
	}
	if m.TimersStarted != 1 || m.TimersStopped != 1 {
		t.Errorf("expected timer started and stopped once, got %d/%d", m.TimersStarted, m.TimersStopped)
	}
}

func TestCreate_OrderNotOrdered_FailsBeforeAnyWrite(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()
	m := NewMockMetrics()

	gateway.AddOrder(&domain.OrderSummary{ID: 77, Status: "CREATED"})

	paymentService := service.NewPaymentService(paymentRepo, gateway, m, nil)

	_, err := paymentService.Create(context.Background(), &domain.Payment{OrderID: 77})
	if !errors.Is(err, service.ErrInvalidOrderStatus) {
		t.Fatalf("expected ErrInvalidOrderStatus, got %v", err)
	}

	if paymentRepo.CreateCallCount != 0 {
		t.Error("expected no store write")
	}
	if gateway.AdvanceCallCount != 0 {
		t.Error("expected no order advance")
	}
	if len(m.Attempts()) != 0 || m.SuccessCount != 0 || m.FailureCount != 0 {
		t.Error("expected no business metrics on a refused create")
	}
	// The processing timer still runs across the failed exit path.
	if m.TimersStarted != 1 || m.TimersStopped != 1 {
		t.Errorf("expected timer started and stopped once, got %d/%d", m.TimersStarted, m.TimersStopped)
	}
}

func TestCreate_OrderLookupCommunicationError(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()
	m := NewMockMetrics()

	gateway.GetOrderError = fmt.Errorf("%w: connection refused", orderclient.ErrUnavailable)

	paymentService := service.NewPaymentService(paymentRepo, gateway, m, nil)

	_, err := paymentService.Create(context.Background(), &domain.Payment{OrderID: 88})
	if !errors.Is(err, service.ErrOrderService) {
		t.Fatalf("expected ErrOrderService, got %v", err)
	}

	if paymentRepo.CreateCallCount != 0 {
		t.Error("expected no store write")
	}
	if m.TimersStopped != 1 {
		t.Error("expected the processing timer to stop on the error path")
	}
}

func TestCreate_MissingOrderID(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()
	m := NewMockMetrics()

	paymentService := service.NewPaymentService(paymentRepo, gateway, m, nil)

	_, err := paymentService.Create(context.Background(), &domain.Payment{})
	if !errors.Is(err, service.ErrOrderIDRequired) {
		t.Fatalf("expected ErrOrderIDRequired, got %v", err)
	}

	if gateway.GetOrderCallCount != 0 {
		t.Error("expected no order lookup for a payment without an order id")
	}
}

func TestCreate_OrderMissing(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()
	m := NewMockMetrics()

	paymentService := service.NewPaymentService(paymentRepo, gateway, m, nil)

	_, err := paymentService.Create(context.Background(), &domain.Payment{OrderID: 99})
	if !errors.Is(err, orderclient.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
	if paymentRepo.CreateCallCount != 0 {
		t.Error("expected no store write")
	}
}

func TestCreate_OrderAdvanceFails_PaymentStaysSaved(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()
	m := NewMockMetrics()

	gateway.AddOrder(&domain.OrderSummary{ID: 55, Status: domain.OrderStatusOrdered})
	gateway.AdvanceError = fmt.Errorf("%w: timeout", orderclient.ErrUnavailable)

	paymentService := service.NewPaymentService(paymentRepo, gateway, m, nil)

	_, err := paymentService.Create(context.Background(), &domain.Payment{OrderID: 55})
	if !errors.Is(err, service.ErrOrderService) {
		t.Fatalf("expected ErrOrderService, got %v", err)
	}

	// The two-system write is not atomic: the payment row survives the
	// failed order advance and the caller reconciles from the error.
	if paymentRepo.CountPayments() != 1 {
		t.Errorf("expected the payment to remain saved, got %d payments", paymentRepo.CountPayments())
	}

	// The create did not complete, so no attempt is recorded.
	if len(m.Attempts()) != 0 {
		t.Errorf("expected no attempt event, got %v", m.Attempts())
	}
	if m.TimersStopped != 1 {
		t.Error("expected the processing timer to stop on the error path")
	}
}

func TestCreate_DirectlyCompleted_RecordsSuccessOnce(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()
	m := NewMockMetrics()

	gateway.AddOrder(&domain.OrderSummary{ID: 12, Status: domain.OrderStatusOrdered})

	paymentService := service.NewPaymentService(paymentRepo, gateway, m, nil)

	created, err := paymentService.Create(context.Background(), &domain.Payment{
		OrderID: 12,
		Status:  domain.PaymentStatusCompleted,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !created.IsPaid {
		t.Error("expected is_paid true for a COMPLETED payment")
	}

	attempts := m.Attempts()
	if len(attempts) != 1 || attempts[0] != domain.PaymentStatusCompleted {
		t.Errorf("expected one COMPLETED attempt, got %v", attempts)
	}
	if m.SuccessCount != 1 {
		t.Errorf("expected exactly one success event, got %d", m.SuccessCount)
	}
	if m.FailureCount != 0 {
		t.Errorf("expected no failure events, got %d", m.FailureCount)
	}
}

func TestCreate_UnknownStartingStatus_Rejected(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()

	gateway.AddOrder(&domain.OrderSummary{ID: 21, Status: domain.OrderStatusOrdered})

	paymentService := service.NewPaymentService(paymentRepo, gateway, NewMockMetrics(), nil)

	_, err := paymentService.Create(context.Background(), &domain.Payment{
		OrderID: 21,
		Status:  domain.PaymentStatus("REFUNDED"),
	})
	if !errors.Is(err, domain.ErrUnknownPaymentStatus) {
		t.Fatalf("expected ErrUnknownPaymentStatus, got %v", err)
	}
	if paymentRepo.CreateCallCount != 0 {
		t.Error("expected no store write")
	}
}

func TestCreate_ThenGet_RoundTrip(t *testing.T) {
	t.Parallel()

	paymentRepo := NewMockPaymentRepository()
	gateway := NewMockOrderGateway()
	m := NewMockMetrics()

	gateway.AddOrder(&domain.OrderSummary{ID: 7, Status: domain.OrderStatusOrdered, Fee: 42})

	paymentService := service.NewPaymentService(paymentRepo, gateway, m, nil)

	created, err := paymentService.Create(context.Background(), &domain.Payment{OrderID: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got, err := paymentService.Get(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got.OrderID != 7 {
		t.Errorf("expected order id 7, got %d", got.OrderID)
	}
	if got.Status != domain.PaymentStatusNotStarted {
		t.Errorf("expected status %s, got %s", domain.PaymentStatusNotStarted, got.Status)
	}
	if got.Order == nil || got.Order.Fee != 42 {
		t.Error("expected the fetched payment to be enriched with the order snapshot")
	}
}
