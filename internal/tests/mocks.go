package tests

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/IngesoftV-backend-microservices/payment-service/internal/domain"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/metrics"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/orderclient"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/repository"
)

// ──────────────────────────────────────────────
// MOCK PAYMENT REPOSITORY
// ──────────────────────────────────────────────

// MockPaymentRepository is a mock implementation of PaymentRepository.
type MockPaymentRepository struct {
	mu       sync.RWMutex
	payments map[string]*domain.Payment

	// Counters for verification
	CreateCallCount       int32
	UpdateStatusCallCount int32

	// Error injection
	CreateError       error
	GetAllError       error
	UpdateStatusError error

	// GetAllResult, when set, is returned verbatim by GetAll. Lets tests
	// control ordering and feed duplicate records.
	GetAllResult []*domain.Payment
}

// NewMockPaymentRepository creates a new mock payment repository.
func NewMockPaymentRepository() *MockPaymentRepository {
	return &MockPaymentRepository{
		payments: make(map[string]*domain.Payment),
	}
}

// AddPayment adds a payment to the mock repository.
func (m *MockPaymentRepository) AddPayment(payment *domain.Payment) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
}

func (m *MockPaymentRepository) Create(ctx context.Context, payment *domain.Payment) error {
	atomic.AddInt32(&m.CreateCallCount, 1)
	if m.CreateError != nil {
		return m.CreateError
	}
	if payment.ID == "" {
		payment.ID = uuid.New().String()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments[payment.ID] = payment
	return nil
}

func (m *MockPaymentRepository) GetByID(ctx context.Context, id string) (*domain.Payment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	payment, ok := m.payments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	// Return a copy to avoid mutation issues.
	copy := *payment
	return &copy, nil
}

func (m *MockPaymentRepository) GetAll(ctx context.Context) ([]*domain.Payment, error) {
	if m.GetAllError != nil {
		return nil, m.GetAllError
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.GetAllResult != nil {
		result := make([]*domain.Payment, 0, len(m.GetAllResult))
		for _, p := range m.GetAllResult {
			copy := *p
			result = append(result, &copy)
		}
		return result, nil
	}
	result := make([]*domain.Payment, 0, len(m.payments))
	for _, p := range m.payments {
		copy := *p
		result = append(result, &copy)
	}
	return result, nil
}

func (m *MockPaymentRepository) UpdateStatus(ctx context.Context, id string, from, to domain.PaymentStatus, isPaid bool) error {
	atomic.AddInt32(&m.UpdateStatusCallCount, 1)
	if m.UpdateStatusError != nil {
		return m.UpdateStatusError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	payment, ok := m.payments[id]
	if !ok {
		return repository.ErrNotFound
	}
	if payment.Status != from {
		return repository.ErrStatusConflict
	}
	payment.Status = to
	payment.IsPaid = isPaid
	return nil
}

// GetPayment returns the payment by ID (for test assertions).
func (m *MockPaymentRepository) GetPayment(id string) *domain.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.payments[id]
}

// CountPayments returns the number of stored payments.
func (m *MockPaymentRepository) CountPayments() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.payments)
}

// ──────────────────────────────────────────────
// MOCK ORDER GATEWAY
// ──────────────────────────────────────────────

// MockOrderGateway is a mock implementation of the order service gateway.
type MockOrderGateway struct {
	mu     sync.RWMutex
	orders map[int64]*domain.OrderSummary

	// Counters for verification
	GetOrderCallCount int32
	AdvanceCallCount  int32

	// Error injection
	GetOrderError error
	AdvanceError  error

	// FailGetOrderAfter, when positive, makes GetOrder fail with a
	// communication error once that many calls have succeeded.
	FailGetOrderAfter int32

	// AdvancedOrders records the order ids passed to AdvanceStatus.
	advancedOrders []int64
}

// NewMockOrderGateway creates a new mock order gateway.
func NewMockOrderGateway() *MockOrderGateway {
	return &MockOrderGateway{
		orders: make(map[int64]*domain.OrderSummary),
	}
}

// AddOrder adds an order snapshot to the mock gateway.
func (m *MockOrderGateway) AddOrder(order *domain.OrderSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
}

func (m *MockOrderGateway) GetOrder(ctx context.Context, orderID int64) (*domain.OrderSummary, error) {
	calls := atomic.AddInt32(&m.GetOrderCallCount, 1)
	if m.GetOrderError != nil {
		return nil, m.GetOrderError
	}
	if m.FailGetOrderAfter > 0 && calls > m.FailGetOrderAfter {
		return nil, fmt.Errorf("%w: connection refused", orderclient.ErrUnavailable)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[orderID]
	if !ok {
		return nil, fmt.Errorf("%w: order %d", orderclient.ErrOrderNotFound, orderID)
	}
	copy := *order
	return &copy, nil
}

func (m *MockOrderGateway) AdvanceStatus(ctx context.Context, orderID int64) error {
	atomic.AddInt32(&m.AdvanceCallCount, 1)
	if m.AdvanceError != nil {
		return m.AdvanceError
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.advancedOrders = append(m.advancedOrders, orderID)
	return nil
}

// AdvancedOrders returns the order ids advanced so far.
func (m *MockOrderGateway) AdvancedOrders() []int64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]int64(nil), m.advancedOrders...)
}

// ──────────────────────────────────────────────
// MOCK METRICS RECORDER
// ──────────────────────────────────────────────

// statusChange captures one recorded transition.
type statusChange struct {
	From domain.PaymentStatus
	To   domain.PaymentStatus
}

// MockMetrics is a mock implementation of metrics.Recorder that counts
// every recorded event. RecordStatusChange applies the same first-entry
// rule as the real recorder so success/failure counts can be asserted.
type MockMetrics struct {
	mu            sync.Mutex
	attempts      []domain.PaymentStatus
	statusChanges []statusChange

	SuccessCount  int32
	FailureCount  int32
	TimersStarted int32
	TimersStopped int32
}

// NewMockMetrics creates a new mock metrics recorder.
func NewMockMetrics() *MockMetrics {
	return &MockMetrics{}
}

var _ metrics.Recorder = (*MockMetrics)(nil)

func (m *MockMetrics) RecordAttempt(status domain.PaymentStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts = append(m.attempts, status)
}

func (m *MockMetrics) RecordSuccess() {
	atomic.AddInt32(&m.SuccessCount, 1)
}

func (m *MockMetrics) RecordFailure() {
	atomic.AddInt32(&m.FailureCount, 1)
}

func (m *MockMetrics) RecordStatusChange(oldStatus, newStatus domain.PaymentStatus) {
	m.mu.Lock()
	m.statusChanges = append(m.statusChanges, statusChange{From: oldStatus, To: newStatus})
	m.mu.Unlock()

	if newStatus == domain.PaymentStatusCompleted && oldStatus != domain.PaymentStatusCompleted {
		m.RecordSuccess()
	}
	if newStatus == domain.PaymentStatusCanceled && oldStatus != domain.PaymentStatusCanceled {
		m.RecordFailure()
	}
}

func (m *MockMetrics) StartTimer() *metrics.Sample {
	atomic.AddInt32(&m.TimersStarted, 1)
	return &metrics.Sample{}
}

func (m *MockMetrics) StopTimer(sample *metrics.Sample) {
	atomic.AddInt32(&m.TimersStopped, 1)
}

// Attempts returns the recorded attempt statuses.
func (m *MockMetrics) Attempts() []domain.PaymentStatus {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.PaymentStatus(nil), m.attempts...)
}

// StatusChanges returns the recorded transitions.
func (m *MockMetrics) StatusChanges() []statusChange {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]statusChange(nil), m.statusChanges...)
}

// ──────────────────────────────────────────────
// MOCK ORDER CACHE
// ──────────────────────────────────────────────

// MockOrderCache is a mock implementation of the order snapshot cache.
type MockOrderCache struct {
	mu     sync.RWMutex
	orders map[int64]*domain.OrderSummary

	// Counters for verification
	GetCallCount        int32
	SetCallCount        int32
	InvalidateCallCount int32
}

// NewMockOrderCache creates a new mock order cache.
func NewMockOrderCache() *MockOrderCache {
	return &MockOrderCache{
		orders: make(map[int64]*domain.OrderSummary),
	}
}

// AddOrder seeds a cached order snapshot.
func (m *MockOrderCache) AddOrder(order *domain.OrderSummary) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
}

func (m *MockOrderCache) GetOrder(ctx context.Context, orderID int64) (*domain.OrderSummary, error) {
	atomic.AddInt32(&m.GetCallCount, 1)
	m.mu.RLock()
	defer m.mu.RUnlock()
	order, ok := m.orders[orderID]
	if !ok {
		return nil, nil
	}
	copy := *order
	return &copy, nil
}

func (m *MockOrderCache) SetOrder(ctx context.Context, order *domain.OrderSummary) error {
	atomic.AddInt32(&m.SetCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders[order.ID] = order
	return nil
}

func (m *MockOrderCache) InvalidateOrder(ctx context.Context, orderID int64) error {
	atomic.AddInt32(&m.InvalidateCallCount, 1)
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.orders, orderID)
	return nil
}
