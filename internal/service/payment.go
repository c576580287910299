package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/IngesoftV-backend-microservices/payment-service/internal/domain"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/metrics"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/orderclient"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/repository"
)

// OrderGateway is the interface to the order service.
type OrderGateway interface {
	// GetOrder fetches the current snapshot of an order.
	GetOrder(ctx context.Context, orderID int64) (*domain.OrderSummary, error)

	// AdvanceStatus asks the order service to move an order to its next status.
	AdvanceStatus(ctx context.Context, orderID int64) error
}

// OrderCache caches last-observed order snapshots for best-effort reads.
type OrderCache interface {
	GetOrder(ctx context.Context, orderID int64) (*domain.OrderSummary, error)
	SetOrder(ctx context.Context, order *domain.OrderSummary) error
	InvalidateOrder(ctx context.Context, orderID int64) error
}

// PaymentService owns the payment lifecycle: it validates transitions,
// persists payments, keeps the associated order in step, and records
// business metrics for every state change.
type PaymentService struct {
	paymentRepo repository.PaymentRepository
	orders      OrderGateway
	metrics     metrics.Recorder
	orderCache  OrderCache
}

// NewPaymentService creates a new PaymentService. orderCache may be nil, in
// which case best-effort enrichment always goes to the order service.
func NewPaymentService(
	paymentRepo repository.PaymentRepository,
	orders OrderGateway,
	recorder metrics.Recorder,
	orderCache OrderCache,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		orders:      orders,
		metrics:     recorder,
		orderCache:  orderCache,
	}
}

// enrichPolicy selects how enrichment failures are handled.
type enrichPolicy int

const (
	// enrichBestEffort returns the payment unenriched when the order cannot
	// be fetched. Failures are logged, never raised.
	enrichBestEffort enrichPolicy = iota

	// enrichStrict propagates enrichment failures: a missing order surfaces
	// as not-found, anything else as an order service error.
	enrichStrict
)

// List returns every payment, each enriched best-effort with its order
// snapshot. A failed order lookup leaves that payment unenriched but still
// returned. Duplicates are removed after enrichment by full record equality,
// so two otherwise identical payments with differing enrichment stay distinct.
func (s *PaymentService) List(ctx context.Context) ([]*domain.Payment, error) {
	payments, err := s.paymentRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.Payment, 0, len(payments))
	seen := make(map[paymentKey]struct{}, len(payments))

	for _, payment := range payments {
		// Best-effort enrichment never fails.
		_ = s.enrich(ctx, payment, enrichBestEffort)

		key := keyOf(payment)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, payment)
	}

	return result, nil
}

// Get returns the payment with the given id, enriched with its order
// snapshot. Unlike List, enrichment here is strict: a targeted lookup must
// reflect accurate state or fail loudly.
func (s *PaymentService) Get(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.enrich(ctx, payment, enrichStrict); err != nil {
		return nil, err
	}

	return payment, nil
}

// Create validates that the referenced order exists and is in ORDERED
// status, persists the payment, and advances the order to its next status.
//
// The local save and the remote order advance are two systems with no shared
// transaction: if the advance fails the payment stays saved while the order
// is not moved, and the caller sees an order service error. No rollback or
// retry is attempted here.
func (s *PaymentService) Create(ctx context.Context, payment *domain.Payment) (*domain.Payment, error) {
	sample := s.metrics.StartTimer()
	defer s.metrics.StopTimer(sample)

	if payment.OrderID == 0 {
		return nil, ErrOrderIDRequired
	}

	order, err := s.verifyOrderEligibility(ctx, payment.OrderID)
	if err != nil {
		return nil, err
	}

	if payment.Status == "" {
		payment.Status = domain.PaymentStatusNotStarted
	}
	if !payment.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownPaymentStatus, payment.Status)
	}
	payment.IsPaid = payment.Status == domain.PaymentStatusCompleted

	if err := s.paymentRepo.Create(ctx, payment); err != nil {
		return nil, err
	}

	if err := s.orders.AdvanceStatus(ctx, payment.OrderID); err != nil {
		log.Printf("payment %s saved but order %d status update failed: %v", payment.ID, payment.OrderID, err)
		return nil, fmt.Errorf("%w: payment saved but order status update failed: %w", ErrOrderService, err)
	}

	if s.orderCache != nil {
		// The order just moved past ORDERED; drop any stale snapshot.
		_ = s.orderCache.InvalidateOrder(ctx, payment.OrderID)
	}

	// Reuse the snapshot from the eligibility check; no second remote read.
	payment.Order = order

	s.metrics.RecordAttempt(payment.Status)
	switch payment.Status {
	case domain.PaymentStatusCompleted:
		s.metrics.RecordSuccess()
	case domain.PaymentStatusCanceled:
		s.metrics.RecordFailure()
	}

	return payment, nil
}

// Advance moves a payment to the next status in its lifecycle. The write is
// a compare-and-swap against the status that was read, so of two concurrent
// calls only one wins; the loser gets a status conflict.
func (s *PaymentService) Advance(ctx context.Context, id string) (*domain.Payment, error) {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	oldStatus := payment.Status
	newStatus, err := domain.NextStatus(oldStatus)
	if err != nil {
		return nil, err
	}

	isPaid := newStatus == domain.PaymentStatusCompleted
	if err := s.paymentRepo.UpdateStatus(ctx, id, oldStatus, newStatus, isPaid); err != nil {
		return nil, err
	}

	payment.Status = newStatus
	payment.IsPaid = isPaid

	s.metrics.RecordStatusChange(oldStatus, newStatus)

	return payment, nil
}

// Cancel moves a payment to CANCELED if its current status permits it.
// Cancellation is a status transition, not a deletion, and it never touches
// the order service.
func (s *PaymentService) Cancel(ctx context.Context, id string) error {
	payment, err := s.paymentRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := domain.CanCancel(payment.Status); err != nil {
		return err
	}

	oldStatus := payment.Status
	if err := s.paymentRepo.UpdateStatus(ctx, id, oldStatus, domain.PaymentStatusCanceled, false); err != nil {
		return err
	}

	s.metrics.RecordStatusChange(oldStatus, domain.PaymentStatusCanceled)

	log.Printf("payment %s has been canceled", id)
	return nil
}

// verifyOrderEligibility checks that the referenced order exists and is in
// ORDERED status, returning its snapshot for later enrichment.
func (s *PaymentService) verifyOrderEligibility(ctx context.Context, orderID int64) (*domain.OrderSummary, error) {
	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, orderclient.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrOrderService, err)
	}

	if order.Status != domain.OrderStatusOrdered {
		return nil, fmt.Errorf("%w: cannot process payment for order with status %s", ErrInvalidOrderStatus, order.Status)
	}

	return order, nil
}

// enrich attaches the order snapshot to a payment under the given policy.
func (s *PaymentService) enrich(ctx context.Context, payment *domain.Payment, policy enrichPolicy) error {
	if policy == enrichBestEffort && s.orderCache != nil {
		cached, err := s.orderCache.GetOrder(ctx, payment.OrderID)
		if err == nil && cached != nil {
			payment.Order = cached
			return nil
		}
	}

	order, err := s.orders.GetOrder(ctx, payment.OrderID)
	if err != nil {
		if policy == enrichBestEffort {
			log.Printf("could not fetch order %d for payment %s: %v", payment.OrderID, payment.ID, err)
			return nil
		}
		if errors.Is(err, orderclient.ErrOrderNotFound) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrOrderService, err)
	}

	payment.Order = order

	if policy == enrichBestEffort && s.orderCache != nil {
		_ = s.orderCache.SetOrder(ctx, order)
	}

	return nil
}

// paymentKey is the comparable form of a fully enriched payment, used for
// de-duplication in List.
type paymentKey struct {
	id       string
	orderID  int64
	status   domain.PaymentStatus
	isPaid   bool
	enriched bool
	order    domain.OrderSummary
}

func keyOf(p *domain.Payment) paymentKey {
	key := paymentKey{
		id:      p.ID,
		orderID: p.OrderID,
		status:  p.Status,
		isPaid:  p.IsPaid,
	}
	if p.Order != nil {
		key.enriched = true
		key.order = *p.Order
	}
	return key
}
