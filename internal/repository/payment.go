package repository

import (
	"context"

	"github.com/IngesoftV-backend-microservices/payment-service/internal/domain"
)

// PaymentRepository defines the persistence operations for payments.
type PaymentRepository interface {
	// Create persists a new payment, assigning an identifier if the
	// payment does not carry one.
	Create(ctx context.Context, payment *domain.Payment) error

	// GetByID retrieves a payment by ID.
	GetByID(ctx context.Context, id string) (*domain.Payment, error)

	// GetAll retrieves every payment.
	GetAll(ctx context.Context) ([]*domain.Payment, error)

	// UpdateStatus moves a payment from one status to another with a
	// compare-and-swap on the stored status: the write succeeds only if
	// the stored status still equals from. Returns ErrNotFound if the
	// payment does not exist and ErrStatusConflict if the status no
	// longer matches.
	UpdateStatus(ctx context.Context, id string, from, to domain.PaymentStatus, isPaid bool) error
}
