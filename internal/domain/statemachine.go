package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPaymentAlreadyCompleted is returned when a lifecycle move is requested
	// on a payment that has already completed.
	ErrPaymentAlreadyCompleted = errors.New("payment already completed")

	// ErrPaymentAlreadyCanceled is returned when a lifecycle move is requested
	// on a payment that has already been canceled.
	ErrPaymentAlreadyCanceled = errors.New("payment already canceled")

	// ErrUnknownPaymentStatus is returned when a persisted status value falls
	// outside the closed status set.
	ErrUnknownPaymentStatus = errors.New("unknown payment status")
)

// NextStatus returns the status that follows cur in the payment lifecycle:
// NOT_STARTED moves to IN_PROGRESS, IN_PROGRESS moves to COMPLETED.
// Terminal statuses admit no further transition.
//
// The switch is exhaustive over the closed status set. Adding a status must
// extend it; there is no default branch that silently accepts new values.
func NextStatus(cur PaymentStatus) (PaymentStatus, error) {
	switch cur {
	case PaymentStatusNotStarted:
		return PaymentStatusInProgress, nil
	case PaymentStatusInProgress:
		return PaymentStatusCompleted, nil
	case PaymentStatusCompleted:
		return "", ErrPaymentAlreadyCompleted
	case PaymentStatusCanceled:
		return "", ErrPaymentAlreadyCanceled
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPaymentStatus, cur)
}

// CanCancel reports whether a payment in status cur may be canceled.
// It returns nil for NOT_STARTED and IN_PROGRESS, and the specific
// refusal reason otherwise.
func CanCancel(cur PaymentStatus) error {
	switch cur {
	case PaymentStatusNotStarted, PaymentStatusInProgress:
		return nil
	case PaymentStatusCompleted:
		return ErrPaymentAlreadyCompleted
	case PaymentStatusCanceled:
		return ErrPaymentAlreadyCanceled
	}
	return fmt.Errorf("%w: %q", ErrUnknownPaymentStatus, cur)
}
