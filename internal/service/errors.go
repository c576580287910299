package service

import "errors"

var (
	// ErrOrderIDRequired is returned when a payment is created without an order id.
	ErrOrderIDRequired = errors.New("order id is required")

	// ErrInvalidOrderStatus is returned when the referenced order exists but is
	// not in a status that accepts a payment. The wrapped message carries the
	// offending status.
	ErrInvalidOrderStatus = errors.New("invalid order status")

	// ErrOrderService is returned when communication with the order service
	// fails for any reason other than the order not existing. It always wraps
	// the underlying cause.
	ErrOrderService = errors.New("order service communication failed")
)
