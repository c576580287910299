package domain

// PaymentStatus represents the current status of a payment.
//
// The set of statuses is closed: NOT_STARTED and IN_PROGRESS are live,
// COMPLETED and CANCELED are terminal.
type PaymentStatus string

const (
	PaymentStatusNotStarted PaymentStatus = "NOT_STARTED"
	PaymentStatusInProgress PaymentStatus = "IN_PROGRESS"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusCanceled   PaymentStatus = "CANCELED"
)

// IsTerminal reports whether no further lifecycle transition is permitted.
func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusCanceled
}

// Valid reports whether s belongs to the closed status set.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusNotStarted, PaymentStatusInProgress, PaymentStatusCompleted, PaymentStatusCanceled:
		return true
	}
	return false
}

// OrderStatusOrdered is the only order status eligible for payment creation.
// The order status vocabulary is owned by the order service.
const OrderStatusOrdered = "ORDERED"

// Payment tracks the settlement state of one order's payment.
type Payment struct {
	ID      string
	OrderID int64
	Status  PaymentStatus

	// IsPaid is persisted alongside Status and is always written as the
	// projection status == COMPLETED. It is never set independently.
	IsPaid bool

	// Order is the last-observed snapshot of the associated order,
	// attached on reads. It is not persisted with the payment.
	Order *OrderSummary
}

// OrderSummary is a read-only snapshot of an order owned by the order
// service. Any decision based on it is a point-in-time check, not a lock.
type OrderSummary struct {
	ID     int64
	Status string
	Fee    float64
}
