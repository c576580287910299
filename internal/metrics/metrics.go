package metrics

import (
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/IngesoftV-backend-microservices/payment-service/internal/domain"
)

// Recorder records payment business metrics.
type Recorder interface {
	// RecordAttempt records one payment creation tagged with its resulting status.
	RecordAttempt(status domain.PaymentStatus)

	// RecordSuccess records one payment reaching COMPLETED.
	RecordSuccess()

	// RecordFailure records one payment reaching CANCELED.
	RecordFailure()

	// RecordStatusChange records a status transition: the per-status count
	// of the old status goes down, the new status goes up. Entering
	// COMPLETED or CANCELED for the first time also records a success or
	// failure, exactly once.
	RecordStatusChange(oldStatus, newStatus domain.PaymentStatus)

	// StartTimer begins a processing-duration measurement.
	StartTimer() *Sample

	// StopTimer records the elapsed duration for a started measurement.
	StopTimer(sample *Sample)
}

// Sample marks the start of a timed payment-processing span.
type Sample struct {
	start time.Time
}

// Metric names reported through the agent.
const (
	metricAttempts   = "Custom/Payments/Attempts"
	metricSuccessful = "Custom/Payments/Successful"
	metricFailed     = "Custom/Payments/Failed"
	metricByStatus   = "Custom/Payments/Status/" // suffixed with the status name
	metricDuration   = "Custom/Payments/ProcessingDurationMs"
)

// PaymentMetrics reports business counters through the New Relic agent.
// A nil application degrades every method to a no-op, so wiring does not
// depend on the agent being enabled. All counters are registered at
// construction time; call sites never initialize anything.
type PaymentMetrics struct {
	app *newrelic.Application
}

// NewPaymentMetrics creates a PaymentMetrics over the given application.
// app may be nil.
func NewPaymentMetrics(app *newrelic.Application) *PaymentMetrics {
	return &PaymentMetrics{app: app}
}

var _ Recorder = (*PaymentMetrics)(nil)

// RecordAttempt records one payment creation tagged with its resulting status.
func (m *PaymentMetrics) RecordAttempt(status domain.PaymentStatus) {
	if m.app == nil {
		return
	}
	m.app.RecordCustomMetric(metricAttempts, 1)
	m.app.RecordCustomMetric(metricByStatus+string(status), 1)
	m.app.RecordCustomEvent("PaymentAttempt", map[string]any{
		"status": string(status),
	})
}

// RecordSuccess records one payment reaching COMPLETED.
func (m *PaymentMetrics) RecordSuccess() {
	if m.app == nil {
		return
	}
	m.app.RecordCustomMetric(metricSuccessful, 1)
}

// RecordFailure records one payment reaching CANCELED.
func (m *PaymentMetrics) RecordFailure() {
	if m.app == nil {
		return
	}
	m.app.RecordCustomMetric(metricFailed, 1)
}

// RecordStatusChange records a status transition. The success/failure
// counters only move when the new status is terminal and the old status was
// not already that same terminal status, so re-recording a payment already
// in a terminal state never double-counts.
func (m *PaymentMetrics) RecordStatusChange(oldStatus, newStatus domain.PaymentStatus) {
	if m.app != nil {
		m.app.RecordCustomMetric(metricByStatus+string(oldStatus), -1)
		m.app.RecordCustomMetric(metricByStatus+string(newStatus), 1)
		m.app.RecordCustomEvent("PaymentStatusChange", map[string]any{
			"from": string(oldStatus),
			"to":   string(newStatus),
		})
	}

	if newStatus == domain.PaymentStatusCompleted && oldStatus != domain.PaymentStatusCompleted {
		m.RecordSuccess()
	}
	if newStatus == domain.PaymentStatusCanceled && oldStatus != domain.PaymentStatusCanceled {
		m.RecordFailure()
	}
}

// StartTimer begins a processing-duration measurement.
func (m *PaymentMetrics) StartTimer() *Sample {
	return &Sample{start: time.Now()}
}

// StopTimer records the elapsed duration for a started measurement.
func (m *PaymentMetrics) StopTimer(sample *Sample) {
	if sample == nil || m.app == nil {
		return
	}
	elapsed := time.Since(sample.start)
	m.app.RecordCustomMetric(metricDuration, float64(elapsed.Milliseconds()))
}
