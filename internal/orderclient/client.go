package orderclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/IngesoftV-backend-microservices/payment-service/internal/domain"
)

var (
	// ErrOrderNotFound is returned when the order service reports that the
	// requested order does not exist.
	ErrOrderNotFound = errors.New("order not found")

	// ErrUnavailable is returned when the order service could not be reached
	// or answered with an unexpected failure. It always wraps the cause.
	ErrUnavailable = errors.New("order service unavailable")
)

// Client is an HTTP client for the order service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a new order service client. baseURL is the orders resource
// root, e.g. "http://order-service:8300/order-service/api/orders".
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// orderResponse mirrors the order service's wire representation.
type orderResponse struct {
	OrderID     int64   `json:"orderId"`
	OrderStatus string  `json:"orderStatus"`
	OrderFee    float64 `json:"orderFee"`
}

// GetOrder fetches the current snapshot of an order.
func (c *Client) GetOrder(ctx context.Context, orderID int64) (*domain.OrderSummary, error) {
	url := fmt.Sprintf("%s/%d", c.baseURL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: order %d", ErrOrderNotFound, orderID)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: unexpected status %d fetching order %d", ErrUnavailable, resp.StatusCode, orderID)
	}

	var dto orderResponse
	if err := json.NewDecoder(resp.Body).Decode(&dto); err != nil {
		return nil, fmt.Errorf("%w: decoding order %d: %w", ErrUnavailable, orderID, err)
	}

	return &domain.OrderSummary{
		ID:     dto.OrderID,
		Status: dto.OrderStatus,
		Fee:    dto.OrderFee,
	}, nil
}

// AdvanceStatus asks the order service to move an order to its next status.
func (c *Client) AdvanceStatus(ctx context.Context, orderID int64) error {
	url := fmt.Sprintf("%s/%d/status", c.baseURL, orderID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	// Drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: unexpected status %d advancing order %d", ErrUnavailable, resp.StatusCode, orderID)
	}

	return nil
}

// do executes the request inside a New Relic external segment when a
// transaction is present in the context.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	seg := newrelic.StartExternalSegment(newrelic.FromContext(ctx), req)
	resp, err := c.http.Do(req)
	seg.Response = resp
	seg.End()
	return resp, err
}
