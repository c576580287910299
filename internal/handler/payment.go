package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IngesoftV-backend-microservices/payment-service/internal/domain"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/service"
)

// PaymentHandler handles HTTP requests for payments.
type PaymentHandler struct {
	paymentService *service.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// CreatePaymentRequest is the HTTP request body for creating a payment.
type CreatePaymentRequest struct {
	OrderID int64  `json:"order_id"`
	Status  string `json:"status,omitempty"`
}

// OrderSummaryResponse is the enrichment part of a payment response.
type OrderSummaryResponse struct {
	ID     int64   `json:"id"`
	Status string  `json:"status"`
	Fee    float64 `json:"fee"`
}

// PaymentResponse is the HTTP response for payment operations.
type PaymentResponse struct {
	ID      string                `json:"id"`
	OrderID int64                 `json:"order_id"`
	Status  string                `json:"status"`
	IsPaid  bool                  `json:"is_paid"`
	Order   *OrderSummaryResponse `json:"order,omitempty"`
}

func toPaymentResponse(p *domain.Payment) PaymentResponse {
	resp := PaymentResponse{
		ID:      p.ID,
		OrderID: p.OrderID,
		Status:  string(p.Status),
		IsPaid:  p.IsPaid,
	}
	if p.Order != nil {
		resp.Order = &OrderSummaryResponse{
			ID:     p.Order.ID,
			Status: p.Order.Status,
			Fee:    p.Order.Fee,
		}
	}
	return resp
}

// ListPayments handles GET /v1/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	payments, err := h.paymentService.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]PaymentResponse, 0, len(payments))
	for _, p := range payments {
		resp = append(resp, toPaymentResponse(p))
	}

	respondJSON(c, http.StatusOK, resp)
}

// GetPayment handles GET /v1/payments/:id
func (h *PaymentHandler) GetPayment(c *gin.Context) {
	paymentID := c.Param("id")

	payment, err := h.paymentService.Get(c.Request.Context(), paymentID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// CreatePayment handles POST /v1/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	payment := &domain.Payment{
		OrderID: req.OrderID,
		Status:  domain.PaymentStatus(req.Status),
	}

	created, err := h.paymentService.Create(c.Request.Context(), payment)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, toPaymentResponse(created))
}

// AdvancePayment handles PATCH /v1/payments/:id/status
func (h *PaymentHandler) AdvancePayment(c *gin.Context) {
	paymentID := c.Param("id")

	payment, err := h.paymentService.Advance(c.Request.Context(), paymentID)
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, toPaymentResponse(payment))
}

// CancelPayment handles DELETE /v1/payments/:id
func (h *PaymentHandler) CancelPayment(c *gin.Context) {
	paymentID := c.Param("id")

	if err := h.paymentService.Cancel(c.Request.Context(), paymentID); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
