package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IngesoftV-backend-microservices/payment-service/internal/domain"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/orderclient"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/repository"
	"github.com/IngesoftV-backend-microservices/payment-service/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, orderclient.ErrOrderNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrOrderIDRequired),
		errors.Is(err, service.ErrInvalidOrderStatus):
		return http.StatusBadRequest

	// Lifecycle conflicts
	case errors.Is(err, domain.ErrPaymentAlreadyCompleted),
		errors.Is(err, domain.ErrPaymentAlreadyCanceled),
		errors.Is(err, domain.ErrUnknownPaymentStatus),
		errors.Is(err, repository.ErrStatusConflict):
		return http.StatusConflict

	// Order service unreachable
	case errors.Is(err, service.ErrOrderService),
		errors.Is(err, orderclient.ErrUnavailable):
		return http.StatusBadGateway

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
