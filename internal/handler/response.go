package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"voltfind/internal/booking"
	"voltfind/internal/repository"
	"voltfind/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	if code == http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps booking/service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound),
		errors.Is(err, service.ErrSessionClosed):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidSessionID),
		errors.Is(err, service.ErrInvalidChargerID),
		errors.Is(err, service.ErrInvalidFilter),
		errors.Is(err, service.ErrInvalidPaymentAmount),
		errors.Is(err, booking.ErrUnknownSlot),
		errors.Is(err, booking.ErrInvalidDuration):
		return http.StatusBadRequest

	// Inert controls - the request is well formed but not allowed right now
	case errors.Is(err, booking.ErrWrongStep),
		errors.Is(err, booking.ErrDateOutOfRange),
		errors.Is(err, booking.ErrDateRequired),
		errors.Is(err, booking.ErrTimeRequired),
		errors.Is(err, booking.ErrSlotUnavailable),
		errors.Is(err, booking.ErrSelectionIncomplete),
		errors.Is(err, booking.ErrPaymentNotStarted),
		errors.Is(err, booking.ErrPaymentInProgress),
		errors.Is(err, service.ErrSessionBusy),
		errors.Is(err, service.ErrBookingNotConfirmed),
		errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict

	case errors.Is(err, booking.ErrPaymentDetailsInvalid):
		return http.StatusUnprocessableEntity

	case errors.Is(err, service.ErrPaymentDeclined):
		return http.StatusPaymentRequired

	case errors.Is(err, booking.ErrPaymentAttemptsExceeded):
		return http.StatusTooManyRequests

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
