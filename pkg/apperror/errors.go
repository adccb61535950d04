package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Authentication & Identity (AUTH) ----

func ErrInvalidToken() *AppError {
	return New("AUTH_001", "Invalid or missing token", http.StatusUnauthorized)
}

func ErrForbidden() *AppError {
	return New("AUTH_002", "Authenticated identity does not match requested resource", http.StatusForbidden)
}

// ---- Shipping Business Logic (SHIP) ----

func ErrParcelNotFound() *AppError {
	return New("SHIP_001", "Parcel not found", http.StatusNotFound)
}

func ErrInvalidInput(message string) *AppError {
	return New("SHIP_002", message, http.StatusBadRequest)
}

// ---- Payment Reconciliation (PAY) ----

func ErrPaymentNotFound() *AppError {
	return New("PAY_001", "Payment record not found", http.StatusNotFound)
}

// ErrSessionNotPaid is the explicit "still pending" outcome: the checkout
// session exists but the processor has not marked it paid.
func ErrSessionNotPaid() *AppError {
	return New("PAY_002", "Payment session is not paid yet", http.StatusPaymentRequired)
}

func ErrDuplicateTransaction() *AppError {
	return New("PAY_003", "Transaction already reconciled", http.StatusConflict)
}

// ---- External Services (EXT) ----

func ErrPaymentProcessor(err error) *AppError {
	return Wrap("EXT_001", "Payment processor error", http.StatusBadGateway, err)
}

// ---- Security (SEC) ----

func ErrInvalidSignature() *AppError {
	return New("SEC_001", "Invalid webhook signature", http.StatusUnauthorized)
}

// ---- Rate Limiting (RATE) ----

func ErrRateLimitExceeded() *AppError {
	return New("RATE_001", "Rate limit exceeded", http.StatusTooManyRequests)
}

// ---- System & Infrastructure (SYS) ----

func ErrStoreUnavailable(err error) *AppError {
	return Wrap("SYS_001", "Internal storage error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a SHIP_002-style validation error.
func Validation(message string) *AppError {
	return New("SHIP_002", message, http.StatusBadRequest)
}
