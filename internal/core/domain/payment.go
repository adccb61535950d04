package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrDuplicateTransaction is returned by the payment ledger on an insert that
// violates the transaction-reference uniqueness constraint. The reconciliation
// engine treats it as "already reconciled", not as a failure.
var ErrDuplicateTransaction = errors.New("duplicate transaction reference")

// Checkout session payment states as reported by the processor.
const (
	SessionStatusPaid   = "paid"
	SessionStatusUnpaid = "unpaid"
)

// PaymentSession is the processor's view of a checkout session. Read-only to
// this service; fetched fresh from the processor on every confirmation because
// the processor is the source of truth for payment status.
type PaymentSession struct {
	ID              string `json:"id"`
	PaymentStatus   string `json:"payment_status"`
	PaymentIntentID string `json:"payment_intent"` // Becomes the transaction reference
	AmountTotal     int64  `json:"amount_total"`   // Minor currency units
	Currency        string `json:"currency"`
	CustomerEmail   string `json:"customer_email"`
	ParcelID        string `json:"parcel_id"`   // From session metadata
	ParcelName      string `json:"parcel_name"` // From session metadata
}

// IsPaid returns true when the processor reports the session as paid.
func (s *PaymentSession) IsPaid() bool {
	return s.PaymentStatus == SessionStatusPaid
}

// AmountMajor converts the session total from minor to major currency units,
// e.g. 1500 -> 15.00.
func (s *PaymentSession) AmountMajor() float64 {
	return float64(s.AmountTotal) / 100
}

// PaymentRecord is an immutable ledger entry: exactly one per transaction
// reference, created by the reconciliation engine.
type PaymentRecord struct {
	ID            uuid.UUID `json:"id"`
	ParcelID      uuid.UUID `json:"parcel_id"`
	ParcelName    string    `json:"parcel_name"`
	Amount        float64   `json:"amount"` // Major currency units, two decimals
	Currency      string    `json:"currency"`
	CustomerEmail string    `json:"customer_email"`
	TransactionID string    `json:"transaction_id"` // Processor payment-intent id; the dedup key
	Status        string    `json:"status"`
	PaidAt        time.Time `json:"paid_at"`
	TrackingID    string    `json:"tracking_id"`
}
