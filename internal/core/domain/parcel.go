package domain

import (
	"time"

	"github.com/google/uuid"
)

// ParcelStatus represents the payment state of a parcel.
type ParcelStatus string

const (
	ParcelStatusUnpaid ParcelStatus = "unpaid"
	ParcelStatusPaid   ParcelStatus = "paid"
)

// Parcel represents a shipment record. It is mutated only at creation and by
// the reconciliation engine on a confirmed payment.
type Parcel struct {
	ID            uuid.UUID    `json:"id"`
	Name          string       `json:"name"`
	SenderEmail   string       `json:"sender_email"`
	Cost          int64        `json:"cost"` // In minor currency units (cents)
	PaymentStatus ParcelStatus `json:"payment_status"`
	TrackingID    *string      `json:"tracking_id,omitempty"` // Non-nil iff PaymentStatus is paid
	CreatedAt     time.Time    `json:"created_at"`
}

// IsPaid returns true once payment has been reconciled.
func (p *Parcel) IsPaid() bool {
	return p.PaymentStatus == ParcelStatusPaid
}

// Consistent reports whether the tracking-ID invariant holds:
// a tracking ID is present if and only if the parcel is paid.
func (p *Parcel) Consistent() bool {
	return p.IsPaid() == (p.TrackingID != nil && *p.TrackingID != "")
}
