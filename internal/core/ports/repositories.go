package ports

import (
	"context"

	"zapshift-server/internal/core/domain"

	"github.com/google/uuid"
)

// ParcelListParams filters and pages the parcel listing. Email narrows the
// result to a single sender; ordering is newest first.
type ParcelListParams struct {
	Email  string
	Limit  int
	Offset int
}

// ParcelRepository persists shipment records.
type ParcelRepository interface {
	Create(ctx context.Context, parcel *domain.Parcel) error
	// GetByID returns (nil, nil) when no parcel exists.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Parcel, error)
	List(ctx context.Context, params ParcelListParams) ([]*domain.Parcel, error)
	// MarkPaid transitions a parcel from unpaid to paid and stamps the
	// tracking ID. Returns false when no row changed, either because the
	// parcel does not exist or because it was already paid.
	MarkPaid(ctx context.Context, id uuid.UUID, trackingID string) (bool, error)
	// Delete removes a parcel. Returns false when no parcel existed.
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// PaymentRepository persists the append-only payment ledger.
type PaymentRepository interface {
	// Create inserts a ledger entry. Returns domain.ErrDuplicateTransaction
	// when the transaction reference was already recorded.
	Create(ctx context.Context, record *domain.PaymentRecord) error
	// GetByTransactionID returns (nil, nil) when no entry exists.
	GetByTransactionID(ctx context.Context, transactionID string) (*domain.PaymentRecord, error)
	// ListByEmail returns entries for one customer, newest first.
	ListByEmail(ctx context.Context, email string) ([]*domain.PaymentRecord, error)
}
