package ports

import (
	"context"
	"net/http"
	"time"

	"zapshift-server/internal/core/domain"
)

// HTTPClient abstracts the outbound HTTP client for testability.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// CheckoutParams describes the session to create at the processor.
type CheckoutParams struct {
	ParcelID      string
	ParcelName    string
	AmountMinor   int64
	Currency      string
	CustomerEmail string
}

// CheckoutSession is the processor's handle for a newly created session.
type CheckoutSession struct {
	ID  string
	URL string
}

// SessionVerifier talks to the payment processor. Resolve always goes to the
// processor, never to a cache: the processor is the source of truth for
// payment status.
type SessionVerifier interface {
	Resolve(ctx context.Context, sessionID string) (*domain.PaymentSession, error)
	CreateCheckoutSession(ctx context.Context, params CheckoutParams) (*CheckoutSession, error)
}

// IdentityClaims is the authenticated caller identity extracted from a token.
type IdentityClaims struct {
	Email string
}

// TokenService issues and verifies access tokens.
type TokenService interface {
	Generate(email string) (string, error)
	Verify(tokenString string) (*IdentityClaims, error)
}

// ReconcileOutcome classifies the result of a confirmation attempt.
type ReconcileOutcome string

const (
	OutcomeReconciled        ReconcileOutcome = "reconciled"
	OutcomeAlreadyReconciled ReconcileOutcome = "already_reconciled"
)

// ReconcileResult is what a successful confirmation reports back.
type ReconcileResult struct {
	Outcome       ReconcileOutcome `json:"outcome"`
	TrackingID    string           `json:"tracking_id"`
	TransactionID string           `json:"transaction_id"`
	ParcelUpdated bool             `json:"parcel_updated"`
}

// ReconcileCache is a best-effort read-through cache of completed
// reconciliations, keyed by transaction reference. A miss or an unavailable
// cache never fails a confirmation; the ledger stays authoritative.
type ReconcileCache interface {
	Get(ctx context.Context, transactionID string) (*ReconcileResult, error)
	Set(ctx context.Context, transactionID string, result *ReconcileResult, ttl time.Duration) error
}

// ReconciliationService converts a confirmed checkout session into a parcel
// update plus a ledger entry, exactly once per transaction reference.
type ReconciliationService interface {
	Confirm(ctx context.Context, sessionID string) (*ReconcileResult, error)
}

// ParcelService manages shipment records.
type ParcelService interface {
	Create(ctx context.Context, parcel *domain.Parcel) (*domain.Parcel, error)
	Get(ctx context.Context, id string) (*domain.Parcel, error)
	List(ctx context.Context, params ParcelListParams) ([]*domain.Parcel, error)
	Delete(ctx context.Context, id string) error
}

// ReportingService serves payment history to authenticated customers.
type ReportingService interface {
	// PaymentsByEmail returns the ledger entries for email. requesterEmail
	// must match email; a mismatch is a forbidden error.
	PaymentsByEmail(ctx context.Context, email, requesterEmail string) ([]*domain.PaymentRecord, error)
}

// WebhookService verifies and processes asynchronous processor events.
type WebhookService interface {
	HandleEvent(ctx context.Context, payload []byte, signature string) error
}
