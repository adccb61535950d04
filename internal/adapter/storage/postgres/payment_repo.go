package postgres

import (
	"context"
	"errors"
	"fmt"

	"zapshift-server/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL error code for a unique-constraint breach.
const uniqueViolation = "23505"

// PaymentRepo implements ports.PaymentRepository. The payment_info table
// carries a unique index on transaction_id; it is what guarantees at most one
// ledger entry per transaction reference under concurrent confirmations.
type PaymentRepo struct {
	pool Pool
}

// NewPaymentRepo creates a new PaymentRepo.
func NewPaymentRepo(pool Pool) *PaymentRepo {
	return &PaymentRepo{pool: pool}
}

// Create inserts a ledger entry. A unique violation on transaction_id is
// surfaced as domain.ErrDuplicateTransaction for the engine to fold into the
// duplicate path.
func (r *PaymentRepo) Create(ctx context.Context, rec *domain.PaymentRecord) error {
	query := `INSERT INTO payment_info (id, parcel_id, parcel_name, amount, currency, customer_email,
		transaction_id, status, paid_at, tracking_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.pool.Exec(ctx, query,
		rec.ID, rec.ParcelID, rec.ParcelName, rec.Amount, rec.Currency, rec.CustomerEmail,
		rec.TransactionID, rec.Status, rec.PaidAt, rec.TrackingID,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateTransaction
		}
		return fmt.Errorf("insert payment record: %w", err)
	}
	return nil
}

// GetByTransactionID fetches a ledger entry by transaction reference.
func (r *PaymentRepo) GetByTransactionID(ctx context.Context, transactionID string) (*domain.PaymentRecord, error) {
	query := `SELECT id, parcel_id, parcel_name, amount, currency, customer_email,
		transaction_id, status, paid_at, tracking_id
		FROM payment_info WHERE transaction_id = $1`

	return r.scanRecord(r.pool.QueryRow(ctx, query, transactionID))
}

// ListByEmail fetches a customer's ledger entries, newest first.
func (r *PaymentRepo) ListByEmail(ctx context.Context, email string) ([]*domain.PaymentRecord, error) {
	query := `SELECT id, parcel_id, parcel_name, amount, currency, customer_email,
		transaction_id, status, paid_at, tracking_id
		FROM payment_info WHERE lower(customer_email) = lower($1) ORDER BY paid_at DESC`

	rows, err := r.pool.Query(ctx, query, email)
	if err != nil {
		return nil, fmt.Errorf("list payment records: %w", err)
	}
	defer rows.Close()

	var records []*domain.PaymentRecord
	for rows.Next() {
		rec := &domain.PaymentRecord{}
		err := rows.Scan(&rec.ID, &rec.ParcelID, &rec.ParcelName, &rec.Amount, &rec.Currency,
			&rec.CustomerEmail, &rec.TransactionID, &rec.Status, &rec.PaidAt, &rec.TrackingID)
		if err != nil {
			return nil, fmt.Errorf("scan payment row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate payment rows: %w", err)
	}
	return records, nil
}

// scanRecord is a helper to scan a single row into a PaymentRecord.
func (r *PaymentRepo) scanRecord(row pgx.Row) (*domain.PaymentRecord, error) {
	rec := &domain.PaymentRecord{}
	err := row.Scan(&rec.ID, &rec.ParcelID, &rec.ParcelName, &rec.Amount, &rec.Currency,
		&rec.CustomerEmail, &rec.TransactionID, &rec.Status, &rec.PaidAt, &rec.TrackingID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan payment record: %w", err)
	}
	return rec, nil
}
