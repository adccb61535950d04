package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"zapshift-server/internal/core/domain"
	"zapshift-server/internal/core/ports"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ParcelRepo implements ports.ParcelRepository.
type ParcelRepo struct {
	pool Pool
}

// NewParcelRepo creates a new ParcelRepo.
func NewParcelRepo(pool Pool) *ParcelRepo {
	return &ParcelRepo{pool: pool}
}

// Create inserts a new parcel.
func (r *ParcelRepo) Create(ctx context.Context, p *domain.Parcel) error {
	query := `INSERT INTO parcels (id, name, sender_email, cost, payment_status, tracking_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, query,
		p.ID, p.Name, p.SenderEmail, p.Cost, p.PaymentStatus, p.TrackingID, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert parcel: %w", err)
	}
	return nil
}

// GetByID fetches a parcel by UUID.
func (r *ParcelRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Parcel, error) {
	query := `SELECT id, name, sender_email, cost, payment_status, tracking_id, created_at
		FROM parcels WHERE id = $1`

	return r.scanParcel(r.pool.QueryRow(ctx, query, id))
}

// List fetches parcels newest first, optionally filtered by sender email.
func (r *ParcelRepo) List(ctx context.Context, params ports.ParcelListParams) ([]*domain.Parcel, error) {
	var conditions []string
	var args []any
	argIdx := 1

	if params.Email != "" {
		conditions = append(conditions, fmt.Sprintf("sender_email = $%d", argIdx))
		args = append(args, params.Email)
		argIdx++
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT id, name, sender_email, cost, payment_status, tracking_id, created_at
		FROM parcels %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, argIdx, argIdx+1)
	args = append(args, params.Limit, params.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list parcels: %w", err)
	}
	defer rows.Close()

	var parcels []*domain.Parcel
	for rows.Next() {
		p := &domain.Parcel{}
		err := rows.Scan(&p.ID, &p.Name, &p.SenderEmail, &p.Cost, &p.PaymentStatus, &p.TrackingID, &p.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan parcel row: %w", err)
		}
		parcels = append(parcels, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate parcel rows: %w", err)
	}
	return parcels, nil
}

// MarkPaid transitions a parcel from unpaid to paid and stamps the tracking
// ID. The status guard in the WHERE clause makes the transition one-way: a
// second call on the same parcel changes no rows.
func (r *ParcelRepo) MarkPaid(ctx context.Context, id uuid.UUID, trackingID string) (bool, error) {
	query := `UPDATE parcels SET payment_status = $1, tracking_id = $2
		WHERE id = $3 AND payment_status = $4`

	tag, err := r.pool.Exec(ctx, query, domain.ParcelStatusPaid, trackingID, id, domain.ParcelStatusUnpaid)
	if err != nil {
		return false, fmt.Errorf("mark parcel paid: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// Delete removes a parcel. Returns false when no parcel existed.
func (r *ParcelRepo) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := r.pool.Exec(ctx, `DELETE FROM parcels WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete parcel: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// scanParcel is a helper to scan a single row into a Parcel.
func (r *ParcelRepo) scanParcel(row pgx.Row) (*domain.Parcel, error) {
	p := &domain.Parcel{}
	err := row.Scan(&p.ID, &p.Name, &p.SenderEmail, &p.Cost, &p.PaymentStatus, &p.TrackingID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("scan parcel: %w", err)
	}
	return p, nil
}
