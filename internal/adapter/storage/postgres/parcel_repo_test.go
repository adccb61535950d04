package postgres

import (
	"context"
	"testing"
	"time"

	"zapshift-server/internal/core/domain"
	"zapshift-server/internal/core/ports"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParcel() *domain.Parcel {
	return &domain.Parcel{
		ID:            uuid.New(),
		Name:          "Books",
		SenderEmail:   "sender@example.com",
		Cost:          1500,
		PaymentStatus: domain.ParcelStatusUnpaid,
		TrackingID:    nil,
		CreatedAt:     time.Now().UTC().Truncate(time.Microsecond),
	}
}

func parcelColumns() []string {
	return []string{"id", "name", "sender_email", "cost", "payment_status", "tracking_id", "created_at"}
}

func parcelRow(p *domain.Parcel) *pgxmock.Rows {
	return pgxmock.NewRows(parcelColumns()).AddRow(
		p.ID, p.Name, p.SenderEmail, p.Cost, p.PaymentStatus, p.TrackingID, p.CreatedAt,
	)
}

func TestParcelRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepo(mock)
	p := newTestParcel()

	mock.ExpectExec("INSERT INTO parcels").
		WithArgs(p.ID, p.Name, p.SenderEmail, p.Cost, p.PaymentStatus, p.TrackingID, p.CreatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	err = repo.Create(context.Background(), p)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParcelRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepo(mock)
	p := newTestParcel()

	mock.ExpectQuery("SELECT .+ FROM parcels WHERE id").
		WithArgs(p.ID).
		WillReturnRows(parcelRow(p))

	result, err := repo.GetByID(context.Background(), p.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, p.ID, result.ID)
	assert.Equal(t, p.Cost, result.Cost)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParcelRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM parcels WHERE id").
		WithArgs(pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows(parcelColumns()))

	result, err := repo.GetByID(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParcelRepo_List_FilteredByEmail(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepo(mock)
	p := newTestParcel()

	mock.ExpectQuery("SELECT .+ FROM parcels WHERE sender_email .+ ORDER BY created_at DESC").
		WithArgs("sender@example.com", 50, 0).
		WillReturnRows(parcelRow(p))

	parcels, err := repo.List(context.Background(), ports.ParcelListParams{
		Email: "sender@example.com", Limit: 50,
	})
	require.NoError(t, err)
	require.Len(t, parcels, 1)
	assert.Equal(t, p.ID, parcels[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParcelRepo_List_Unfiltered(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM parcels .+ ORDER BY created_at DESC").
		WithArgs(50, 10).
		WillReturnRows(pgxmock.NewRows(parcelColumns()))

	parcels, err := repo.List(context.Background(), ports.ParcelListParams{Limit: 50, Offset: 10})
	assert.NoError(t, err)
	assert.Empty(t, parcels)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParcelRepo_MarkPaid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE parcels SET payment_status").
		WithArgs(domain.ParcelStatusPaid, "ZAP-ABC-123456", id, domain.ParcelStatusUnpaid).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	updated, err := repo.MarkPaid(context.Background(), id, "ZAP-ABC-123456")
	assert.NoError(t, err)
	assert.True(t, updated)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParcelRepo_MarkPaid_AlreadyPaid(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepo(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE parcels SET payment_status").
		WithArgs(domain.ParcelStatusPaid, "ZAP-ABC-123456", id, domain.ParcelStatusUnpaid).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	updated, err := repo.MarkPaid(context.Background(), id, "ZAP-ABC-123456")
	assert.NoError(t, err)
	assert.False(t, updated, "a paid parcel must not be repaid")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParcelRepo_Delete(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepo(mock)
	id := uuid.New()

	mock.ExpectExec("DELETE FROM parcels").
		WithArgs(id).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))

	deleted, err := repo.Delete(context.Background(), id)
	assert.NoError(t, err)
	assert.True(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestParcelRepo_Delete_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewParcelRepo(mock)

	mock.ExpectExec("DELETE FROM parcels").
		WithArgs(pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("DELETE", 0))

	deleted, err := repo.Delete(context.Background(), uuid.New())
	assert.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
