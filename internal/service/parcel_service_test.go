package service

import (
	"context"
	"errors"
	"testing"

	"zapshift-server/internal/core/domain"
	"zapshift-server/internal/core/ports"
	"zapshift-server/internal/core/ports/mocks"
	"zapshift-server/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newParcelService(t *testing.T) (*ParcelServiceImpl, *mocks.MockParcelRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockParcelRepository(ctrl)
	return NewParcelService(repo, zerolog.Nop()), repo
}

func TestParcelCreate_InitializesUnpaid(t *testing.T) {
	svc, repo := newParcelService(t)
	ctx := context.Background()

	repo.EXPECT().Create(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, p *domain.Parcel) error {
			assert.NotEqual(t, uuid.Nil, p.ID)
			assert.Equal(t, domain.ParcelStatusUnpaid, p.PaymentStatus)
			assert.Nil(t, p.TrackingID)
			assert.False(t, p.CreatedAt.IsZero())
			return nil
		})

	parcel, err := svc.Create(ctx, &domain.Parcel{
		Name:        "Books",
		SenderEmail: "sender@example.com",
		Cost:        1500,
	})

	require.NoError(t, err)
	assert.True(t, parcel.Consistent())
}

func TestParcelCreate_RejectsNonPositiveCost(t *testing.T) {
	svc, _ := newParcelService(t)

	_, err := svc.Create(context.Background(), &domain.Parcel{Name: "Books", Cost: 0})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SHIP_002", appErr.Code)
}

func TestParcelGet_NotFound(t *testing.T) {
	svc, repo := newParcelService(t)
	ctx := context.Background()
	id := uuid.New()

	repo.EXPECT().GetByID(ctx, id).Return(nil, nil)

	_, err := svc.Get(ctx, id.String())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SHIP_001", appErr.Code)
}

func TestParcelGet_InvalidID(t *testing.T) {
	svc, _ := newParcelService(t)

	_, err := svc.Get(context.Background(), "not-a-uuid")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SHIP_002", appErr.Code)
}

func TestParcelList_ClampsLimit(t *testing.T) {
	svc, repo := newParcelService(t)
	ctx := context.Background()

	repo.EXPECT().List(ctx, ports.ParcelListParams{Email: "a@b.c", Limit: maxListLimit}).Return(nil, nil)

	_, err := svc.List(ctx, ports.ParcelListParams{Email: "a@b.c", Limit: 9999})
	require.NoError(t, err)
}

func TestParcelList_DefaultsLimit(t *testing.T) {
	svc, repo := newParcelService(t)
	ctx := context.Background()

	repo.EXPECT().List(ctx, ports.ParcelListParams{Limit: defaultListLimit}).Return(nil, nil)

	_, err := svc.List(ctx, ports.ParcelListParams{})
	require.NoError(t, err)
}

func TestParcelDelete_NotFound(t *testing.T) {
	svc, repo := newParcelService(t)
	ctx := context.Background()
	id := uuid.New()

	repo.EXPECT().Delete(ctx, id).Return(false, nil)

	err := svc.Delete(ctx, id.String())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SHIP_001", appErr.Code)
}

func TestParcelDelete_StoreError(t *testing.T) {
	svc, repo := newParcelService(t)
	ctx := context.Background()
	id := uuid.New()

	repo.EXPECT().Delete(ctx, id).Return(false, errors.New("connection reset"))

	err := svc.Delete(ctx, id.String())

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SYS_001", appErr.Code)
}
