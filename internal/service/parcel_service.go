package service

import (
	"context"
	"fmt"
	"time"

	"zapshift-server/internal/core/domain"
	"zapshift-server/internal/core/ports"
	"zapshift-server/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// ParcelServiceImpl implements ports.ParcelService.
type ParcelServiceImpl struct {
	repo ports.ParcelRepository
	log  zerolog.Logger
}

// NewParcelService creates a new ParcelServiceImpl.
func NewParcelService(repo ports.ParcelRepository, log zerolog.Logger) *ParcelServiceImpl {
	return &ParcelServiceImpl{repo: repo, log: log}
}

// Create registers a new parcel in the unpaid state.
func (s *ParcelServiceImpl) Create(ctx context.Context, parcel *domain.Parcel) (*domain.Parcel, error) {
	if parcel.Cost <= 0 {
		return nil, apperror.ErrInvalidInput("cost must be positive")
	}

	parcel.ID = uuid.New()
	parcel.PaymentStatus = domain.ParcelStatusUnpaid
	parcel.TrackingID = nil
	parcel.CreatedAt = time.Now().UTC()

	if err := s.repo.Create(ctx, parcel); err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("create parcel: %w", err))
	}

	s.log.Info().
		Str("parcel_id", parcel.ID.String()).
		Str("sender_email", parcel.SenderEmail).
		Msg("parcel created")

	return parcel, nil
}

// Get fetches a single parcel by ID.
func (s *ParcelServiceImpl) Get(ctx context.Context, id string) (*domain.Parcel, error) {
	parcelID, err := uuid.Parse(id)
	if err != nil {
		return nil, apperror.ErrInvalidInput("invalid parcel id")
	}

	parcel, err := s.repo.GetByID(ctx, parcelID)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("get parcel: %w", err))
	}
	if parcel == nil {
		return nil, apperror.ErrParcelNotFound()
	}

	return parcel, nil
}

// List returns parcels newest first, optionally filtered by sender email.
func (s *ParcelServiceImpl) List(ctx context.Context, params ports.ParcelListParams) ([]*domain.Parcel, error) {
	if params.Limit <= 0 {
		params.Limit = defaultListLimit
	}
	if params.Limit > maxListLimit {
		params.Limit = maxListLimit
	}
	if params.Offset < 0 {
		params.Offset = 0
	}

	parcels, err := s.repo.List(ctx, params)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("list parcels: %w", err))
	}

	return parcels, nil
}

// Delete removes a parcel.
func (s *ParcelServiceImpl) Delete(ctx context.Context, id string) error {
	parcelID, err := uuid.Parse(id)
	if err != nil {
		return apperror.ErrInvalidInput("invalid parcel id")
	}

	deleted, err := s.repo.Delete(ctx, parcelID)
	if err != nil {
		return apperror.ErrStoreUnavailable(fmt.Errorf("delete parcel: %w", err))
	}
	if !deleted {
		return apperror.ErrParcelNotFound()
	}

	s.log.Info().Str("parcel_id", id).Msg("parcel deleted")
	return nil
}
