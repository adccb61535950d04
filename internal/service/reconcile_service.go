package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"zapshift-server/internal/core/domain"
	"zapshift-server/internal/core/ports"
	"zapshift-server/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const reconcileCacheTTL = 24 * time.Hour

// ReconciliationServiceImpl implements ports.ReconciliationService.
//
// Confirm is the reconciliation engine: it resolves the checkout session at
// the processor, gates on payment status, deduplicates on the transaction
// reference, marks the parcel paid with a fresh tracking ID, and appends the
// ledger entry. The check-then-insert is intentionally not transactional; the
// uniqueness constraint on the transaction reference closes the race, and a
// constraint violation is folded into the "already reconciled" outcome.
type ReconciliationServiceImpl struct {
	verifier    ports.SessionVerifier
	parcelRepo  ports.ParcelRepository
	paymentRepo ports.PaymentRepository
	cache       ports.ReconcileCache
	log         zerolog.Logger
}

// NewReconciliationService creates a new ReconciliationServiceImpl.
func NewReconciliationService(
	verifier ports.SessionVerifier,
	parcelRepo ports.ParcelRepository,
	paymentRepo ports.PaymentRepository,
	cache ports.ReconcileCache,
	log zerolog.Logger,
) *ReconciliationServiceImpl {
	return &ReconciliationServiceImpl{
		verifier:    verifier,
		parcelRepo:  parcelRepo,
		paymentRepo: paymentRepo,
		cache:       cache,
		log:         log,
	}
}

// Confirm converts a paid checkout session into a parcel update plus a ledger
// entry, exactly once per transaction reference.
func (s *ReconciliationServiceImpl) Confirm(ctx context.Context, sessionID string) (*ports.ReconcileResult, error) {
	if sessionID == "" {
		return nil, apperror.ErrInvalidInput("session_id is required")
	}

	// Resolve: always fetch the session fresh from the processor. The
	// processor is the source of truth for payment status, so no cache is
	// consulted before this point. Unknown references fail inside Resolve as
	// EXT_001; a nil session without an error is a verifier bug.
	session, err := s.verifier.Resolve(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, apperror.ErrPaymentProcessor(fmt.Errorf("verifier returned no session for %s", sessionID))
	}

	// The payment-intent reference identifies the money movement; the session
	// ID is only a fallback for processors that omit it.
	txID := session.PaymentIntentID
	if txID == "" {
		txID = session.ID
	}

	// Layer 1: cache dedup check (best-effort)
	cached, err := s.cache.Get(ctx, txID)
	if err != nil {
		s.log.Warn().Err(err).Str("transaction_id", txID).Msg("reconcile cache check failed, falling through to DB")
	}
	if cached != nil {
		cached.Outcome = ports.OutcomeAlreadyReconciled
		return cached, nil
	}

	// Layer 2: ledger dedup check (authoritative)
	existing, err := s.paymentRepo.GetByTransactionID(ctx, txID)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("ledger dedup check: %w", err))
	}
	if existing != nil {
		return s.alreadyReconciled(ctx, existing), nil
	}

	// Status gate: an unpaid session is an explicit "still pending" outcome,
	// not a server fault.
	if !session.IsPaid() {
		return nil, apperror.ErrSessionNotPaid()
	}

	// Apply: transition the parcel to paid and stamp the tracking ID. A
	// zero-row update (parcel deleted, or already paid out of band) is logged
	// and surfaced, but the ledger entry is still recorded: money moved.
	trackingID := domain.NewTrackingID()
	parcelUpdated := false

	parcelID, parseErr := uuid.Parse(session.ParcelID)
	if parseErr != nil {
		s.log.Warn().
			Str("transaction_id", txID).
			Str("parcel_id", session.ParcelID).
			Msg("session carries no usable parcel reference")
	} else {
		parcelUpdated, err = s.parcelRepo.MarkPaid(ctx, parcelID, trackingID)
		if err != nil {
			return nil, apperror.ErrStoreUnavailable(fmt.Errorf("mark parcel paid: %w", err))
		}
		if !parcelUpdated {
			s.log.Warn().
				Str("transaction_id", txID).
				Str("parcel_id", session.ParcelID).
				Msg("parcel update changed no rows, recording payment anyway")
		}
	}

	// Record: append the ledger entry. A uniqueness violation here means a
	// concurrent confirmation won the race; fold it into the duplicate path.
	record := &domain.PaymentRecord{
		ID:            uuid.New(),
		ParcelID:      parcelID,
		ParcelName:    session.ParcelName,
		Amount:        session.AmountMajor(),
		Currency:      session.Currency,
		CustomerEmail: session.CustomerEmail,
		TransactionID: txID,
		Status:        domain.SessionStatusPaid,
		PaidAt:        time.Now().UTC(),
		TrackingID:    trackingID,
	}

	if err := s.paymentRepo.Create(ctx, record); err != nil {
		if errors.Is(err, domain.ErrDuplicateTransaction) {
			winner, readErr := s.paymentRepo.GetByTransactionID(ctx, txID)
			if readErr != nil || winner == nil {
				return nil, apperror.ErrStoreUnavailable(fmt.Errorf("re-read after duplicate: %w", readErr))
			}
			return s.alreadyReconciled(ctx, winner), nil
		}
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("record payment: %w", err))
	}

	result := &ports.ReconcileResult{
		Outcome:       ports.OutcomeReconciled,
		TrackingID:    trackingID,
		TransactionID: txID,
		ParcelUpdated: parcelUpdated,
	}

	// Post-process: cache the outcome (best-effort)
	if err := s.cache.Set(ctx, txID, result, reconcileCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("transaction_id", txID).Msg("failed to cache reconcile outcome")
	}

	s.log.Info().
		Str("transaction_id", txID).
		Str("tracking_id", trackingID).
		Bool("parcel_updated", parcelUpdated).
		Msg("payment reconciled")

	return result, nil
}

// alreadyReconciled builds the duplicate-suppression result from an existing
// ledger entry and refreshes the cache.
func (s *ReconciliationServiceImpl) alreadyReconciled(ctx context.Context, record *domain.PaymentRecord) *ports.ReconcileResult {
	result := &ports.ReconcileResult{
		Outcome:       ports.OutcomeAlreadyReconciled,
		TrackingID:    record.TrackingID,
		TransactionID: record.TransactionID,
		ParcelUpdated: true,
	}

	if err := s.cache.Set(ctx, record.TransactionID, result, reconcileCacheTTL); err != nil {
		s.log.Warn().Err(err).Str("transaction_id", record.TransactionID).Msg("failed to cache reconcile outcome")
	}

	s.log.Info().
		Str("transaction_id", record.TransactionID).
		Msg("duplicate confirmation suppressed")

	return result
}
