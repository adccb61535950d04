package service

import (
	"context"
	"fmt"
	"strings"

	"zapshift-server/internal/core/domain"
	"zapshift-server/internal/core/ports"
	"zapshift-server/pkg/apperror"

	"github.com/rs/zerolog"
)

// ReportingServiceImpl implements ports.ReportingService.
type ReportingServiceImpl struct {
	paymentRepo ports.PaymentRepository
	log         zerolog.Logger
}

// NewReportingService creates a new ReportingServiceImpl.
func NewReportingService(paymentRepo ports.PaymentRepository, log zerolog.Logger) *ReportingServiceImpl {
	return &ReportingServiceImpl{paymentRepo: paymentRepo, log: log}
}

// PaymentsByEmail returns the payment history for email. The requested email
// must match the authenticated identity; customers cannot read each other's
// ledgers.
func (s *ReportingServiceImpl) PaymentsByEmail(ctx context.Context, email, requesterEmail string) ([]*domain.PaymentRecord, error) {
	if email == "" {
		return nil, apperror.ErrInvalidInput("email is required")
	}
	if !strings.EqualFold(email, requesterEmail) {
		s.log.Warn().
			Str("requested", email).
			Str("requester", requesterEmail).
			Msg("payment history access denied")
		return nil, apperror.ErrForbidden()
	}

	records, err := s.paymentRepo.ListByEmail(ctx, email)
	if err != nil {
		return nil, apperror.ErrStoreUnavailable(fmt.Errorf("list payments: %w", err))
	}

	return records, nil
}
