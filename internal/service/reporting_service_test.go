package service

import (
	"context"
	"testing"

	"zapshift-server/internal/core/domain"
	"zapshift-server/internal/core/ports/mocks"
	"zapshift-server/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newReportingService(t *testing.T) (*ReportingServiceImpl, *mocks.MockPaymentRepository) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockPaymentRepository(ctrl)
	return NewReportingService(repo, zerolog.Nop()), repo
}

func TestPaymentsByEmail_OwnHistory(t *testing.T) {
	svc, repo := newReportingService(t)
	ctx := context.Background()

	repo.EXPECT().ListByEmail(ctx, "sender@example.com").Return([]*domain.PaymentRecord{
		{TransactionID: "pi_1"},
		{TransactionID: "pi_2"},
	}, nil)

	records, err := svc.PaymentsByEmail(ctx, "sender@example.com", "sender@example.com")

	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestPaymentsByEmail_CaseInsensitiveMatch(t *testing.T) {
	svc, repo := newReportingService(t)
	ctx := context.Background()

	repo.EXPECT().ListByEmail(ctx, "Sender@Example.com").Return(nil, nil)

	_, err := svc.PaymentsByEmail(ctx, "Sender@Example.com", "sender@example.com")
	require.NoError(t, err)
}

func TestPaymentsByEmail_Forbidden(t *testing.T) {
	svc, _ := newReportingService(t)

	_, err := svc.PaymentsByEmail(context.Background(), "victim@example.com", "attacker@example.com")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "AUTH_002", appErr.Code)
	assert.Equal(t, 403, appErr.HTTPStatus)
}

func TestPaymentsByEmail_EmptyEmail(t *testing.T) {
	svc, _ := newReportingService(t)

	_, err := svc.PaymentsByEmail(context.Background(), "", "sender@example.com")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "SHIP_002", appErr.Code)
}
