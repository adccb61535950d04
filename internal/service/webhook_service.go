package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"zapshift-server/internal/core/ports"
	"zapshift-server/pkg/apperror"

	"github.com/rs/zerolog"
)

// eventCheckoutCompleted is the processor event that triggers reconciliation.
const eventCheckoutCompleted = "checkout.session.completed"

// WebhookServiceImpl implements ports.WebhookService. It is the asynchronous
// twin of the confirmation endpoint: both funnel into the same reconciliation
// engine, so a session confirmed by redirect and again by webhook still
// yields exactly one ledger entry.
type WebhookServiceImpl struct {
	signatures *WebhookSignatureService
	reconciler ports.ReconciliationService
	log        zerolog.Logger
}

// NewWebhookService creates a new WebhookServiceImpl.
func NewWebhookService(signatures *WebhookSignatureService, reconciler ports.ReconciliationService, log zerolog.Logger) *WebhookServiceImpl {
	return &WebhookServiceImpl{
		signatures: signatures,
		reconciler: reconciler,
		log:        log,
	}
}

type webhookEvent struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// HandleEvent verifies the signature and dispatches the event. Unrecognized
// event types are acknowledged and ignored.
func (s *WebhookServiceImpl) HandleEvent(ctx context.Context, payload []byte, signature string) error {
	if err := s.signatures.Verify(payload, signature); err != nil {
		s.log.Warn().Err(err).Msg("webhook signature rejected")
		return apperror.ErrInvalidSignature()
	}

	var event webhookEvent
	if err := json.Unmarshal(payload, &event); err != nil {
		return apperror.ErrInvalidInput("malformed event payload")
	}

	if event.Type != eventCheckoutCompleted {
		s.log.Debug().Str("event_type", event.Type).Msg("ignoring webhook event")
		return nil
	}

	if event.Data.Object.ID == "" {
		return apperror.ErrInvalidInput("event carries no session id")
	}

	result, err := s.reconciler.Confirm(ctx, event.Data.Object.ID)
	if err != nil {
		// A not-paid outcome is acknowledged, not failed: erroring here would
		// make the processor redeliver an event that will never reconcile
		// until the session is actually paid.
		var appErr *apperror.AppError
		if errors.As(err, &appErr) && appErr.Code == "PAY_002" {
			s.log.Warn().
				Str("event_id", event.ID).
				Str("session_id", event.Data.Object.ID).
				Msg("completed event for unpaid session, acknowledging")
			return nil
		}
		return fmt.Errorf("reconcile from webhook: %w", err)
	}

	s.log.Info().
		Str("event_id", event.ID).
		Str("transaction_id", result.TransactionID).
		Str("outcome", string(result.Outcome)).
		Msg("webhook event reconciled")

	return nil
}
