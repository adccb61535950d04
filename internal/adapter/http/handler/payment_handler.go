package handler

import (
	"io"
	"time"

	"zapshift-server/internal/adapter/http/dto"
	"zapshift-server/internal/adapter/http/middleware"
	"zapshift-server/internal/core/domain"
	"zapshift-server/internal/core/ports"
	"zapshift-server/pkg/apperror"
	"zapshift-server/pkg/response"

	"github.com/gin-gonic/gin"
)

// PaymentHandler handles checkout, confirmation, webhook and history endpoints.
type PaymentHandler struct {
	parcelSvc    ports.ParcelService
	verifier     ports.SessionVerifier
	reconcileSvc ports.ReconciliationService
	reportingSvc ports.ReportingService
	webhookSvc   ports.WebhookService
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(
	parcelSvc ports.ParcelService,
	verifier ports.SessionVerifier,
	reconcileSvc ports.ReconciliationService,
	reportingSvc ports.ReportingService,
	webhookSvc ports.WebhookService,
) *PaymentHandler {
	return &PaymentHandler{
		parcelSvc:    parcelSvc,
		verifier:     verifier,
		reconcileSvc: reconcileSvc,
		reportingSvc: reportingSvc,
		webhookSvc:   webhookSvc,
	}
}

// CreateCheckoutSession handles POST /api/v1/payments/checkout-session.
func (h *PaymentHandler) CreateCheckoutSession(c *gin.Context) {
	var req dto.CheckoutSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	parcel, err := h.parcelSvc.Get(c.Request.Context(), req.ParcelID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if parcel.IsPaid() {
		response.Error(c, apperror.ErrDuplicateTransaction())
		return
	}

	session, err := h.verifier.CreateCheckoutSession(c.Request.Context(), ports.CheckoutParams{
		ParcelID:      parcel.ID.String(),
		ParcelName:    parcel.Name,
		AmountMinor:   parcel.Cost,
		Currency:      "usd",
		CustomerEmail: c.GetString(middleware.CtxEmail),
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.CheckoutSessionResponse{
		SessionID:   session.ID,
		CheckoutURL: session.URL,
	})
}

// Confirm handles GET /api/v1/payments/confirm?session_id=...
// 200 for both first and repeat confirmations (the outcome field tells them
// apart), 402 while the session is still pending, 502 when the processor
// cannot be reached.
func (h *PaymentHandler) Confirm(c *gin.Context) {
	result, err := h.reconcileSvc.Confirm(c.Request.Context(), c.Query("session_id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ConfirmPaymentResponse{
		Outcome:       string(result.Outcome),
		TrackingID:    result.TrackingID,
		TransactionID: result.TransactionID,
		ParcelUpdated: result.ParcelUpdated,
	})
}

// Webhook handles POST /api/v1/payments/webhook. Replies 200 even for
// duplicate events so the processor stops redelivering.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Error(c, apperror.Validation("cannot read request body"))
		return
	}

	sig := c.GetHeader("Stripe-Signature")
	if err := h.webhookSvc.HandleEvent(c.Request.Context(), payload, sig); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"received": true})
}

// History handles GET /api/v1/payments. Returns the authenticated customer's
// ledger entries; an explicit email parameter naming someone else is a 403.
func (h *PaymentHandler) History(c *gin.Context) {
	requester := c.GetString(middleware.CtxEmail)
	email := c.Query("email")
	if email == "" {
		email = requester
	}

	records, err := h.reportingSvc.PaymentsByEmail(c.Request.Context(), email, requester)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.PaymentRecordResponse, 0, len(records))
	for _, rec := range records {
		items = append(items, toPaymentRecordResponse(rec))
	}
	response.OK(c, items)
}

// toPaymentRecordResponse converts domain.PaymentRecord to DTO.
func toPaymentRecordResponse(rec *domain.PaymentRecord) dto.PaymentRecordResponse {
	return dto.PaymentRecordResponse{
		ID:            rec.ID.String(),
		ParcelID:      rec.ParcelID.String(),
		ParcelName:    rec.ParcelName,
		Amount:        rec.Amount,
		Currency:      rec.Currency,
		CustomerEmail: rec.CustomerEmail,
		TransactionID: rec.TransactionID,
		Status:        rec.Status,
		PaidAt:        rec.PaidAt.Format(time.RFC3339),
		TrackingID:    rec.TrackingID,
	}
}
