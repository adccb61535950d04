package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"zapshift-server/internal/core/domain"
	"zapshift-server/internal/core/ports"
	"zapshift-server/pkg/apperror"

	"github.com/rs/zerolog"
)

// StripeVerifier implements ports.SessionVerifier against the Stripe
// checkout-sessions API. Sessions are always fetched fresh; nothing about
// payment status is cached here.
type StripeVerifier struct {
	client     ports.HTTPClient
	baseURL    string
	secretKey  string
	successURL string
	cancelURL  string
	log        zerolog.Logger
}

// NewStripeVerifier creates a new StripeVerifier.
func NewStripeVerifier(client ports.HTTPClient, baseURL, secretKey, successURL, cancelURL string, log zerolog.Logger) *StripeVerifier {
	return &StripeVerifier{
		client:     client,
		baseURL:    strings.TrimRight(baseURL, "/"),
		secretKey:  secretKey,
		successURL: successURL,
		cancelURL:  cancelURL,
		log:        log,
	}
}

// stripeSession mirrors the subset of the checkout-session resource we read.
type stripeSession struct {
	ID              string `json:"id"`
	PaymentStatus   string `json:"payment_status"`
	PaymentIntent   string `json:"payment_intent"`
	AmountTotal     int64  `json:"amount_total"`
	Currency        string `json:"currency"`
	CustomerEmail   string `json:"customer_email"`
	CustomerDetails struct {
		Email string `json:"email"`
	} `json:"customer_details"`
	Metadata map[string]string `json:"metadata"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// Resolve fetches a checkout session by ID. An unknown reference is a
// processor-level failure like any other non-200: the caller cannot tell a
// bad reference from a misrouted request, so both surface as EXT_001.
func (v *StripeVerifier) Resolve(ctx context.Context, sessionID string) (*domain.PaymentSession, error) {
	endpoint := fmt.Sprintf("%s/v1/checkout/sessions/%s", v.baseURL, url.PathEscape(sessionID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, apperror.ErrPaymentProcessor(fmt.Errorf("build session request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+v.secretKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, apperror.ErrPaymentProcessor(fmt.Errorf("fetch session: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.ErrPaymentProcessor(fmt.Errorf("read session response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.ErrPaymentProcessor(v.apiError(resp.StatusCode, body))
	}

	var raw stripeSession
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperror.ErrPaymentProcessor(fmt.Errorf("decode session: %w", err))
	}

	email := raw.CustomerEmail
	if email == "" {
		email = raw.CustomerDetails.Email
	}

	return &domain.PaymentSession{
		ID:              raw.ID,
		PaymentStatus:   raw.PaymentStatus,
		PaymentIntentID: raw.PaymentIntent,
		AmountTotal:     raw.AmountTotal,
		Currency:        raw.Currency,
		CustomerEmail:   email,
		ParcelID:        raw.Metadata["parcel_id"],
		ParcelName:      raw.Metadata["parcel_name"],
	}, nil
}

// CreateCheckoutSession opens a payment session at the processor for one
// parcel. The parcel reference travels in the session metadata and comes back
// on confirmation.
func (v *StripeVerifier) CreateCheckoutSession(ctx context.Context, params ports.CheckoutParams) (*ports.CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("success_url", v.successURL)
	form.Set("cancel_url", v.cancelURL)
	form.Set("customer_email", params.CustomerEmail)
	form.Set("line_items[0][quantity]", "1")
	form.Set("line_items[0][price_data][currency]", params.Currency)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(params.AmountMinor, 10))
	form.Set("line_items[0][price_data][product_data][name]", params.ParcelName)
	form.Set("metadata[parcel_id]", params.ParcelID)
	form.Set("metadata[parcel_name]", params.ParcelName)

	endpoint := v.baseURL + "/v1/checkout/sessions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperror.ErrPaymentProcessor(fmt.Errorf("build checkout request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+v.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, apperror.ErrPaymentProcessor(fmt.Errorf("create session: %w", err))
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperror.ErrPaymentProcessor(fmt.Errorf("read checkout response: %w", err))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, apperror.ErrPaymentProcessor(v.apiError(resp.StatusCode, body))
	}

	var raw struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, apperror.ErrPaymentProcessor(fmt.Errorf("decode checkout response: %w", err))
	}

	v.log.Info().
		Str("session_id", raw.ID).
		Str("parcel_id", params.ParcelID).
		Msg("checkout session created")

	return &ports.CheckoutSession{ID: raw.ID, URL: raw.URL}, nil
}

func (v *StripeVerifier) apiError(status int, body []byte) error {
	var se stripeError
	if err := json.Unmarshal(body, &se); err == nil && se.Error.Message != "" {
		return fmt.Errorf("stripe api status %d: %s", status, se.Error.Message)
	}
	return fmt.Errorf("stripe api status %d", status)
}
