package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
	"testing"

	"zapshift-server/internal/core/ports"
	"zapshift-server/internal/core/ports/mocks"
	"zapshift-server/pkg/apperror"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newStripeVerifier(t *testing.T) (*StripeVerifier, *mocks.MockHTTPClient) {
	ctrl := gomock.NewController(t)
	client := mocks.NewMockHTTPClient(ctrl)
	v := NewStripeVerifier(client, "https://api.stripe.test", "sk_test_secret",
		"https://app.test/success?session_id={CHECKOUT_SESSION_ID}", "https://app.test/cancel", zerolog.Nop())
	return v, client
}

func jsonResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestResolve_PaidSession(t *testing.T) {
	v, client := newStripeVerifier(t)

	client.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodGet, req.Method)
		assert.Equal(t, "https://api.stripe.test/v1/checkout/sessions/cs_test_123", req.URL.String())
		assert.Equal(t, "Bearer sk_test_secret", req.Header.Get("Authorization"))
		return jsonResponse(200, `{
			"id": "cs_test_123",
			"payment_status": "paid",
			"payment_intent": "pi_test_456",
			"amount_total": 1500,
			"currency": "usd",
			"customer_details": {"email": "sender@example.com"},
			"metadata": {"parcel_id": "11111111-2222-3333-4444-555555555555", "parcel_name": "Books"}
		}`), nil
	})

	session, err := v.Resolve(context.Background(), "cs_test_123")

	require.NoError(t, err)
	assert.Equal(t, "cs_test_123", session.ID)
	assert.True(t, session.IsPaid())
	assert.Equal(t, "pi_test_456", session.PaymentIntentID)
	assert.Equal(t, int64(1500), session.AmountTotal)
	assert.Equal(t, "sender@example.com", session.CustomerEmail, "should fall back to customer_details.email")
	assert.Equal(t, "11111111-2222-3333-4444-555555555555", session.ParcelID)
	assert.Equal(t, "Books", session.ParcelName)
}

func TestResolve_UnknownSession(t *testing.T) {
	v, client := newStripeVerifier(t)

	client.EXPECT().Do(gomock.Any()).Return(jsonResponse(404, `{"error": {"type": "invalid_request_error", "message": "No such checkout.session"}}`), nil)

	session, err := v.Resolve(context.Background(), "cs_gone")

	assert.Nil(t, session)
	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "EXT_001", appErr.Code)
	assert.Equal(t, 502, appErr.HTTPStatus)
	assert.Contains(t, appErr.Err.Error(), "No such checkout.session")
}

func TestResolve_APIError(t *testing.T) {
	v, client := newStripeVerifier(t)

	client.EXPECT().Do(gomock.Any()).Return(jsonResponse(500, `{"error": {"type": "api_error", "message": "boom"}}`), nil)

	_, err := v.Resolve(context.Background(), "cs_test_123")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "EXT_001", appErr.Code)
	assert.Contains(t, appErr.Err.Error(), "boom")
}

func TestResolve_TransportError(t *testing.T) {
	v, client := newStripeVerifier(t)

	client.EXPECT().Do(gomock.Any()).Return(nil, io.ErrUnexpectedEOF)

	_, err := v.Resolve(context.Background(), "cs_test_123")

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "EXT_001", appErr.Code)
}

func TestCreateCheckoutSession(t *testing.T) {
	v, client := newStripeVerifier(t)

	client.EXPECT().Do(gomock.Any()).DoAndReturn(func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, "https://api.stripe.test/v1/checkout/sessions", req.URL.String())
		assert.Equal(t, "application/x-www-form-urlencoded", req.Header.Get("Content-Type"))

		raw, err := io.ReadAll(req.Body)
		require.NoError(t, err)
		form, err := url.ParseQuery(string(raw))
		require.NoError(t, err)

		assert.Equal(t, "payment", form.Get("mode"))
		assert.Equal(t, "1500", form.Get("line_items[0][price_data][unit_amount]"))
		assert.Equal(t, "usd", form.Get("line_items[0][price_data][currency]"))
		assert.Equal(t, "Books", form.Get("line_items[0][price_data][product_data][name]"))
		assert.Equal(t, "parcel-1", form.Get("metadata[parcel_id]"))
		assert.Equal(t, "sender@example.com", form.Get("customer_email"))

		return jsonResponse(200, `{"id": "cs_new_789", "url": "https://checkout.stripe.test/pay/cs_new_789"}`), nil
	})

	session, err := v.CreateCheckoutSession(context.Background(), ports.CheckoutParams{
		ParcelID:      "parcel-1",
		ParcelName:    "Books",
		AmountMinor:   1500,
		Currency:      "usd",
		CustomerEmail: "sender@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "cs_new_789", session.ID)
	assert.Equal(t, "https://checkout.stripe.test/pay/cs_new_789", session.URL)
}

func TestCreateCheckoutSession_APIError(t *testing.T) {
	v, client := newStripeVerifier(t)

	client.EXPECT().Do(gomock.Any()).Return(jsonResponse(402, `{"error": {"type": "card_error", "message": "declined"}}`), nil)

	_, err := v.CreateCheckoutSession(context.Background(), ports.CheckoutParams{
		ParcelID: "parcel-1", ParcelName: "Books", AmountMinor: 1500, Currency: "usd",
	})

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "EXT_001", appErr.Code)
}
