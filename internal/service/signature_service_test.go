package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedSignatureService(secret string, now time.Time) *WebhookSignatureService {
	svc := NewWebhookSignatureService(secret)
	svc.now = func() time.Time { return now }
	return svc
}

func TestWebhookSignature_Valid(t *testing.T) {
	now := time.Unix(1700000000, 0)
	svc := fixedSignatureService("whsec_test", now)
	payload := []byte(`{"type":"checkout.session.completed"}`)

	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), svc.Sign(now.Unix(), payload))

	require.NoError(t, svc.Verify(payload, header))
}

func TestWebhookSignature_MultipleV1_OneMatches(t *testing.T) {
	now := time.Unix(1700000000, 0)
	svc := fixedSignatureService("whsec_test", now)
	payload := []byte(`{}`)

	header := fmt.Sprintf("t=%d,v1=deadbeef,v1=%s", now.Unix(), svc.Sign(now.Unix(), payload))

	require.NoError(t, svc.Verify(payload, header))
}

func TestWebhookSignature_WrongSecret(t *testing.T) {
	now := time.Unix(1700000000, 0)
	signer := fixedSignatureService("whsec_other", now)
	verifier := fixedSignatureService("whsec_test", now)
	payload := []byte(`{}`)

	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), signer.Sign(now.Unix(), payload))

	assert.Error(t, verifier.Verify(payload, header))
}

func TestWebhookSignature_TamperedPayload(t *testing.T) {
	now := time.Unix(1700000000, 0)
	svc := fixedSignatureService("whsec_test", now)

	header := fmt.Sprintf("t=%d,v1=%s", now.Unix(), svc.Sign(now.Unix(), []byte(`{"a":1}`)))

	assert.Error(t, svc.Verify([]byte(`{"a":2}`), header))
}

func TestWebhookSignature_StaleTimestamp(t *testing.T) {
	now := time.Unix(1700000000, 0)
	svc := fixedSignatureService("whsec_test", now)
	payload := []byte(`{}`)

	stale := now.Add(-signatureTolerance - time.Second).Unix()
	header := fmt.Sprintf("t=%d,v1=%s", stale, svc.Sign(stale, payload))

	assert.Error(t, svc.Verify(payload, header), "replayed timestamps must be rejected")
}

func TestWebhookSignature_MalformedHeader(t *testing.T) {
	svc := NewWebhookSignatureService("whsec_test")

	for _, header := range []string{"", "t=abc,v1=ff", "v1=ff", "t=123"} {
		assert.Error(t, svc.Verify([]byte(`{}`), header), "header %q should be rejected", header)
	}
}
