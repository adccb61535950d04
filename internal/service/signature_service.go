package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const signatureTolerance = 5 * time.Minute

// WebhookSignatureService verifies processor webhook signatures of the form
// "t=<unix>,v1=<hex hmac>" where the HMAC-SHA256 is computed over
// "<timestamp>.<payload>" with the endpoint secret.
type WebhookSignatureService struct {
	secret []byte
	now    func() time.Time
}

// NewWebhookSignatureService creates a new WebhookSignatureService.
func NewWebhookSignatureService(secret string) *WebhookSignatureService {
	return &WebhookSignatureService{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// Sign computes the v1 signature for payload at the given timestamp.
// Returns lowercase hex.
func (s *WebhookSignatureService) Sign(timestamp int64, payload []byte) string {
	mac := hmac.New(sha256.New, s.secret)
	fmt.Fprintf(mac, "%d.", timestamp)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// Verify checks the signature header against payload. The timestamp must be
// within tolerance to limit replay. Uses constant-time comparison.
func (s *WebhookSignatureService) Verify(payload []byte, header string) error {
	timestamp, signatures, err := parseSignatureHeader(header)
	if err != nil {
		return err
	}

	age := s.now().Sub(time.Unix(timestamp, 0))
	if age > signatureTolerance || age < -signatureTolerance {
		return fmt.Errorf("signature timestamp outside tolerance")
	}

	expected := s.Sign(timestamp, payload)
	for _, sig := range signatures {
		if hmac.Equal([]byte(expected), []byte(sig)) {
			return nil
		}
	}
	return fmt.Errorf("no matching v1 signature")
}

func parseSignatureHeader(header string) (int64, []string, error) {
	var timestamp int64 = -1
	var signatures []string

	for _, part := range strings.Split(header, ",") {
		k, v, found := strings.Cut(strings.TrimSpace(part), "=")
		if !found {
			continue
		}
		switch k {
		case "t":
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return 0, nil, fmt.Errorf("invalid signature timestamp")
			}
			timestamp = ts
		case "v1":
			signatures = append(signatures, v)
		}
	}

	if timestamp < 0 || len(signatures) == 0 {
		return 0, nil, fmt.Errorf("malformed signature header")
	}
	return timestamp, signatures, nil
}
