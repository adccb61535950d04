package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

const trackingPrefix = "ZAP"

// NewTrackingID produces a human-readable shipment identifier: brand prefix,
// base-36 encoded current time, and a short random suffix, uppercased.
// Collision-resistant in practice; uniqueness is enforced structurally by the
// reconciliation engine issuing one ID per reconciled transaction.
func NewTrackingID() string {
	ts := strconv.FormatInt(time.Now().UnixMilli(), 36)

	suffix := make([]byte, 3)
	_, _ = rand.Read(suffix)

	return strings.ToUpper(fmt.Sprintf("%s-%s-%s", trackingPrefix, ts, hex.EncodeToString(suffix)))
}
