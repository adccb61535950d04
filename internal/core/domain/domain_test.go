package domain

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

var trackingIDRe = regexp.MustCompile(`^ZAP-[0-9A-Z]+-[0-9A-F]{6}$`)

func TestNewTrackingID_Format(t *testing.T) {
	id := NewTrackingID()

	assert.True(t, strings.HasPrefix(id, "ZAP-"), "should carry the brand prefix")
	assert.Regexp(t, trackingIDRe, id)
	assert.Equal(t, id, strings.ToUpper(id), "should be uppercased")
}

func TestNewTrackingID_NoRepeats(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		id := NewTrackingID()
		assert.False(t, seen[id], "tracking ID repeated: %s", id)
		seen[id] = true
	}
}

func TestPaymentSession_AmountMajor(t *testing.T) {
	tests := []struct {
		minor int64
		major float64
	}{
		{1500, 15.00},
		{99, 0.99},
		{100000, 1000.00},
		{1, 0.01},
	}

	for _, tt := range tests {
		s := &PaymentSession{AmountTotal: tt.minor}
		assert.Equal(t, tt.major, s.AmountMajor())
	}
}

func TestPaymentSession_IsPaid(t *testing.T) {
	paid := &PaymentSession{PaymentStatus: SessionStatusPaid}
	assert.True(t, paid.IsPaid())

	pending := &PaymentSession{PaymentStatus: SessionStatusUnpaid}
	assert.False(t, pending.IsPaid())
}

func TestParcel_Consistent(t *testing.T) {
	tracking := "ZAP-ABC-123456"

	tests := []struct {
		name       string
		parcel     Parcel
		consistent bool
	}{
		{"unpaid without tracking", Parcel{PaymentStatus: ParcelStatusUnpaid}, true},
		{"paid with tracking", Parcel{PaymentStatus: ParcelStatusPaid, TrackingID: &tracking}, true},
		{"paid without tracking", Parcel{PaymentStatus: ParcelStatusPaid}, false},
		{"unpaid with tracking", Parcel{PaymentStatus: ParcelStatusUnpaid, TrackingID: &tracking}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.consistent, tt.parcel.Consistent())
		})
	}
}
