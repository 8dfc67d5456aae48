package api

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDecodePaymentStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want PaymentStatus
	}{
		{"Payment Complete", PaymentComplete},
		{"payment complete", PaymentComplete},
		{"Payment In Progress", PaymentInProgress},
		{"Payment Failed", PaymentFailed},
		{"Pending Payment", PaymentPending},
		{"", PaymentPending},
		{"something new", PaymentPending},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, DecodePaymentStatus(tc.raw), "raw=%q", tc.raw)
	}
}

func TestDecodeDeliveryStatus(t *testing.T) {
	cases := []struct {
		raw  string
		want DeliveryStatus
	}{
		{"Delivered", DeliveryDelivered},
		{"Out for Delivery", DeliveryOutForDelivery},
		{"", DeliveryPending},
		{"delivered", DeliveryPending},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, DecodeDeliveryStatus(tc.raw), "raw=%q", tc.raw)
	}
}

func TestOrderUnmarshalDecodesStatuses(t *testing.T) {
	raw := []byte(`{"id":5,"order_id":"SB-1","payment_status":"Payment Complete","status":"Out for Delivery","staff_id":3}`)
	var o Order
	require.NoError(t, o.UnmarshalJSON(raw))

	require.Equal(t, PaymentComplete, o.Payment)
	require.Equal(t, DeliveryOutForDelivery, o.Delivery)
	require.Equal(t, "Payment Complete", o.RawPayment)
	require.True(t, o.Claimed())
	require.Equal(t, uint(3), *o.StaffID)
}
