package orders

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/api"
)

func orderWith(t *testing.T, payment, delivery string) *api.Order {
	t.Helper()
	raw, err := json.Marshal(map[string]string{
		"payment_status": payment,
		"status":         delivery,
	})
	require.NoError(t, err)
	var o api.Order
	require.NoError(t, json.Unmarshal(raw, &o))
	return &o
}

func TestCustomerViewCollapsesBothAxes(t *testing.T) {
	cases := []struct {
		name      string
		payment   string
		delivery  string
		wantLabel string
		wantClass string
	}{
		{"paid not delivered", "Payment Complete", "", "Paid", "status-payment-successful"},
		{"paid and delivered", "Payment Complete", "Delivered", "Delivered", "status-delivered"},
		{"delivered while payment pending", "Payment In Progress", "Delivered", "Delivered", "status-delivered"},
		{"payment failed", "Payment Failed", "", "Pending Payment", "status-payment-failed"},
		{"nothing yet", "Pending Payment", "", "Pending Payment", "status-payment-progress"},
		{"unknown payment text", "Queued", "", "Pending Payment", "status-payment-progress"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := CustomerView(orderWith(t, tc.payment, tc.delivery))
			require.Equal(t, Badge{Label: tc.wantLabel, Class: tc.wantClass}, got)
		})
	}
}

func TestStaffViewKeepsAxesIndependent(t *testing.T) {
	o := orderWith(t, "Payment Complete", "")
	got := StaffView(o)
	require.Equal(t, Badge{Label: "Payment Complete", Class: "status-complete"}, got.Payment)
	require.Equal(t, Badge{Label: "Pending", Class: "status-pending"}, got.Delivery)

	o = orderWith(t, "Payment In Progress", "Delivered")
	got = StaffView(o)
	require.Equal(t, Badge{Label: "Payment In Progress", Class: "status-progress"}, got.Payment)
	require.Equal(t, Badge{Label: "Delivered", Class: "status-delivered"}, got.Delivery)

	o = orderWith(t, "Payment Failed", "Out for Delivery")
	got = StaffView(o)
	require.Equal(t, "status-failed", got.Payment.Class)
	require.Equal(t, "status-progress", got.Delivery.Class)
}

func TestProjectionIsStable(t *testing.T) {
	o := orderWith(t, "Payment In Progress", "Out for Delivery")
	first := CustomerView(o)
	second := CustomerView(o)
	require.Equal(t, first, second)

	staffFirst := StaffView(o)
	staffSecond := StaffView(o)
	require.Equal(t, staffFirst, staffSecond)
}
