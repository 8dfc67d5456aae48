package backendstub_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/api"
	"github.com/VINCENT-bot354/-SAFARIBYTES/internal/backendstub"
)

type testEnv struct {
	client *api.Client
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := backendstub.InitDB(context.Background(), "", ":memory:")
	require.NoError(t, err)
	require.NoError(t, backendstub.Seed(db))

	e := echo.New()
	backendstub.New(db, []byte("test-secret")).Register(e)

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return &testEnv{client: api.NewClient(srv.URL)}
}

func (env *testEnv) customerToken(t *testing.T) string {
	t.Helper()
	res, err := env.client.Login(context.Background(), api.RoleCustomer, "customer@example.com", "customer1")
	require.NoError(t, err)
	return res.Token
}

func (env *testEnv) staffToken(t *testing.T) string {
	t.Helper()
	res, err := env.client.Login(context.Background(), api.RoleStaff, "rider@example.com", "delivery1")
	require.NoError(t, err)
	return res.Token
}

func (env *testEnv) placeOrder(t *testing.T, token, paymentMethod string) string {
	t.Helper()
	orderID, err := env.client.PlaceOrder(context.Background(), token, api.CreateOrderRequest{
		CustomerName:    "hungry",
		CustomerPhone:   "+254700000001",
		DeliveryAddress: "Moi Avenue 12, Nairobi",
		Items:           []api.OrderItem{{ProductID: 1, Name: "Chicken Biryani", Price: 650, Quantity: 1}},
		ProductTotal:    650,
		DeliveryFee:     100,
		TotalAmount:     750,
		PaymentMethod:   paymentMethod,
	})
	require.NoError(t, err)
	return orderID
}

func TestLoginAndProfiles(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.customerToken(t)
	profile, err := env.client.CustomerProfile(ctx, customer)
	require.NoError(t, err)
	require.Equal(t, "customer@example.com", profile.Email)

	res, err := env.client.Login(ctx, api.RoleStaff, "rider@example.com", "delivery1")
	require.NoError(t, err)
	require.True(t, res.NeedsTrackingLink)

	require.NoError(t, env.client.SetTrackingLink(ctx, res.Token, "https://maps.example.com/rider"))
	staff, err := env.client.StaffProfile(ctx, res.Token)
	require.NoError(t, err)
	require.Equal(t, "https://maps.example.com/rider", staff.TrackingLink)

	res, err = env.client.Login(ctx, api.RoleStaff, "rider@example.com", "delivery1")
	require.NoError(t, err)
	require.False(t, res.NeedsTrackingLink)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.client.Login(context.Background(), api.RoleCustomer, "customer@example.com", "wrong")
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestCashOrderLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.customerToken(t)
	staff := env.staffToken(t)
	require.NoError(t, env.client.SetTrackingLink(ctx, staff, "https://maps.example.com/rider"))

	orderID := env.placeOrder(t, customer, "Cash")
	require.Regexp(t, `^SB-[0-9A-F]{8}$`, orderID)

	orders, err := env.client.Orders(ctx, staff)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	id := orders[0].ID
	require.False(t, orders[0].Claimed())

	require.NoError(t, env.client.ClaimOrder(ctx, staff, id))

	// Second claim must be rejected with the server's own words.
	err = env.client.ClaimOrder(ctx, staff, id)
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "Order already claimed by another staff member", apiErr.Message)

	require.NoError(t, env.client.MarkPaid(ctx, staff, id))
	require.NoError(t, env.client.DeliverOrder(ctx, staff, id))

	orders, err = env.client.Orders(ctx, staff)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	o := orders[0]
	require.Equal(t, api.PaymentComplete, o.Payment)
	require.Equal(t, api.DeliveryDelivered, o.Delivery)
	require.True(t, o.IsArchived)
	require.NotNil(t, o.DeliveredAt)

	tracking, err := env.client.OrderTracking(ctx, id)
	require.NoError(t, err)
	require.True(t, tracking.Available)
	require.Equal(t, "https://maps.example.com/rider", tracking.Link)
}

func TestPaymentRequestFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.customerToken(t)
	staff := env.staffToken(t)
	env.placeOrder(t, customer, "Pay Now")

	orders, err := env.client.Orders(ctx, staff)
	require.NoError(t, err)
	id := orders[0].ID

	// Payment cannot be requested before the order is claimed.
	err = env.client.RequestPayment(ctx, staff, id, "+254700000001")
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "Claim the order before requesting payment", apiErr.Message)

	require.NoError(t, env.client.ClaimOrder(ctx, staff, id))
	require.NoError(t, env.client.RequestPayment(ctx, staff, id, "+254700000001"))

	orders, err = env.client.Orders(ctx, staff)
	require.NoError(t, err)
	require.Equal(t, api.PaymentInProgress, orders[0].Payment)
	require.Equal(t, "Payment In Progress", orders[0].RawPayment)
}

func TestUnclaimResetsAssignment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.customerToken(t)
	staff := env.staffToken(t)
	env.placeOrder(t, customer, "Cash")

	orders, _ := env.client.Orders(ctx, staff)
	id := orders[0].ID

	require.NoError(t, env.client.ClaimOrder(ctx, staff, id))
	require.NoError(t, env.client.UnclaimOrder(ctx, staff, id))

	orders, err := env.client.Orders(ctx, staff)
	require.NoError(t, err)
	require.False(t, orders[0].Claimed())
	require.Equal(t, api.DeliveryPending, orders[0].Delivery)
}

func TestOrderVisibleToCustomerAndStaff(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.customerToken(t)
	env.placeOrder(t, customer, "Cash")

	orders, err := env.client.Orders(ctx, customer)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	staff := env.staffToken(t)
	orders, err = env.client.Orders(ctx, staff)
	require.NoError(t, err)
	require.Len(t, orders, 1)
}

func TestNotificationsLifecycle(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.customerToken(t)
	staff := env.staffToken(t)
	env.placeOrder(t, customer, "Cash")

	orders, _ := env.client.Orders(ctx, staff)
	id := orders[0].ID
	require.NoError(t, env.client.ClaimOrder(ctx, staff, id))
	require.NoError(t, env.client.MarkPaid(ctx, staff, id))

	notifications, err := env.client.Notifications(ctx, customer)
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, "Payment Received", notifications[0].Title)
	require.False(t, notifications[0].IsRead)

	require.NoError(t, env.client.MarkNotificationRead(ctx, customer, notifications[0].ID))

	notifications, err = env.client.Notifications(ctx, customer)
	require.NoError(t, err)
	require.True(t, notifications[0].IsRead)

	err = env.client.MarkNotificationRead(ctx, customer, 9999)
	var apiErr *api.Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusNotFound, apiErr.Status)
}

func TestServerCartAccumulates(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	customer := env.customerToken(t)
	require.NoError(t, env.client.AddCartLine(ctx, customer, 1, 2))
	require.NoError(t, env.client.AddCartLine(ctx, customer, 1, 1))
	require.NoError(t, env.client.AddCartLine(ctx, customer, 2, 1))

	// Placing an order spends the server-side cart.
	env.placeOrder(t, customer, "Cash")
	require.NoError(t, env.client.AddCartLine(ctx, customer, 1, 1))
}

func TestProductsAndSettings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	products, err := env.client.Products(ctx)
	require.NoError(t, err)
	require.Len(t, products, 3)
	require.Equal(t, "Chicken Biryani", products[0].Name)
	require.InDelta(t, 650.0, products[0].PriceNow, 0.001)

	settings, err := env.client.Settings(ctx)
	require.NoError(t, err)
	require.InDelta(t, 100.0, settings.MinDeliveryFee, 0.001)
}
