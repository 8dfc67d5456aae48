package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActionRejectionCarriesServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Order already claimed"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.ClaimOrder(context.Background(), "tok", 1)
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, http.StatusConflict, apiErr.Status)
	require.Equal(t, "Order already claimed", apiErr.Message)
	require.Equal(t, "Order already claimed", apiErr.Error())
}

func TestActionSuccessFalseIsRejection(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "Phone number is required"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	err := client.RequestPayment(context.Background(), "tok", 1, "")

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, "Phone number is required", apiErr.Message)
}

func TestTransportFailureIsNotAPIError(t *testing.T) {
	client := NewClient("http://127.0.0.1:1")
	err := client.MarkPaid(context.Background(), "tok", 1)
	require.Error(t, err)

	var apiErr *Error
	require.False(t, errors.As(err, &apiErr))
}

func TestRequestCarriesBearerAndRequestID(t *testing.T) {
	var gotAuth, gotReqID string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotReqID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]Order{})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	_, err := client.Orders(context.Background(), "secret-token")
	require.NoError(t, err)
	require.Equal(t, "Bearer secret-token", gotAuth)
	require.NotEmpty(t, gotReqID)
}

func TestOrdersDecodesStatusesAtBoundary(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"id": 1, "payment_status": "Payment In Progress", "status": "Delivered"},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	orders, err := client.Orders(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, PaymentInProgress, orders[0].Payment)
	require.Equal(t, DeliveryDelivered, orders[0].Delivery)
}

func TestNotificationsUnwrapsEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"notifications": []map[string]any{
				{"id": 4, "title": "Payment Successful", "message": "Order SB-1 paid", "is_read": false},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	notifications, err := client.Notifications(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, uint(4), notifications[0].ID)
	require.False(t, notifications[0].IsRead)
}
