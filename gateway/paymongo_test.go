package gateway

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToCentavos(t *testing.T) {
	assert.Equal(t, int64(10000), ToCentavos(100))
	assert.Equal(t, int64(9950), ToCentavos(99.5))
	assert.Equal(t, int64(1), ToCentavos(0.01))
	assert.Equal(t, int64(333), ToCentavos(3.33))
	assert.Equal(t, int64(0), ToCentavos(0))
}

func TestToPesos(t *testing.T) {
	assert.Equal(t, 100.0, ToPesos(10000))
	assert.Equal(t, 3.33, ToPesos(333))
}

func TestCreateCheckoutSession(t *testing.T) {
	var gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/checkout_sessions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"id": "cs_test_123",
				"attributes": map[string]interface{}{
					"checkout_url":     "https://checkout.example.com/cs_test_123",
					"reference_number": "CART-abc-123456",
					"status":           "active",
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient("sk_test_secret", server.URL)
	session, err := client.CreateCheckoutSession(context.Background(), CheckoutSessionInput{
		Billing: Billing{Name: "Juan", Email: "juan@example.com", Phone: "+639171234567"},
		LineItems: []LineItem{
			{Currency: "PHP", Amount: 10000, Name: "Chocolate Cake", Quantity: 2},
		},
		PaymentMethodTypes: []string{"card", "gcash"},
		ReferenceNumber:    "CART-abc-123456",
		SuccessURL:         "https://shop.example.com/checkout/success",
		CancelURL:          "https://shop.example.com/checkout",
	})
	require.NoError(t, err)

	assert.Equal(t, "cs_test_123", session.ID)
	assert.Equal(t, "https://checkout.example.com/cs_test_123", session.CheckoutURL)
	assert.Equal(t, "CART-abc-123456", session.ReferenceNumber)

	wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("sk_test_secret:"))
	assert.Equal(t, wantAuth, gotAuth)

	attrs := gotBody["data"].(map[string]interface{})["attributes"].(map[string]interface{})
	assert.Equal(t, "CART-abc-123456", attrs["reference_number"])
	assert.Len(t, attrs["line_items"], 1)
}

func TestCreateCheckoutSessionEmptyURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"id": "cs_test_123", "attributes": map[string]interface{}{}},
		})
	}))
	defer server.Close()

	client := NewClient("sk_test_secret", server.URL)
	_, err := client.CreateCheckoutSession(context.Background(), CheckoutSessionInput{})
	assert.ErrorContains(t, err, "empty checkout URL")
}

func TestGatewayErrorSurfacesDetail(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"errors": []map[string]string{
				{"code": "parameter_invalid", "detail": "details.phone format is invalid."},
			},
		})
	}))
	defer server.Close()

	client := NewClient("sk_test_secret", server.URL)
	_, err := client.CreateCheckoutSession(context.Background(), CheckoutSessionInput{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "details.phone format is invalid.")
}

func TestExpireCheckoutSession(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{"id": "cs_test_123", "attributes": map[string]interface{}{"status": "expired"}},
		})
	}))
	defer server.Close()

	client := NewClient("sk_test_secret", server.URL)
	err := client.ExpireCheckoutSession(context.Background(), "cs_test_123")
	require.NoError(t, err)
	assert.Equal(t, "/checkout_sessions/cs_test_123/expire", gotPath)
}

func TestCreateRefund(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/refunds", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]interface{}{
			"data": map[string]interface{}{
				"id": "ref_123",
				"attributes": map[string]interface{}{
					"amount": 10000,
					"status": "pending",
				},
			},
		})
	}))
	defer server.Close()

	client := NewClient("sk_test_secret", server.URL)
	refund, err := client.CreateRefund(context.Background(), "pay_123", 10000, "")
	require.NoError(t, err)

	assert.Equal(t, "ref_123", refund.ID)
	assert.Equal(t, int64(10000), refund.Amount)

	attrs := gotBody["data"].(map[string]interface{})["attributes"].(map[string]interface{})
	assert.Equal(t, "pay_123", attrs["payment_id"])
	// Empty reason defaults to the gateway's customer-request code.
	assert.Equal(t, "requested_by_customer", attrs["reason"])
}
