package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bakeshop-api/gateway"
)

func TestMapPaymentMethod(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"gcash", "GCash"},
		{"grab_pay", "GrabPay"},
		{"paymaya", "Maya"},
		{"card", "Card"},
		{"dob", "Online Banking"},
		{"something_new", "Online Payment"},
		{"", "Online Payment"},
	}

	for _, tc := range cases {
		t.Run(tc.source, func(t *testing.T) {
			assert.Equal(t, tc.want, mapPaymentMethod(tc.source))
		})
	}
}

// newTestWebhookController builds a controller that must not reach the
// database: only paths that bail out before any collection access may use it.
func newTestWebhookController() *WebhookController {
	return &WebhookController{Logger: zap.NewNop().Sugar()}
}

func postWebhook(t *testing.T, wc *WebhookController, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(body))
	rec := httptest.NewRecorder()
	wc.HandlePaymentWebhook(rec, req)
	return rec
}

func TestWebhookAcknowledgesMalformedPayload(t *testing.T) {
	rec := postWebhook(t, newTestWebhookController(), "this is not json")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookIgnoresOtherEventTypes(t *testing.T) {
	event := gateway.WebhookEvent{}
	event.Data.Attributes.Type = "payment.failed"
	body, err := json.Marshal(event)
	require.NoError(t, err)

	rec := postWebhook(t, newTestWebhookController(), string(body))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookAcknowledgesUnparseableReference(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(map[string]interface{}{
		"data": map[string]interface{}{
			"id": "evt_1",
			"attributes": map[string]interface{}{
				"type": gateway.EventTypeCheckoutPaid,
				"data": map[string]interface{}{
					"id": "cs_1",
					"attributes": map[string]interface{}{
						"reference_number": "garbage-reference",
					},
				},
			},
		},
	}))

	rec := postWebhook(t, newTestWebhookController(), buf.String())
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWebhookEventDecoding(t *testing.T) {
	payload := `{
		"data": {
			"id": "evt_abc",
			"attributes": {
				"type": "checkout_session.payment.paid",
				"data": {
					"id": "cs_abc",
					"attributes": {
						"reference_number": "CART-xyz-123456",
						"status": "paid",
						"line_items": [
							{"currency": "PHP", "amount": 10000, "name": "Chocolate Cake", "quantity": 2}
						],
						"payments": [
							{"id": "pay_1", "attributes": {"amount": 20000, "status": "paid", "source": {"type": "gcash"}}}
						]
					}
				}
			}
		}
	}`

	var event gateway.WebhookEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &event))

	assert.Equal(t, gateway.EventTypeCheckoutPaid, event.Data.Attributes.Type)
	session := event.Data.Attributes.Data
	assert.Equal(t, "cs_abc", session.ID)
	assert.Equal(t, "CART-xyz-123456", session.Attributes.ReferenceNumber)
	require.Len(t, session.Attributes.LineItems, 1)
	assert.Equal(t, int64(10000), session.Attributes.LineItems[0].Amount)
	require.Len(t, session.Attributes.Payments, 1)
	assert.Equal(t, "gcash", session.Attributes.Payments[0].Attributes.Source.Type)
}

func TestGatewayTotal(t *testing.T) {
	// The paid total comes from the gateway's line items, not a recompute
	// from the catalog.
	lines := []gateway.LineItem{
		{Amount: 10000, Quantity: 2},
		{Amount: 5000, Quantity: 3},
	}
	assert.Equal(t, 350.0, gatewayTotal(lines))
	assert.Equal(t, 0.0, gatewayTotal(nil))
}
