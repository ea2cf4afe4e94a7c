// gateway/paymongo.go
package gateway

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"time"
)

// EventTypeCheckoutPaid is the only webhook event type the order flow acts
// on; everything else is acknowledged and ignored.
const EventTypeCheckoutPaid = "checkout_session.payment.paid"

// Client is a thin wrapper over the PayMongo REST API. The secret key is
// injected at construction; nothing here reads the environment.
type Client struct {
	secretKey  string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a gateway client with the given secret key and base URL.
func NewClient(secretKey, baseURL string) *Client {
	return &Client{
		secretKey:  secretKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ToCentavos converts a peso amount to the integer centavos the gateway
// expects.
func ToCentavos(pesos float64) int64 {
	return int64(math.Round(pesos * 100))
}

// ToPesos converts gateway centavos back to pesos.
func ToPesos(centavos int64) float64 {
	return float64(centavos) / 100
}

// Address is the billing address block of a checkout session.
type Address struct {
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Billing identifies the paying customer.
type Billing struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

// LineItem is one purchasable line of a checkout session. Amount is in
// centavos.
type LineItem struct {
	Currency    string `json:"currency"`
	Amount      int64  `json:"amount"`
	Name        string `json:"name"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
}

// CheckoutSessionInput is everything needed to create a hosted checkout
// session.
type CheckoutSessionInput struct {
	Billing            Billing
	LineItems          []LineItem
	PaymentMethodTypes []string
	ReferenceNumber    string
	Description        string
	SuccessURL         string
	CancelURL          string
}

// CheckoutSession is the hosted session as returned by the gateway.
type CheckoutSession struct {
	ID              string
	CheckoutURL     string
	ReferenceNumber string
	Status          string
	LineItems       []LineItem
	Payments        []PaymentResource
}

// PaymentResource is a payment attached to a checkout session.
type PaymentResource struct {
	ID         string `json:"id"`
	Attributes struct {
		Amount int64  `json:"amount"`
		Status string `json:"status"`
		Source struct {
			Type string `json:"type"`
		} `json:"source"`
	} `json:"attributes"`
}

// Refund is a created refund.
type Refund struct {
	ID     string
	Amount int64
	Status string
}

// WebhookEvent is the envelope delivered to the payment webhook endpoint.
type WebhookEvent struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Type string          `json:"type"`
			Data SessionResource `json:"data"`
		} `json:"attributes"`
	} `json:"data"`
}

// SessionResource is the checkout session embedded in a webhook event.
type SessionResource struct {
	ID         string `json:"id"`
	Attributes struct {
		ReferenceNumber string            `json:"reference_number"`
		Status          string            `json:"status"`
		LineItems       []LineItem        `json:"line_items"`
		Payments        []PaymentResource `json:"payments"`
	} `json:"attributes"`
}

type sessionAttributes struct {
	CheckoutURL     string            `json:"checkout_url"`
	ReferenceNumber string            `json:"reference_number"`
	Status          string            `json:"status"`
	LineItems       []LineItem        `json:"line_items"`
	Payments        []PaymentResource `json:"payments"`
}

type sessionEnvelope struct {
	Data struct {
		ID         string            `json:"id"`
		Attributes sessionAttributes `json:"attributes"`
	} `json:"data"`
}

type refundEnvelope struct {
	Data struct {
		ID         string `json:"id"`
		Attributes struct {
			Amount int64  `json:"amount"`
			Status string `json:"status"`
		} `json:"attributes"`
	} `json:"data"`
}

type apiError struct {
	Errors []struct {
		Code   string `json:"code"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

// CreateCheckoutSession creates a hosted checkout session and returns its id
// and redirect URL.
func (c *Client) CreateCheckoutSession(ctx context.Context, input CheckoutSessionInput) (*CheckoutSession, error) {
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"attributes": map[string]interface{}{
				"billing":              input.Billing,
				"line_items":           input.LineItems,
				"payment_method_types": input.PaymentMethodTypes,
				"reference_number":     input.ReferenceNumber,
				"description":          input.Description,
				"success_url":          input.SuccessURL,
				"cancel_url":           input.CancelURL,
				"send_email_receipt":   true,
				"show_line_items":      true,
			},
		},
	}

	var env sessionEnvelope
	if err := c.do(ctx, http.MethodPost, "/checkout_sessions", payload, &env); err != nil {
		return nil, err
	}
	if env.Data.Attributes.CheckoutURL == "" {
		return nil, fmt.Errorf("gateway returned empty checkout URL")
	}

	return sessionFromEnvelope(&env), nil
}

// RetrieveCheckoutSession fetches a checkout session by id.
func (c *Client) RetrieveCheckoutSession(ctx context.Context, sessionID string) (*CheckoutSession, error) {
	var env sessionEnvelope
	if err := c.do(ctx, http.MethodGet, "/checkout_sessions/"+sessionID, nil, &env); err != nil {
		return nil, err
	}
	return sessionFromEnvelope(&env), nil
}

// ExpireCheckoutSession invalidates a hosted session so its payment link can
// no longer be used.
func (c *Client) ExpireCheckoutSession(ctx context.Context, sessionID string) error {
	var env sessionEnvelope
	return c.do(ctx, http.MethodPost, "/checkout_sessions/"+sessionID+"/expire", nil, &env)
}

// CreateRefund refunds amount centavos of the given payment.
func (c *Client) CreateRefund(ctx context.Context, paymentID string, amount int64, reason string) (*Refund, error) {
	if reason == "" {
		reason = "requested_by_customer"
	}
	payload := map[string]interface{}{
		"data": map[string]interface{}{
			"attributes": map[string]interface{}{
				"payment_id": paymentID,
				"amount":     amount,
				"reason":     reason,
			},
		},
	}

	var env refundEnvelope
	if err := c.do(ctx, http.MethodPost, "/refunds", payload, &env); err != nil {
		return nil, err
	}

	return &Refund{
		ID:     env.Data.ID,
		Amount: env.Data.Attributes.Amount,
		Status: env.Data.Attributes.Status,
	}, nil
}

func sessionFromEnvelope(env *sessionEnvelope) *CheckoutSession {
	return &CheckoutSession{
		ID:              env.Data.ID,
		CheckoutURL:     env.Data.Attributes.CheckoutURL,
		ReferenceNumber: env.Data.Attributes.ReferenceNumber,
		Status:          env.Data.Attributes.Status,
		LineItems:       env.Data.Attributes.LineItems,
		Payments:        env.Data.Attributes.Payments,
	}
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		jsonData, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to encode gateway request: %w", err)
		}
		body = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Basic "+base64.StdEncoding.EncodeToString([]byte(c.secretKey+":")))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to reach payment gateway: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr apiError
		if json.Unmarshal(respBody, &apiErr) == nil && len(apiErr.Errors) > 0 {
			return fmt.Errorf("gateway error (%d): %s", resp.StatusCode, apiErr.Errors[0].Detail)
		}
		return fmt.Errorf("gateway error (%d): %s", resp.StatusCode, string(respBody))
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("failed to parse gateway response: %w", err)
		}
	}
	return nil
}
