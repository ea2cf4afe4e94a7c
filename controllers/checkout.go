// controllers/checkout.go
package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"bakeshop-api/gateway"
	"bakeshop-api/models"
	"bakeshop-api/utils"
)

// How long a hosted checkout session is considered fresh. The gateway
// enforces its own expiry; this only feeds the checkout_data snapshot.
const checkoutWindow = time.Hour

// CheckoutController drives the cart-to-payment-session flow.
type CheckoutController struct {
	Headers  *mongo.Collection
	Items    *mongo.Collection
	Products *mongo.Collection
	Designs  *mongo.Collection
	Users    *mongo.Collection
	Gateway  *gateway.Client
	Frontend string
	Logger   *zap.SugaredLogger
}

// NewCheckoutController creates a new CheckoutController
func NewCheckoutController(client *mongo.Client, dbName string, gw *gateway.Client, frontendBaseURL string, logger *zap.SugaredLogger) *CheckoutController {
	db := client.Database(dbName)
	return &CheckoutController{
		Headers:  db.Collection("cart_headers"),
		Items:    db.Collection("cart_items"),
		Products: db.Collection("products"),
		Designs:  db.Collection("cake_designs"),
		Users:    db.Collection("users"),
		Gateway:  gw,
		Frontend: frontendBaseURL,
		Logger:   logger,
	}
}

// canStartCheckout reports whether a cart in the given status may begin
// checkout. Anything already in checkout (or terminal) is rejected, which is
// what prevents double-checkout.
func canStartCheckout(status string) bool {
	return status == models.CartStatusActive || status == models.CartStatusSaved
}

// cartOwnedBy reports whether the cart header belongs to the requesting
// user. Comparison is on string forms, tolerant of id-type drift.
func cartOwnedBy(header models.CartHeader, userID string) bool {
	return userID != "" && header.UserID.Hex() == userID
}

type contactRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type createCheckoutRequest struct {
	UserID    string         `json:"user_id"`
	CartID    string         `json:"cart_id"`
	Shipping  contactRequest `json:"shipping_details"`
	Billing   contactRequest `json:"billing_details"`
	CancelURL string         `json:"cancel_url,omitempty"`
}

// normalizeContact applies the gateway's input rules to user-entered contact
// details.
func normalizeContact(c contactRequest) models.ContactDetails {
	country := c.Country
	if country == "" {
		country = "PH"
	}
	return models.ContactDetails{
		Name:       c.Name,
		Email:      c.Email,
		Phone:      utils.NormalizePhone(c.Phone),
		Line1:      utils.NormalizeAddressLine(c.Line1, "N/A..", 100),
		Line2:      c.Line2,
		City:       utils.NormalizeAddressLine(c.City, "N/A..", 100),
		State:      utils.NormalizeAddressLine(c.State, "N/A..", 100),
		PostalCode: c.PostalCode,
		Country:    country,
	}
}

// buildLineItems converts computed checkout lines into gateway line items.
// Amounts are per-unit centavos.
func buildLineItems(lines []models.CheckoutLine) []gateway.LineItem {
	items := make([]gateway.LineItem, 0, len(lines))
	for _, line := range lines {
		unit := line.Subtotal / float64(line.Quantity)
		items = append(items, gateway.LineItem{
			Currency: "PHP",
			Amount:   gateway.ToCentavos(unit),
			Name:     line.Name,
			Quantity: line.Quantity,
		})
	}
	return items
}

// computeCheckoutLines builds the priced lines for a cart from live catalog
// prices. The cart's snapshot price is only a fallback for items whose
// reference no longer resolves.
func (cc *CheckoutController) computeCheckoutLines(ctx context.Context, cartID string) ([]models.CheckoutLine, float64, error) {
	cursor, err := cc.Items.Find(ctx, bson.M{"cart_id": cartID})
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var lines []models.CheckoutLine
	total := 0.0
	for cursor.Next(ctx) {
		var item models.CartItem
		if err := cursor.Decode(&item); err != nil {
			return nil, 0, err
		}

		name := item.ProductName
		image := item.ProductImage
		price := item.Price
		refID := ""

		switch item.ItemType {
		case models.ItemTypeProduct:
			if item.ProductID != nil {
				refID = item.ProductID.Hex()
				var product models.Product
				if err := cc.Products.FindOne(ctx, bson.M{"_id": *item.ProductID}).Decode(&product); err == nil {
					name = product.Name
					image = product.Image
					price = product.Price
				}
			}
		case models.ItemTypeCakeDesign:
			if item.CakeDesignID != nil {
				refID = item.CakeDesignID.Hex()
				var design models.CakeDesign
				if err := cc.Designs.FindOne(ctx, bson.M{"_id": *item.CakeDesignID}).Decode(&design); err == nil {
					name = design.Name
					image = design.Image
					price = design.Price
				}
			}
		}
		if name == "" {
			name = "Custom cake"
		}

		subtotal := price * float64(item.Quantity)
		total += subtotal
		lines = append(lines, models.CheckoutLine{
			ProductID: refID,
			ItemType:  item.ItemType,
			Name:      name,
			Image:     image,
			Quantity:  item.Quantity,
			Subtotal:  subtotal,
		})
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, err
	}
	return lines, total, nil
}

// CreateCheckout validates the cart, snapshots checkout data on it, creates
// a hosted payment session, and flips the cart to checkout status. The
// status flip happens only after the gateway call succeeds, so a gateway
// failure leaves the cart editable.
func (cc *CheckoutController) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	var req createCheckoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.CartID == "" {
		http.Error(w, "Cart ID is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var header models.CartHeader
	if err := cc.Headers.FindOne(ctx, bson.M{"_id": req.CartID}).Decode(&header); err != nil {
		http.Error(w, "Cart not found", http.StatusNotFound)
		return
	}

	if !cartOwnedBy(header, req.UserID) {
		cc.Logger.Warnw("cart ownership mismatch",
			"cart_id", req.CartID, "owner", header.UserID.Hex(), "requester", req.UserID)
		http.Error(w, "Cart does not belong to this user", http.StatusForbidden)
		return
	}

	if !canStartCheckout(header.Status) {
		http.Error(w, fmt.Sprintf("Cart in status %q cannot start checkout", header.Status), http.StatusConflict)
		return
	}

	lines, total, err := cc.computeCheckoutLines(ctx, header.ID)
	if err != nil {
		http.Error(w, "Error computing cart total", http.StatusInternalServerError)
		return
	}
	if len(lines) == 0 {
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		return
	}

	now := time.Now()
	reference := utils.BuildCartReference(header.ID, now)
	shipping := normalizeContact(req.Shipping)
	billing := normalizeContact(req.Billing)

	// Snapshot before contacting the gateway, so a crash mid-call still
	// leaves a recoverable trail on the cart.
	checkoutData := models.CheckoutData{
		ReferenceNumber: reference,
		Shipping:        shipping,
		Billing:         billing,
		Lines:           lines,
		TotalAmount:     total,
		CreatedAt:       now,
		ExpiresAt:       now.Add(checkoutWindow),
	}
	_, err = cc.Headers.UpdateOne(ctx, bson.M{"_id": header.ID}, bson.M{"$set": bson.M{
		"checkout_data": checkoutData,
		"updated_at":    now,
	}})
	if err != nil {
		http.Error(w, "Error saving checkout data", http.StatusInternalServerError)
		return
	}

	cancelURL := req.CancelURL
	if cancelURL == "" {
		cancelURL = cc.Frontend + "/checkout"
	}

	session, err := cc.Gateway.CreateCheckoutSession(ctx, gateway.CheckoutSessionInput{
		Billing: gateway.Billing{
			Name:  billing.Name,
			Email: billing.Email,
			Phone: billing.Phone,
			Address: gateway.Address{
				Line1:      billing.Line1,
				Line2:      billing.Line2,
				City:       billing.City,
				State:      billing.State,
				PostalCode: billing.PostalCode,
				Country:    billing.Country,
			},
		},
		LineItems:          buildLineItems(lines),
		PaymentMethodTypes: []string{"card", "gcash", "grab_pay", "paymaya"},
		ReferenceNumber:    reference,
		Description:        "Bakeshop order",
		SuccessURL:         cc.Frontend + "/checkout/success",
		CancelURL:          cancelURL,
	})
	if err != nil {
		cc.Logger.Errorw("failed to create checkout session", "cart_id", header.ID, "error", err)
		http.Error(w, "Failed to create payment session. Please try again.", http.StatusBadGateway)
		return
	}

	_, err = cc.Headers.UpdateOne(ctx, bson.M{"_id": header.ID}, bson.M{"$set": bson.M{
		"checkout_id": session.ID,
		"status":      models.CartStatusCheckout,
		"updated_at":  time.Now(),
	}})
	if err != nil {
		// The session exists but the cart never flipped; the hourly sweep or
		// the webhook will reconcile.
		cc.Logger.Errorw("failed to mark cart as checkout", "cart_id", header.ID, "checkout_id", session.ID, "error", err)
		http.Error(w, "Error updating cart status", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"checkout_id":      session.ID,
		"checkout_url":     session.CheckoutURL,
		"reference_number": reference,
	})
}

// CancelCheckout resets a cart in checkout back to active, identified by
// cart id or checkout id. The gateway session is expired best-effort:
// cancellation always succeeds from the user's point of view.
func (cc *CheckoutController) CancelCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID     string `json:"user_id"`
		CheckoutID string `json:"checkout_id,omitempty"`
		CartID     string `json:"cart_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.CheckoutID == "" && req.CartID == "" {
		http.Error(w, "Either cart_id or checkout_id is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	filter := bson.M{}
	if req.CartID != "" {
		filter["_id"] = req.CartID
	} else {
		filter["checkout_id"] = req.CheckoutID
	}

	var header models.CartHeader
	if err := cc.Headers.FindOne(ctx, filter).Decode(&header); err != nil {
		// Nothing to cancel; the post-condition already holds.
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Checkout cancelled"})
		return
	}

	if !cartOwnedBy(header, req.UserID) {
		cc.Logger.Warnw("cart ownership mismatch on cancel",
			"cart_id", header.ID, "owner", header.UserID.Hex(), "requester", req.UserID)
		http.Error(w, "Cart does not belong to this user", http.StatusForbidden)
		return
	}

	if header.Status == models.CartStatusCheckout {
		_, err := cc.Headers.UpdateOne(ctx, bson.M{"_id": header.ID}, bson.M{
			"$set":   bson.M{"status": models.CartStatusActive, "updated_at": time.Now()},
			"$unset": bson.M{"checkout_id": ""},
		})
		if err != nil {
			http.Error(w, "Error cancelling checkout", http.StatusInternalServerError)
			return
		}
	}

	if header.CheckoutID != "" {
		if err := cc.Gateway.ExpireCheckoutSession(ctx, header.CheckoutID); err != nil {
			cc.Logger.Warnw("failed to expire checkout session", "checkout_id", header.CheckoutID, "error", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Checkout cancelled"})
}

// RecoverCheckout flips a user's stuck checkout cart back to active and
// counts the recovery attempt. Used when a user returns to an old tab.
func (cc *CheckoutController) RecoverCheckout(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"user_id"`
		CartID string `json:"cart_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.CartID == "" {
		http.Error(w, "Cart ID is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var header models.CartHeader
	if err := cc.Headers.FindOne(ctx, bson.M{"_id": req.CartID}).Decode(&header); err != nil {
		http.Error(w, "Cart not found", http.StatusNotFound)
		return
	}
	if !cartOwnedBy(header, req.UserID) {
		http.Error(w, "Cart does not belong to this user", http.StatusForbidden)
		return
	}
	if header.Status != models.CartStatusCheckout {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Cart is not in checkout", "status": header.Status})
		return
	}

	now := time.Now()
	_, err := cc.Headers.UpdateOne(ctx, bson.M{"_id": header.ID}, bson.M{
		"$set": bson.M{
			"status":                                 models.CartStatusActive,
			"updated_at":                             now,
			"abandonment_data.last_recovery_attempt": now,
		},
		"$inc":   bson.M{"abandonment_data.recovery_attempts": 1},
		"$unset": bson.M{"checkout_id": ""},
	})
	if err != nil {
		http.Error(w, "Error recovering cart", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Cart recovered", "cart_id": header.ID})
}

// AbandonSignal records a best-effort abandonment signal from the checkout
// page (unload beacon, back navigation). It only logs intent on the cart;
// the status is untouched because payment may still complete.
func (cc *CheckoutController) AbandonSignal(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CheckoutID string `json:"checkout_id,omitempty"`
		CartID     string `json:"cart_id,omitempty"`
		Reason     string `json:"reason,omitempty"`
		Stage      string `json:"checkout_stage,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{}
	switch {
	case req.CartID != "":
		filter["_id"] = req.CartID
	case req.CheckoutID != "":
		filter["checkout_id"] = req.CheckoutID
	default:
		http.Error(w, "Either cart_id or checkout_id is required", http.StatusBadRequest)
		return
	}

	reason := req.Reason
	if reason == "" {
		reason = "page_unload"
	}

	_, err := cc.Headers.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"abandonment_data.timestamp":      time.Now(),
		"abandonment_data.reason":         reason,
		"abandonment_data.checkout_stage": req.Stage,
	}})
	if err != nil {
		cc.Logger.Warnw("failed to record abandonment signal", "cart_id", req.CartID, "error", err)
	}

	// Beacon senders don't read the body; always acknowledge.
	w.WriteHeader(http.StatusOK)
}
