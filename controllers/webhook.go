// controllers/webhook.go
package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"bakeshop-api/gateway"
	"bakeshop-api/models"
	"bakeshop-api/utils"
)

// WebhookController consumes asynchronous payment events from the gateway.
// Every request is acknowledged with 200 no matter what happens inside: a
// non-2xx response makes the gateway retry indefinitely.
type WebhookController struct {
	Headers  *mongo.Collection
	Items    *mongo.Collection
	Orders   *mongo.Collection
	Products *mongo.Collection
	Designs  *mongo.Collection
	Users    *mongo.Collection
	Email    *utils.EmailService
	Logger   *zap.SugaredLogger
}

// NewWebhookController creates a new WebhookController
func NewWebhookController(client *mongo.Client, dbName string, emailService *utils.EmailService, logger *zap.SugaredLogger) *WebhookController {
	db := client.Database(dbName)
	return &WebhookController{
		Headers:  db.Collection("cart_headers"),
		Items:    db.Collection("cart_items"),
		Orders:   db.Collection("orders"),
		Products: db.Collection("products"),
		Designs:  db.Collection("cake_designs"),
		Users:    db.Collection("users"),
		Email:    emailService,
		Logger:   logger,
	}
}

// mapPaymentMethod translates the gateway's payment-source vocabulary to the
// internal one.
func mapPaymentMethod(sourceType string) string {
	switch sourceType {
	case "gcash":
		return "GCash"
	case "grab_pay":
		return "GrabPay"
	case "paymaya":
		return "Maya"
	case "card":
		return "Card"
	case "dob":
		return "Online Banking"
	default:
		return "Online Payment"
	}
}

// gatewayTotal sums the gateway's line items into pesos.
func gatewayTotal(lines []gateway.LineItem) float64 {
	total := 0.0
	for _, line := range lines {
		total += gateway.ToPesos(line.Amount) * float64(line.Quantity)
	}
	return total
}

// ack writes the 200 acknowledgment the gateway expects.
func ack(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"received": "true"})
}

// HandlePaymentWebhook processes a "checkout session paid" event: creates
// the authoritative Order, retires the cart, and updates inventory. All
// other event types, and all failures, are acknowledged and logged.
func (wc *WebhookController) HandlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	var event gateway.WebhookEvent
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		wc.Logger.Warnw("ignoring malformed webhook payload", "error", err)
		ack(w)
		return
	}

	if event.Data.Attributes.Type != gateway.EventTypeCheckoutPaid {
		ack(w)
		return
	}

	session := event.Data.Attributes.Data
	reference := session.Attributes.ReferenceNumber
	cartID, err := utils.ParseCartReference(reference)
	if err != nil {
		wc.Logger.Warnw("ignoring webhook with unparseable reference", "reference", reference, "error", err)
		ack(w)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var header models.CartHeader
	if err := wc.Headers.FindOne(ctx, bson.M{"_id": cartID}).Decode(&header); err != nil {
		// Cart already retired by an earlier delivery, or cleaned up
		// independently. Either way there is nothing left to do.
		wc.Logger.Infow("webhook for unknown cart, already processed?", "cart_id", cartID, "reference", reference)
		ack(w)
		return
	}

	if err := wc.finalizePaidCheckout(ctx, &header, &session, reference); err != nil {
		wc.Logger.Errorw("failed to finalize paid checkout", "cart_id", cartID, "reference", reference, "error", err)
	}
	ack(w)
}

// finalizePaidCheckout creates the order for a paid session and retires the
// cart. Partial failures after the order insert never roll the order back.
func (wc *WebhookController) finalizePaidCheckout(ctx context.Context, header *models.CartHeader, session *gateway.SessionResource, reference string) error {
	details, err := wc.buildOrderDetails(ctx, header.ID)
	if err != nil {
		return fmt.Errorf("failed to build order details: %w", err)
	}

	// The gateway's own line-item amounts are the authoritative total:
	// that is the amount the customer actually paid.
	total := gatewayTotal(session.Attributes.LineItems)

	paymentMethod := "Online Payment"
	paymentID := ""
	if len(session.Attributes.Payments) > 0 {
		paymentMethod = mapPaymentMethod(session.Attributes.Payments[0].Attributes.Source.Type)
		paymentID = session.Attributes.Payments[0].ID
	}

	shippingAddress := ""
	if header.CheckoutData != nil {
		s := header.CheckoutData.Shipping
		shippingAddress = fmt.Sprintf("%s, %s, %s %s", s.Line1, s.City, s.State, s.PostalCode)
	}

	now := time.Now()
	order := models.Order{
		OrderID:      generateOrderID(now),
		CartHeaderID: header.ID,
		AccID:        header.UserID,
		CheckoutID:   session.ID,
		OrderDetails: details,
		TotalAmount:  total,
		Payment: models.Payment{
			PaymentMethod:    paymentMethod,
			PaymentStatus:    models.PaymentStatusPaid,
			PaymentDate:      now,
			PaymentReference: reference,
			PaymentID:        paymentID,
		},
		Delivery: models.Delivery{
			ShippingAddress:       shippingAddress,
			ShippingStatus:        "Preparing",
			EstimatedDeliveryDate: now.AddDate(0, 0, 3),
		},
		Status:    models.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if _, err := wc.Orders.InsertOne(ctx, order); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			// Second delivery for the same checkout session; the unique
			// index on checkout_id is the real idempotency guard.
			wc.Logger.Infow("duplicate webhook delivery, order already exists", "checkout_id", session.ID)
			return nil
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	wc.retireCart(ctx, header.ID)
	applySalesUpdates(ctx, wc.Products, details, wc.Logger)
	wc.sendConfirmation(header.UserID, order)

	return nil
}

// buildOrderDetails snapshots the cart's current items into order lines.
func (wc *WebhookController) buildOrderDetails(ctx context.Context, cartID string) ([]models.OrderDetail, error) {
	return snapshotCartItems(ctx, wc.Items, wc.Products, wc.Designs, cartID)
}

// retireCart deletes the cart's items and header. If deletion fails the
// header is marked completed instead, so the cart never sits in checkout
// status forever and the hourly sweep won't resurrect it.
func (wc *WebhookController) retireCart(ctx context.Context, cartID string) {
	_, itemsErr := wc.Items.DeleteMany(ctx, bson.M{"cart_id": cartID})
	_, headerErr := wc.Headers.DeleteOne(ctx, bson.M{"_id": cartID})

	if itemsErr != nil || headerErr != nil {
		wc.Logger.Warnw("cart deletion failed, falling back to completed status",
			"cart_id", cartID, "items_error", itemsErr, "header_error", headerErr)
		_, err := wc.Headers.UpdateOne(ctx, bson.M{"_id": cartID}, bson.M{"$set": bson.M{
			"status":     models.CartStatusCompleted,
			"updated_at": time.Now(),
		}})
		if err != nil {
			wc.Logger.Errorw("failed to mark cart completed", "cart_id", cartID, "error", err)
		}
	}
}

func (wc *WebhookController) sendConfirmation(userID primitive.ObjectID, order models.Order) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := wc.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil || user.Email == "" {
		return
	}

	go func(email string) {
		if err := wc.Email.SendOrderConfirmationEmail(email, order); err != nil {
			wc.Logger.Warnw("failed to send order confirmation", "email", email, "error", err)
		}
	}(user.Email)
}
