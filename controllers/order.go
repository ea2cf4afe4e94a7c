// controllers/order.go
package controllers

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"bakeshop-api/gateway"
	"bakeshop-api/middleware"
	"bakeshop-api/models"
	"bakeshop-api/utils"
)

// OrderController handles order-related requests
type OrderController struct {
	Orders   *mongo.Collection
	Headers  *mongo.Collection
	Items    *mongo.Collection
	Products *mongo.Collection
	Designs  *mongo.Collection
	Users    *mongo.Collection
	Gateway  *gateway.Client
	Email    *utils.EmailService
	Logger   *zap.SugaredLogger
}

// NewOrderController creates a new OrderController
func NewOrderController(client *mongo.Client, dbName string, gw *gateway.Client, emailService *utils.EmailService, logger *zap.SugaredLogger) *OrderController {
	db := client.Database(dbName)
	return &OrderController{
		Orders:   db.Collection("orders"),
		Headers:  db.Collection("cart_headers"),
		Items:    db.Collection("cart_items"),
		Products: db.Collection("products"),
		Designs:  db.Collection("cake_designs"),
		Users:    db.Collection("users"),
		Gateway:  gw,
		Email:    emailService,
		Logger:   logger,
	}
}

// generateOrderID builds the human-readable, time-based order identifier.
func generateOrderID(now time.Time) string {
	return fmt.Sprintf("ORD-%s-%04d", now.Format("20060102150405"), rand.Intn(10000))
}

type createCODOrderRequest struct {
	UserID          string `json:"user_id"`
	CartID          string `json:"cart_id"`
	ShippingAddress string `json:"shipping_address"`
}

// CreateCODOrder creates an order directly from the cart for cash on
// delivery, without waiting for a payment event. The cart is kept (flipped
// to checkout status) as history rather than deleted. An existing order for
// the same cart header is the idempotency check on this path.
func (oc *OrderController) CreateCODOrder(w http.ResponseWriter, r *http.Request) {
	var req createCODOrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.CartID == "" {
		http.Error(w, "Cart ID is required", http.StatusBadRequest)
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	var user models.User
	if err := oc.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	var header models.CartHeader
	if err := oc.Headers.FindOne(ctx, bson.M{"_id": req.CartID}).Decode(&header); err != nil {
		http.Error(w, "Cart not found", http.StatusNotFound)
		return
	}
	if !cartOwnedBy(header, req.UserID) {
		oc.Logger.Warnw("cart ownership mismatch on COD order",
			"cart_id", req.CartID, "owner", header.UserID.Hex(), "requester", req.UserID)
		http.Error(w, "Cart does not belong to this user", http.StatusForbidden)
		return
	}

	count, err := oc.Orders.CountDocuments(ctx, bson.M{"cart_header_id": header.ID})
	if err != nil {
		http.Error(w, "Database error", http.StatusInternalServerError)
		return
	}
	if count > 0 {
		http.Error(w, "An order already exists for this cart", http.StatusConflict)
		return
	}

	details, err := snapshotCartItems(ctx, oc.Items, oc.Products, oc.Designs, header.ID)
	if err != nil {
		http.Error(w, "Error reading cart items", http.StatusInternalServerError)
		return
	}
	if len(details) == 0 {
		http.Error(w, "Cart is empty", http.StatusBadRequest)
		return
	}

	total := 0.0
	for _, d := range details {
		total += d.Subtotal
	}

	now := time.Now()
	order := models.Order{
		OrderID:      generateOrderID(now),
		CartHeaderID: header.ID,
		AccID:        header.UserID,
		OrderDetails: details,
		TotalAmount:  total,
		Payment: models.Payment{
			PaymentMethod: "COD",
			PaymentStatus: models.PaymentStatusUnpaid,
		},
		Delivery: models.Delivery{
			ShippingAddress:       req.ShippingAddress,
			ShippingStatus:        "Preparing",
			EstimatedDeliveryDate: now.AddDate(0, 0, 3),
		},
		Status:    models.OrderStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	result, err := oc.Orders.InsertOne(ctx, order)
	if err != nil {
		http.Error(w, "Failed to create order", http.StatusInternalServerError)
		return
	}

	// COD carts stay around as history.
	_, err = oc.Headers.UpdateOne(ctx, bson.M{"_id": header.ID}, bson.M{"$set": bson.M{
		"status":     models.CartStatusCheckout,
		"updated_at": now,
	}})
	if err != nil {
		oc.Logger.Warnw("failed to update cart status after COD order", "cart_id", header.ID, "error", err)
	}

	applySalesUpdates(ctx, oc.Products, details, oc.Logger)

	if user.Email != "" {
		go func(email string) {
			if err := oc.Email.SendOrderConfirmationEmail(email, order); err != nil {
				oc.Logger.Warnw("failed to send order confirmation", "email", email, "error", err)
			}
		}(user.Email)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":           result.InsertedID,
		"order_id":     order.OrderID,
		"total_amount": total,
		"message":      "Order created successfully",
	})
}

// GetOrders retrieves all orders for the authenticated user
func (oc *OrderController) GetOrders(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var user models.User
	if err := oc.Users.FindOne(ctx, bson.M{"email": claims.Email}).Decode(&user); err != nil {
		http.Error(w, "User not found", http.StatusNotFound)
		return
	}

	cursor, err := oc.Orders.Find(ctx, bson.M{"acc_id": user.ID})
	if err != nil {
		http.Error(w, "Failed to retrieve orders", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			http.Error(w, "Error decoding order", http.StatusInternalServerError)
			return
		}
		orders = append(orders, order)
	}
	if err := cursor.Err(); err != nil {
		http.Error(w, "Cursor error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(orders)
}

// UpdateOrderStatus allows admin to move an order through its lifecycle
func (oc *OrderController) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok || claims.Role != "admin" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	vars := mux.Vars(r)
	orderID, err := primitive.ObjectIDFromHex(vars["id"])
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if !models.ValidOrderStatus(req.Status) {
		http.Error(w, "Invalid order status", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := oc.Orders.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": bson.M{
		"status":     req.Status,
		"updated_at": time.Now(),
	}})
	if err != nil {
		http.Error(w, "Failed to update order status", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Order status updated"})
}

type refundRequest struct {
	OrderID string  `json:"order_id"`
	Reason  string  `json:"reason,omitempty"`
	Amount  float64 `json:"amount,omitempty"`
}

// RefundOrder reverses a paid order's payment through the gateway and
// records the refund on the order. Stock and sales counters are not
// restored.
func (oc *OrderController) RefundOrder(w http.ResponseWriter, r *http.Request) {
	claims, ok := r.Context().Value(middleware.UserContextKey).(*utils.Claims)
	if !ok || claims.Role != "admin" {
		http.Error(w, "Forbidden", http.StatusForbidden)
		return
	}

	var req refundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.OrderID == "" {
		http.Error(w, "Order ID is required", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	orderID, err := primitive.ObjectIDFromHex(req.OrderID)
	if err != nil {
		http.Error(w, "Invalid order ID", http.StatusBadRequest)
		return
	}

	var order models.Order
	if err := oc.Orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(&order); err != nil {
		http.Error(w, "Order not found", http.StatusNotFound)
		return
	}

	if order.Payment.PaymentStatus != models.PaymentStatusPaid {
		http.Error(w, "Cannot refund an unpaid order", http.StatusBadRequest)
		return
	}
	if order.Payment.PaymentID == "" {
		http.Error(w, "Order has no payment reference to refund against", http.StatusBadRequest)
		return
	}

	amount := req.Amount
	if amount <= 0 || amount > order.TotalAmount {
		amount = order.TotalAmount
	}

	refund, err := oc.Gateway.CreateRefund(ctx, order.Payment.PaymentID, gateway.ToCentavos(amount), req.Reason)
	if err != nil {
		oc.Logger.Errorw("gateway refund failed", "order_id", req.OrderID, "error", err)
		http.Error(w, "Failed to create refund with payment gateway", http.StatusBadGateway)
		return
	}

	_, err = oc.Orders.UpdateOne(ctx, bson.M{"_id": orderID}, bson.M{"$set": bson.M{
		"payment.payment_status":   models.PaymentStatusRefunded,
		"payment.refund_amount":    amount,
		"payment.refund_reason":    req.Reason,
		"payment.refund_reference": refund.ID,
		"status":                   models.OrderStatusRefunded,
		"updated_at":               time.Now(),
	}})
	if err != nil {
		// The gateway refund went through; surface the inconsistency loudly.
		oc.Logger.Errorw("refund created but order update failed", "order_id", req.OrderID, "refund_id", refund.ID, "error", err)
		http.Error(w, "Refund created but order update failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":          "Refund processed",
		"refund_reference": refund.ID,
		"refund_amount":    amount,
	})
}
