package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. One authoritative set, shared by the schema and the
// status-update endpoint.
const (
	OrderStatusPending   = "Pending"
	OrderStatusBaking    = "Baking"
	OrderStatusShipped   = "Shipped"
	OrderStatusDelivered = "Delivered"
	OrderStatusReturned  = "Returned"
	OrderStatusCanceled  = "Canceled"
	OrderStatusRefunded  = "Refunded"
	OrderStatusCompleted = "Completed"
)

// Payment statuses
const (
	PaymentStatusUnpaid   = "Unpaid"
	PaymentStatusPaid     = "Paid"
	PaymentStatusRefunded = "Refunded"
)

// ValidOrderStatus reports whether s is a recognized order status.
func ValidOrderStatus(s string) bool {
	switch s {
	case OrderStatusPending, OrderStatusBaking, OrderStatusShipped, OrderStatusDelivered,
		OrderStatusReturned, OrderStatusCanceled, OrderStatusRefunded, OrderStatusCompleted:
		return true
	}
	return false
}

// OrderDetail is a snapshot line item, copied from the cart at order-creation
// time and never re-derived from the catalog afterward.
type OrderDetail struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	ItemType  string  `bson:"item_type" json:"item_type"`
	Name      string  `bson:"name" json:"name"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Subtotal  float64 `bson:"subtotal" json:"subtotal"`
}

// Payment is the payment sub-document of an order.
type Payment struct {
	PaymentMethod    string    `bson:"payment_method" json:"payment_method"`
	PaymentStatus    string    `bson:"payment_status" json:"payment_status"`
	PaymentDate      time.Time `bson:"payment_date,omitempty" json:"payment_date,omitempty"`
	PaymentReference string    `bson:"payment_reference,omitempty" json:"payment_reference,omitempty"`
	PaymentID        string    `bson:"payment_id,omitempty" json:"payment_id,omitempty"`
	RefundAmount     float64   `bson:"refund_amount,omitempty" json:"refund_amount,omitempty"`
	RefundReason     string    `bson:"refund_reason,omitempty" json:"refund_reason,omitempty"`
	RefundReference  string    `bson:"refund_reference,omitempty" json:"refund_reference,omitempty"`
}

// Delivery is the delivery sub-document of an order.
type Delivery struct {
	ShippingAddress       string    `bson:"shipping_address" json:"shipping_address"`
	ShippingStatus        string    `bson:"shipping_status" json:"shipping_status"`
	EstimatedDeliveryDate time.Time `bson:"estimated_delivery_date,omitempty" json:"estimated_delivery_date,omitempty"`
}

// Order is the durable record of a committed transaction. Its lifecycle is
// independent of the cart once created: the cart may be deleted while the
// order lives on. CheckoutID is unique: one order per payment session.
type Order struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	OrderID      string             `bson:"order_id" json:"order_id"`
	CartHeaderID string             `bson:"cart_header_id" json:"cart_header_id"`
	AccID        primitive.ObjectID `bson:"acc_id" json:"acc_id"`
	CheckoutID   string             `bson:"checkout_id,omitempty" json:"checkout_id,omitempty"`
	OrderDetails []OrderDetail      `bson:"order_details" json:"order_details"`
	TotalAmount  float64            `bson:"total_amount" json:"total_amount"`
	Payment      Payment            `bson:"payment" json:"payment"`
	Delivery     Delivery           `bson:"delivery" json:"delivery"`
	Status       string             `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updated_at"`
}
