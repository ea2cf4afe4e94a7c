package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Cart statuses
const (
	CartStatusActive    = "active"
	CartStatusSaved     = "saved"
	CartStatusCheckout  = "checkout"
	CartStatusCompleted = "completed"
	CartStatusAbandoned = "abandoned"
)

// Cart item types
const (
	ItemTypeProduct    = "product"
	ItemTypeCakeDesign = "cake_design"
)

// ValidCartStatus reports whether s is one of the five cart statuses.
func ValidCartStatus(s string) bool {
	switch s {
	case CartStatusActive, CartStatusSaved, CartStatusCheckout, CartStatusCompleted, CartStatusAbandoned:
		return true
	}
	return false
}

// CartHeader represents a user's shopping cart. One active cart per user at
// a time, by convention. The header id is an opaque string so it can be
// embedded in gateway reference numbers.
type CartHeader struct {
	ID              string             `bson:"_id" json:"id"`
	UserID          primitive.ObjectID `bson:"user_id" json:"user_id"`
	Status          string             `bson:"status" json:"status"`
	CheckoutID      string             `bson:"checkout_id,omitempty" json:"checkout_id,omitempty"`
	CheckoutData    *CheckoutData      `bson:"checkout_data,omitempty" json:"checkout_data,omitempty"`
	AbandonmentData *AbandonmentData   `bson:"abandonment_data,omitempty" json:"abandonment_data,omitempty"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// CartItem is a line item belonging to one CartHeader (logical join via
// CartID, not a DB foreign key). Exactly one of ProductID/CakeDesignID is
// populated, discriminated by ItemType. Name and image are denormalized so
// the cart still renders if the referenced product or design is deleted.
type CartItem struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id,omitempty"`
	CartID       string              `bson:"cart_id" json:"cart_id"`
	ItemType     string              `bson:"item_type" json:"item_type"`
	ProductID    *primitive.ObjectID `bson:"product_id,omitempty" json:"product_id,omitempty"`
	CakeDesignID *primitive.ObjectID `bson:"cake_design_id,omitempty" json:"cake_design_id,omitempty"`
	Quantity     int                 `bson:"quantity" json:"quantity"`
	Price        float64             `bson:"price" json:"price"`
	ProductName  string              `bson:"product_name" json:"product_name"`
	ProductImage string              `bson:"product_image,omitempty" json:"product_image,omitempty"`
	CreatedAt    time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `bson:"updated_at" json:"updated_at"`
}

// CheckoutLine is one computed line of a checkout snapshot.
type CheckoutLine struct {
	ProductID string  `bson:"product_id" json:"product_id"`
	ItemType  string  `bson:"item_type" json:"item_type"`
	Name      string  `bson:"name" json:"name"`
	Image     string  `bson:"image,omitempty" json:"image,omitempty"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	Subtotal  float64 `bson:"subtotal" json:"subtotal"`
}

// CheckoutData is the snapshot stored on the cart when checkout begins. It
// exists for reconciliation; the Order created on payment confirmation is
// the source of truth for final contents.
type CheckoutData struct {
	ReferenceNumber string         `bson:"reference_number" json:"reference_number"`
	Shipping        ContactDetails `bson:"shipping" json:"shipping"`
	Billing         ContactDetails `bson:"billing" json:"billing"`
	Lines           []CheckoutLine `bson:"lines" json:"lines"`
	TotalAmount     float64        `bson:"total_amount" json:"total_amount"`
	CreatedAt       time.Time      `bson:"created_at" json:"created_at"`
	ExpiresAt       time.Time      `bson:"expires_at" json:"expires_at"`
}

// ContactDetails carries the shipping/billing fields the payment gateway
// expects.
type ContactDetails struct {
	Name       string `bson:"name" json:"name"`
	Email      string `bson:"email" json:"email"`
	Phone      string `bson:"phone" json:"phone"`
	Line1      string `bson:"line1" json:"line1"`
	Line2      string `bson:"line2,omitempty" json:"line2,omitempty"`
	City       string `bson:"city" json:"city"`
	State      string `bson:"state" json:"state"`
	PostalCode string `bson:"postal_code" json:"postal_code"`
	Country    string `bson:"country" json:"country"`
}

// AbandonmentData records checkout-abandonment signals. Mutated only by the
// recovery subsystem; never changes the cart status by itself.
type AbandonmentData struct {
	Timestamp           time.Time `bson:"timestamp" json:"timestamp"`
	Reason              string    `bson:"reason" json:"reason"`
	CheckoutStage       string    `bson:"checkout_stage,omitempty" json:"checkout_stage,omitempty"`
	RecoveryAttempts    int       `bson:"recovery_attempts" json:"recovery_attempts"`
	LastRecoveryAttempt time.Time `bson:"last_recovery_attempt,omitempty" json:"last_recovery_attempt,omitempty"`
}
