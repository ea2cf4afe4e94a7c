package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CakeDesign is a custom cake saved from the decorator. The decorator itself
// is external; the cart and order flows only need the priced, displayable
// record.
type CakeDesign struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	AccID       primitive.ObjectID `bson:"acc_id" json:"acc_id"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Image       string             `bson:"image,omitempty" json:"image,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}
