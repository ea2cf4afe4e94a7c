package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SalesData tracks aggregate sales counters for a product. The counters are
// incremented by every order-creation path; the rank fields are produced by
// the scheduled best-seller recomputation.
type SalesData struct {
	TotalSold       int       `bson:"total_sold" json:"total_sold"`
	LastWeekSold    int       `bson:"last_week_sold" json:"last_week_sold"`
	LastMonthSold   int       `bson:"last_month_sold" json:"last_month_sold"`
	BestSellerRank  int       `bson:"best_seller_rank,omitempty" json:"best_seller_rank,omitempty"`
	BestSellerSince time.Time `bson:"best_seller_since,omitempty" json:"best_seller_since,omitempty"`
	IsBestSeller    bool      `bson:"is_best_seller" json:"is_best_seller"`
}

// Product represents a catalog product.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	Price         float64            `bson:"price" json:"price"`
	Image         string             `bson:"image,omitempty" json:"image,omitempty"`
	Category      string             `bson:"category,omitempty" json:"category,omitempty"`
	StockQuantity int                `bson:"stock_quantity" json:"stock_quantity"`
	SalesData     SalesData          `bson:"sales_data" json:"sales_data"`
	CreatedAt     time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updated_at"`
}
