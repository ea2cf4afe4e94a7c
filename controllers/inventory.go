// controllers/inventory.go
package controllers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"bakeshop-api/models"
)

// clampDecrement floors a stock decrement at the remaining stock, so applying
// it can never push stock_quantity below zero.
func clampDecrement(stock, qty int) int {
	if qty > stock {
		qty = stock
	}
	if qty < 0 {
		return 0
	}
	return qty
}

// salesInc builds the update that takes decrement units off the shelf while
// crediting the full sold quantity to the sales counters.
func salesInc(decrement, sold int) bson.M {
	return bson.M{"$inc": bson.M{
		"stock_quantity":             -decrement,
		"sales_data.total_sold":      sold,
		"sales_data.last_week_sold":  sold,
		"sales_data.last_month_sold": sold,
	}}
}

// applySalesUpdates decrements stock and bumps sales counters for every
// product-backed order line. Each product update is independent: a failure
// is logged and the loop continues, because the order is already committed
// and is the source of truth. Every decrement is guarded by a stock filter,
// so concurrent finalizations cannot drive stock_quantity negative.
func applySalesUpdates(ctx context.Context, products *mongo.Collection, details []models.OrderDetail, logger *zap.SugaredLogger) {
	for _, detail := range details {
		if detail.ItemType != models.ItemTypeProduct {
			continue
		}
		productID, err := primitive.ObjectIDFromHex(detail.ProductID)
		if err != nil {
			logger.Warnw("skipping sales update for malformed product id", "product_id", detail.ProductID)
			continue
		}

		res, err := products.UpdateOne(ctx,
			bson.M{"_id": productID, "stock_quantity": bson.M{"$gte": detail.Quantity}},
			salesInc(detail.Quantity, detail.Quantity))
		if err != nil {
			logger.Warnw("failed to update product sales data", "product_id", detail.ProductID, "error", err)
			continue
		}
		if res.MatchedCount > 0 {
			continue
		}

		// Stock no longer covers the full quantity, or the product is gone.
		// Drain whatever is left, still guarded against racing decrements.
		var product models.Product
		if err := products.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			logger.Warnw("skipping sales update, product not found", "product_id", detail.ProductID, "error", err)
			continue
		}
		decrement := clampDecrement(product.StockQuantity, detail.Quantity)

		res, err = products.UpdateOne(ctx,
			bson.M{"_id": productID, "stock_quantity": bson.M{"$gte": decrement}},
			salesInc(decrement, detail.Quantity))
		if err != nil {
			logger.Warnw("failed to update product sales data", "product_id", detail.ProductID, "error", err)
			continue
		}
		if res.MatchedCount == 0 {
			logger.Warnw("skipping stock decrement, stock changed concurrently", "product_id", detail.ProductID)
		}
	}
}
