// controllers/snapshot.go
package controllers

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"bakeshop-api/models"
)

// snapshotCartItems copies a cart's current items into order-detail lines.
// Display fields resolve with a fallback chain: the item's denormalized
// value, then the referenced product or design, then a generic default. The
// live catalog price wins when the reference still resolves; the cart's
// snapshot price is only the fallback.
func snapshotCartItems(ctx context.Context, items, products, designs *mongo.Collection, cartID string) ([]models.OrderDetail, error) {
	cursor, err := items.Find(ctx, bson.M{"cart_id": cartID})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var details []models.OrderDetail
	for cursor.Next(ctx) {
		var item models.CartItem
		if err := cursor.Decode(&item); err != nil {
			return nil, err
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
				if err := products.FindOne(ctx, bson.M{"_id": *item.ProductID}).Decode(&product); err == nil {
					if name == "" {
						name = product.Name
					}
					if image == "" {
						image = product.Image
					}
					price = product.Price
				}
			}
		case models.ItemTypeCakeDesign:
			if item.CakeDesignID != nil {
				refID = item.CakeDesignID.Hex()
				var design models.CakeDesign
				if err := designs.FindOne(ctx, bson.M{"_id": *item.CakeDesignID}).Decode(&design); err == nil {
					if name == "" {
						name = design.Name
					}
					if image == "" {
						image = design.Image
					}
					price = design.Price
				}
			}
		}
		if name == "" {
			name = "Custom cake"
		}

		details = append(details, models.OrderDetail{
			ProductID: refID,
			ItemType:  item.ItemType,
			Name:      name,
			Image:     image,
			Quantity:  item.Quantity,
			Subtotal:  price * float64(item.Quantity),
		})
	}
	return details, cursor.Err()
}
