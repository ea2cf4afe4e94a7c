// controllers/cart.go
package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"bakeshop-api/models"
)

// CartController handles cart-related requests
type CartController struct {
	Headers  *mongo.Collection
	Items    *mongo.Collection
	Products *mongo.Collection
	Designs  *mongo.Collection
	Logger   *zap.SugaredLogger
}

// NewCartController creates a new CartController
func NewCartController(client *mongo.Client, dbName string, logger *zap.SugaredLogger) *CartController {
	db := client.Database(dbName)
	return &CartController{
		Headers:  db.Collection("cart_headers"),
		Items:    db.Collection("cart_items"),
		Products: db.Collection("products"),
		Designs:  db.Collection("cake_designs"),
		Logger:   logger,
	}
}

// findActiveCart returns the user's active cart header, or mongo.ErrNoDocuments.
func (cc *CartController) findActiveCart(ctx context.Context, userID primitive.ObjectID) (*models.CartHeader, error) {
	var header models.CartHeader
	err := cc.Headers.FindOne(ctx, bson.M{"user_id": userID, "status": models.CartStatusActive}).Decode(&header)
	if err != nil {
		return nil, err
	}
	return &header, nil
}

// touchCart bumps the header's updated_at.
func (cc *CartController) touchCart(ctx context.Context, cartID string) {
	_, err := cc.Headers.UpdateOne(ctx, bson.M{"_id": cartID}, bson.M{"$set": bson.M{"updated_at": time.Now()}})
	if err != nil {
		cc.Logger.Warnw("failed to touch cart", "cart_id", cartID, "error", err)
	}
}

type addToCartRequest struct {
	UserID       string  `json:"user_id"`
	ItemType     string  `json:"item_type"`
	ProductID    string  `json:"product_id,omitempty"`
	CakeDesignID string  `json:"cake_design_id,omitempty"`
	Quantity     int     `json:"quantity"`
	Price        float64 `json:"price"`
}

// AddToCart adds an item to the user's active cart, creating the cart if it
// does not exist yet. Adding an item that is already in the cart updates the
// existing line instead of inserting a duplicate.
func (cc *CartController) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}

	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		http.Error(w, "Quantity must be at least 1", http.StatusBadRequest)
		return
	}
	if req.ItemType != models.ItemTypeProduct && req.ItemType != models.ItemTypeCakeDesign {
		http.Error(w, "Invalid item type", http.StatusBadRequest)
		return
	}

	// itemType discriminates which reference must be present.
	var productID, designID *primitive.ObjectID
	var refName, refImage string
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	switch req.ItemType {
	case models.ItemTypeProduct:
		id, err := primitive.ObjectIDFromHex(req.ProductID)
		if err != nil {
			http.Error(w, "Invalid product ID", http.StatusBadRequest)
			return
		}
		productID = &id
		var product models.Product
		if err := cc.Products.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err == nil {
			refName = product.Name
			refImage = product.Image
		}
	case models.ItemTypeCakeDesign:
		id, err := primitive.ObjectIDFromHex(req.CakeDesignID)
		if err != nil {
			http.Error(w, "Invalid cake design ID", http.StatusBadRequest)
			return
		}
		designID = &id
		var design models.CakeDesign
		if err := cc.Designs.FindOne(ctx, bson.M{"_id": id}).Decode(&design); err == nil {
			refName = design.Name
			refImage = design.Image
		}
	}

	// Find or lazily create the active cart.
	header, err := cc.findActiveCart(ctx, userID)
	if err != nil {
		now := time.Now()
		header = &models.CartHeader{
			ID:        uuid.NewString(),
			UserID:    userID,
			Status:    models.CartStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := cc.Headers.InsertOne(ctx, header); err != nil {
			http.Error(w, "Error creating cart", http.StatusInternalServerError)
			return
		}
	}

	// Update in place if the same reference is already in the cart.
	itemFilter := bson.M{"cart_id": header.ID, "item_type": req.ItemType}
	if productID != nil {
		itemFilter["product_id"] = *productID
	} else {
		itemFilter["cake_design_id"] = *designID
	}

	var existing models.CartItem
	err = cc.Items.FindOne(ctx, itemFilter).Decode(&existing)
	if err == nil {
		update := bson.M{"$set": bson.M{
			"quantity":   existing.Quantity + req.Quantity,
			"price":      req.Price,
			"updated_at": time.Now(),
		}}
		if _, err := cc.Items.UpdateOne(ctx, bson.M{"_id": existing.ID}, update); err != nil {
			http.Error(w, "Error updating cart item", http.StatusInternalServerError)
			return
		}
		cc.touchCart(ctx, header.ID)
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "Item updated in cart", "cart_id": header.ID})
		return
	}

	now := time.Now()
	item := models.CartItem{
		CartID:       header.ID,
		ItemType:     req.ItemType,
		ProductID:    productID,
		CakeDesignID: designID,
		Quantity:     req.Quantity,
		Price:        req.Price,
		ProductName:  refName,
		ProductImage: refImage,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := cc.Items.InsertOne(ctx, item); err != nil {
		http.Error(w, "Error adding item to cart", http.StatusInternalServerError)
		return
	}
	cc.touchCart(ctx, header.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Item added to cart", "cart_id": header.ID})
}

// enrichedCartItem is a cart item with live catalog data resolved in.
type enrichedCartItem struct {
	models.CartItem
	Name          string  `json:"name"`
	Image         string  `json:"image,omitempty"`
	CurrentPrice  float64 `json:"current_price"`
	IsUnavailable bool    `json:"is_unavailable"`
}

// GetCart retrieves the user's active cart with items enriched from the
// catalog. Items whose product or design no longer resolves keep their
// last-known denormalized values and are flagged is_unavailable.
func (cc *CartController) GetCart(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	userID, err := primitive.ObjectIDFromHex(params["userId"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	header, err := cc.findActiveCart(ctx, userID)
	if err != nil {
		http.Error(w, "No active cart found", http.StatusNotFound)
		return
	}

	cursor, err := cc.Items.Find(ctx, bson.M{"cart_id": header.ID})
	if err != nil {
		http.Error(w, "Error fetching cart items", http.StatusInternalServerError)
		return
	}
	defer cursor.Close(ctx)

	enriched := []enrichedCartItem{}
	for cursor.Next(ctx) {
		var item models.CartItem
		if err := cursor.Decode(&item); err != nil {
			http.Error(w, "Error decoding cart item", http.StatusInternalServerError)
			return
		}
		enriched = append(enriched, cc.enrichItem(ctx, item))
	}
	if err := cursor.Err(); err != nil {
		http.Error(w, "Error reading cart items", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"cart_id": header.ID,
		"status":  header.Status,
		"items":   enriched,
	})
}

// enrichItem resolves live name/price/image for a cart item, falling back to
// the item's denormalized snapshot when the reference is gone.
func (cc *CartController) enrichItem(ctx context.Context, item models.CartItem) enrichedCartItem {
	out := enrichedCartItem{
		CartItem:     item,
		Name:         item.ProductName,
		Image:        item.ProductImage,
		CurrentPrice: item.Price,
	}

	switch item.ItemType {
	case models.ItemTypeProduct:
		if item.ProductID == nil {
			out.IsUnavailable = true
			return out
		}
		var product models.Product
		if err := cc.Products.FindOne(ctx, bson.M{"_id": *item.ProductID}).Decode(&product); err != nil {
			out.IsUnavailable = true
			return out
		}
		out.Name = product.Name
		out.Image = product.Image
		out.CurrentPrice = product.Price
	case models.ItemTypeCakeDesign:
		if item.CakeDesignID == nil {
			out.IsUnavailable = true
			return out
		}
		var design models.CakeDesign
		if err := cc.Designs.FindOne(ctx, bson.M{"_id": *item.CakeDesignID}).Decode(&design); err != nil {
			out.IsUnavailable = true
			return out
		}
		out.Name = design.Name
		out.Image = design.Image
		out.CurrentPrice = design.Price
	}
	return out
}

// RemoveItem removes an item from the user's active cart. Removing an item
// that is already gone succeeds: the post-condition holds either way.
func (cc *CartController) RemoveItem(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	userID, err := primitive.ObjectIDFromHex(params["userId"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	itemID, err := primitive.ObjectIDFromHex(params["itemId"])
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	header, err := cc.findActiveCart(ctx, userID)
	if err != nil {
		http.Error(w, "No active cart found", http.StatusNotFound)
		return
	}

	if _, err := cc.Items.DeleteOne(ctx, bson.M{"_id": itemID, "cart_id": header.ID}); err != nil {
		http.Error(w, "Error removing item", http.StatusInternalServerError)
		return
	}
	cc.touchCart(ctx, header.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Item removed from cart"})
}

// UpdateQuantity changes the quantity of a cart item. Quantities below 1 are
// rejected; removal is a separate operation.
func (cc *CartController) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	userID, err := primitive.ObjectIDFromHex(params["userId"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}
	itemID, err := primitive.ObjectIDFromHex(params["itemId"])
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if req.Quantity < 1 {
		http.Error(w, "Quantity must be at least 1", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	header, err := cc.findActiveCart(ctx, userID)
	if err != nil {
		http.Error(w, "No active cart found", http.StatusNotFound)
		return
	}

	result, err := cc.Items.UpdateOne(ctx,
		bson.M{"_id": itemID, "cart_id": header.ID},
		bson.M{"$set": bson.M{"quantity": req.Quantity, "updated_at": time.Now()}},
	)
	if err != nil {
		http.Error(w, "Error updating quantity", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "Item not found in cart", http.StatusNotFound)
		return
	}
	cc.touchCart(ctx, header.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Quantity updated"})
}

// ClearCart deletes all items in the user's active cart. The header itself
// survives.
func (cc *CartController) ClearCart(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	userID, err := primitive.ObjectIDFromHex(params["userId"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	header, err := cc.findActiveCart(ctx, userID)
	if err != nil {
		http.Error(w, "No active cart found", http.StatusNotFound)
		return
	}

	if _, err := cc.Items.DeleteMany(ctx, bson.M{"cart_id": header.ID}); err != nil {
		http.Error(w, "Error clearing cart", http.StatusInternalServerError)
		return
	}
	cc.touchCart(ctx, header.ID)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Cart cleared"})
}

// SetStatus updates the status of the user's most recent cart. Only the five
// known statuses are accepted.
func (cc *CartController) SetStatus(w http.ResponseWriter, r *http.Request) {
	params := mux.Vars(r)
	userID, err := primitive.ObjectIDFromHex(params["userId"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Status string `json:"status"`
		CartID string `json:"cart_id,omitempty"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid input", http.StatusBadRequest)
		return
	}
	if !models.ValidCartStatus(req.Status) {
		http.Error(w, "Invalid cart status", http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	filter := bson.M{"user_id": userID}
	if req.CartID != "" {
		filter["_id"] = req.CartID
	} else {
		filter["status"] = models.CartStatusActive
	}

	result, err := cc.Headers.UpdateOne(ctx, filter, bson.M{"$set": bson.M{
		"status":     req.Status,
		"updated_at": time.Now(),
	}})
	if err != nil {
		http.Error(w, "Error updating cart status", http.StatusInternalServerError)
		return
	}
	if result.MatchedCount == 0 {
		http.Error(w, "No active cart found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Cart status updated"})
}
