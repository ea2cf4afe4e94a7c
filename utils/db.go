// utils/db.go
package utils

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ConnectDB connects to MongoDB and verifies the connection with a ping.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	return client, nil
}

// EnsureIndexes creates the indexes the order flow depends on. The unique
// partial index on orders.checkout_id is the idempotency guard for the
// payment webhook: a second insert for the same checkout session is rejected
// by the database.
func EnsureIndexes(client *mongo.Client, dbName string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := client.Database(dbName)

	_, err := db.Collection("orders").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "checkout_id", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"checkout_id": bson.M{"$type": "string"}}),
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("cart_items").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "cart_id", Value: 1}},
	})
	if err != nil {
		return err
	}

	_, err = db.Collection("cart_headers").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "status", Value: 1}},
	})
	return err
}
