// jobs/best_sellers.go
package jobs

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"bakeshop-api/models"
)

// How many products carry the best-seller badge at a time.
const bestSellerCount = 5

// BestSellerJob recomputes best-seller ranks from the sales counters the
// order paths maintain.
type BestSellerJob struct {
	Products *mongo.Collection
	Logger   *zap.SugaredLogger
}

// NewBestSellerJob creates the job over the given database.
func NewBestSellerJob(client *mongo.Client, dbName string, logger *zap.SugaredLogger) *BestSellerJob {
	return &BestSellerJob{
		Products: client.Database(dbName).Collection("products"),
		Logger:   logger,
	}
}

// Run ranks the top sellers by last-month volume and clears the badge from
// everything else.
func (j *BestSellerJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "sales_data.last_month_sold", Value: -1}}).
		SetLimit(bestSellerCount)

	cursor, err := j.Products.Find(ctx, bson.M{"sales_data.last_month_sold": bson.M{"$gt": 0}}, opts)
	if err != nil {
		j.Logger.Errorw("best-seller recomputation failed to query", "error", err)
		return
	}
	defer cursor.Close(ctx)

	now := time.Now()
	rank := 0
	topIDs := []interface{}{}
	for cursor.Next(ctx) {
		var product models.Product
		if err := cursor.Decode(&product); err != nil {
			j.Logger.Warnw("best-seller recomputation failed to decode product", "error", err)
			continue
		}
		rank++
		topIDs = append(topIDs, product.ID)

		set := bson.M{
			"sales_data.best_seller_rank": rank,
			"sales_data.is_best_seller":   true,
		}
		if !product.SalesData.IsBestSeller {
			set["sales_data.best_seller_since"] = now
		}
		if _, err := j.Products.UpdateOne(ctx, bson.M{"_id": product.ID}, bson.M{"$set": set}); err != nil {
			j.Logger.Warnw("failed to update best-seller rank", "product_id", product.ID.Hex(), "error", err)
		}
	}
	if err := cursor.Err(); err != nil {
		j.Logger.Errorw("best-seller recomputation cursor error", "error", err)
		return
	}

	// Clear the badge from everything that fell out of the top.
	_, err = j.Products.UpdateMany(ctx,
		bson.M{"_id": bson.M{"$nin": topIDs}, "sales_data.is_best_seller": true},
		bson.M{
			"$set":   bson.M{"sales_data.is_best_seller": false},
			"$unset": bson.M{"sales_data.best_seller_rank": "", "sales_data.best_seller_since": ""},
		})
	if err != nil {
		j.Logger.Errorw("failed to clear stale best-seller badges", "error", err)
	}
}
