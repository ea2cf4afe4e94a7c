// jobs/abandoned_carts.go
package jobs

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"

	"bakeshop-api/models"
	"bakeshop-api/utils"
)

// Checkouts older than this are considered abandoned. The gateway's own
// session expiry is shorter; this sweep is the authoritative unstick
// mechanism for checkouts that never received a webhook and were never
// explicitly cancelled.
const abandonThreshold = time.Hour

// AbandonedCartJob resets stale checkout carts back to active and sends a
// re-engagement email where the owner's address resolves.
type AbandonedCartJob struct {
	Headers  *mongo.Collection
	Users    *mongo.Collection
	Email    *utils.EmailService
	Frontend string
	Logger   *zap.SugaredLogger
}

// NewAbandonedCartJob creates the job over the given database.
func NewAbandonedCartJob(client *mongo.Client, dbName string, emailService *utils.EmailService, frontendBaseURL string, logger *zap.SugaredLogger) *AbandonedCartJob {
	db := client.Database(dbName)
	return &AbandonedCartJob{
		Headers:  db.Collection("cart_headers"),
		Users:    db.Collection("users"),
		Email:    emailService,
		Frontend: frontendBaseURL,
		Logger:   logger,
	}
}

// staleCheckoutFilter selects carts stuck in checkout strictly longer than
// the threshold. $lt: a cart updated exactly at the boundary is not swept.
func staleCheckoutFilter(now time.Time) bson.M {
	return bson.M{
		"status":     models.CartStatusCheckout,
		"updated_at": bson.M{"$lt": now.Add(-abandonThreshold)},
	}
}

// Run performs one sweep.
func (j *AbandonedCartJob) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	now := time.Now()
	cursor, err := j.Headers.Find(ctx, staleCheckoutFilter(now))
	if err != nil {
		j.Logger.Errorw("abandoned cart sweep failed to query", "error", err)
		return
	}
	defer cursor.Close(ctx)

	swept := 0
	for cursor.Next(ctx) {
		var header models.CartHeader
		if err := cursor.Decode(&header); err != nil {
			j.Logger.Warnw("abandoned cart sweep failed to decode header", "error", err)
			continue
		}
		if err := j.recover(ctx, &header, now); err != nil {
			j.Logger.Warnw("failed to recover abandoned cart", "cart_id", header.ID, "error", err)
			continue
		}
		swept++
	}
	if err := cursor.Err(); err != nil {
		j.Logger.Errorw("abandoned cart sweep cursor error", "error", err)
	}
	if swept > 0 {
		j.Logger.Infow("abandoned cart sweep finished", "recovered", swept)
	}
}

// recover resets one stale cart to active and notifies the owner.
func (j *AbandonedCartJob) recover(ctx context.Context, header *models.CartHeader, now time.Time) error {
	_, err := j.Headers.UpdateOne(ctx, bson.M{"_id": header.ID, "status": models.CartStatusCheckout}, bson.M{
		"$set": bson.M{
			"status":                                 models.CartStatusActive,
			"updated_at":                             now,
			"abandonment_data.timestamp":             now,
			"abandonment_data.reason":                "checkout_timeout",
			"abandonment_data.last_recovery_attempt": now,
		},
		"$inc":   bson.M{"abandonment_data.recovery_attempts": 1},
		"$unset": bson.M{"checkout_id": ""},
	})
	if err != nil {
		return err
	}

	var user models.User
	if err := j.Users.FindOne(ctx, bson.M{"_id": header.UserID}).Decode(&user); err != nil || user.Email == "" {
		// No resolvable email; status reset alone is still the point.
		return nil
	}

	cartLink := fmt.Sprintf("%s/cart?recover=%s", j.Frontend, header.ID)
	if err := j.Email.SendCartRecoveryEmail(user.Email, user.Name, cartLink); err != nil {
		j.Logger.Warnw("failed to send recovery email", "email", user.Email, "cart_id", header.ID, "error", err)
	}
	return nil
}
