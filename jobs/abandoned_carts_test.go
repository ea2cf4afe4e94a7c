package jobs

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"bakeshop-api/models"
)

func TestStaleCheckoutFilter(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	filter := staleCheckoutFilter(now)

	assert.Equal(t, models.CartStatusCheckout, filter["status"])

	updatedAt, ok := filter["updated_at"].(bson.M)
	require.True(t, ok)

	// $lt means strictly older than one hour: a cart updated exactly at the
	// boundary is not swept.
	bound, ok := updatedAt["$lt"].(time.Time)
	require.True(t, ok)
	assert.Equal(t, now.Add(-time.Hour), bound)

	_, hasLTE := updatedAt["$lte"]
	assert.False(t, hasLTE)
}
