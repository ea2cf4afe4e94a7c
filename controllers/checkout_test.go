package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"bakeshop-api/models"
)

func TestCanStartCheckout(t *testing.T) {
	cases := []struct {
		status string
		want   bool
	}{
		{models.CartStatusActive, true},
		{models.CartStatusSaved, true},
		{models.CartStatusCheckout, false},
		{models.CartStatusCompleted, false},
		{models.CartStatusAbandoned, false},
		{"bogus", false},
	}

	for _, tc := range cases {
		t.Run(tc.status, func(t *testing.T) {
			assert.Equal(t, tc.want, canStartCheckout(tc.status))
		})
	}
}

func TestCartOwnedBy(t *testing.T) {
	owner := primitive.NewObjectID()
	header := models.CartHeader{ID: "cart-1", UserID: owner}

	assert.True(t, cartOwnedBy(header, owner.Hex()))
	// Knowing a cart or checkout id is not enough to act on the cart.
	assert.False(t, cartOwnedBy(header, primitive.NewObjectID().Hex()))
	assert.False(t, cartOwnedBy(header, ""))
}

func TestBuildLineItems(t *testing.T) {
	lines := []models.CheckoutLine{
		{Name: "Chocolate Cake", Quantity: 2, Subtotal: 200},
		{Name: "Ube Cupcake", Quantity: 3, Subtotal: 150},
	}

	items := buildLineItems(lines)
	require.Len(t, items, 2)

	// Amounts are per-unit centavos, not line subtotals.
	assert.Equal(t, int64(10000), items[0].Amount)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, "PHP", items[0].Currency)
	assert.Equal(t, int64(5000), items[1].Amount)
	assert.Equal(t, 3, items[1].Quantity)
}

func TestNormalizeContact(t *testing.T) {
	got := normalizeContact(contactRequest{
		Name:  "Juan dela Cruz",
		Email: "juan@example.com",
		Phone: "0917 123 4567",
		Line1: "QC",
		City:  "Quezon City",
		State: "NCR",
	})

	assert.Equal(t, "+639171234567", got.Phone)
	assert.Equal(t, "QC...", got.Line1)
	assert.Equal(t, "Quezon City", got.City)
	assert.Equal(t, "NCR..", got.State)
	// Country defaults when the form leaves it blank.
	assert.Equal(t, "PH", got.Country)
}
