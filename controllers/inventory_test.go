package controllers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
)

func TestClampDecrement(t *testing.T) {
	cases := []struct {
		name  string
		stock int
		qty   int
		want  int
	}{
		{"ample stock", 10, 3, 3},
		{"stock below quantity", 1, 3, 1},
		{"stock equals quantity", 2, 2, 2},
		{"stock exhausted", 0, 5, 0},
		{"negative stock", -2, 5, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := clampDecrement(tc.stock, tc.qty)
			assert.Equal(t, tc.want, got)
			if tc.stock >= 0 {
				// A clamped decrement never overdraws the shelf.
				assert.GreaterOrEqual(t, tc.stock-got, 0)
			}
		})
	}
}

func TestSalesIncCreditsFullQuantity(t *testing.T) {
	// Three sold but only one left on the shelf: the shelf loses one, the
	// sales counters still record all three.
	inc := salesInc(1, 3)["$inc"].(bson.M)

	assert.Equal(t, -1, inc["stock_quantity"])
	assert.Equal(t, 3, inc["sales_data.total_sold"])
	assert.Equal(t, 3, inc["sales_data.last_week_sold"])
	assert.Equal(t, 3, inc["sales_data.last_month_sold"])
}
