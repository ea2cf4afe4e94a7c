package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidCartStatus(t *testing.T) {
	for _, status := range []string{"active", "saved", "checkout", "completed", "abandoned"} {
		assert.True(t, ValidCartStatus(status), status)
	}
	assert.False(t, ValidCartStatus("Active"))
	assert.False(t, ValidCartStatus("deleted"))
	assert.False(t, ValidCartStatus(""))
}

func TestValidOrderStatus(t *testing.T) {
	for _, status := range []string{
		"Pending", "Baking", "Shipped", "Delivered",
		"Returned", "Canceled", "Refunded", "Completed",
	} {
		assert.True(t, ValidOrderStatus(status), status)
	}
	assert.False(t, ValidOrderStatus("Processing"))
	assert.False(t, ValidOrderStatus("pending"))
	assert.False(t, ValidOrderStatus(""))
}
