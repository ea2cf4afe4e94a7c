package controllers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGenerateOrderIDFormat(t *testing.T) {
	now := time.Date(2026, 8, 30, 14, 5, 9, 0, time.UTC)
	id := generateOrderID(now)

	assert.Regexp(t, `^ORD-20260830140509-\d{4}$`, id)
}
