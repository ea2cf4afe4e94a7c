package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCartReferenceFormat(t *testing.T) {
	now := time.Unix(1756500000, 0)
	ref := BuildCartReference("abc123", now)

	assert.Regexp(t, `^CART-abc123-\d{6}$`, ref)
}

func TestReferenceRoundTrip(t *testing.T) {
	cartIDs := []string{
		"abc123",
		uuid.NewString(), // dashed ids must survive the round trip
		"7b9e6d5a-1111-2222-3333-444455556666",
		"x",
	}

	for _, cartID := range cartIDs {
		t.Run(cartID, func(t *testing.T) {
			ref := BuildCartReference(cartID, time.Now())
			parsed, err := ParseCartReference(ref)
			require.NoError(t, err)
			assert.Equal(t, cartID, parsed)
		})
	}
}

func TestParseCartReferenceRejectsMalformed(t *testing.T) {
	cases := []struct {
		name string
		ref  string
	}{
		{"empty", ""},
		{"wrong prefix", "ORDER-abc-123456"},
		{"no suffix", "CART-abc"},
		{"short suffix", "CART-abc-123"},
		{"long suffix", "CART-abc-1234567"},
		{"non-numeric suffix", "CART-abc-12x456"},
		{"missing cart id", "CART--123456"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseCartReference(tc.ref)
			assert.Error(t, err)
		})
	}
}
