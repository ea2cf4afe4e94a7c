package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"local mobile", "09171234567", "+639171234567"},
		{"with country code", "639171234567", "+639171234567"},
		{"already e164", "+639171234567", "+639171234567"},
		{"bare mobile", "9171234567", "+639171234567"},
		{"spaces and dashes", "0917-123 4567", "+639171234567"},
		{"parenthesized", "(0917) 123-4567", "+639171234567"},
		{"empty", "", ""},
		{"unrecognized shape kept digits-only", "12345", "+12345"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, NormalizePhone(tc.input))
		})
	}
}

func TestNormalizeAddressLine(t *testing.T) {
	t.Run("short lines are padded to the gateway minimum", func(t *testing.T) {
		got := NormalizeAddressLine("QC", "N/A..", 100)
		assert.GreaterOrEqual(t, len(got), gatewayMinLineLength)
		assert.Equal(t, "QC...", got)
	})

	t.Run("empty lines take the fallback", func(t *testing.T) {
		assert.Equal(t, "N/A..", NormalizeAddressLine("", "N/A..", 100))
	})

	t.Run("long lines are truncated", func(t *testing.T) {
		long := "12345678901234567890"
		assert.Equal(t, "1234567890", NormalizeAddressLine(long, "N/A..", 10))
	})

	t.Run("whitespace-only is treated as empty", func(t *testing.T) {
		assert.Equal(t, "N/A..", NormalizeAddressLine("   ", "N/A..", 100))
	})

	t.Run("adequate lines pass through", func(t *testing.T) {
		assert.Equal(t, "123 Main Street", NormalizeAddressLine("123 Main Street", "N/A..", 100))
	})
}
