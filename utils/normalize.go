// utils/normalize.go
package utils

import (
	"strings"
)

// Defensive transforms against the payment gateway's strict input rules.
// These are not business logic: the gateway rejects phone numbers that are
// not in +63 E.164 form and address lines shorter than its minimum length.

const gatewayMinLineLength = 5

// NormalizePhone converts common Philippine mobile-number spellings to
// +63 E.164 form. Unrecognized shapes are returned digits-only with a +
// prefix so the gateway's own validation produces the error message.
func NormalizePhone(phone string) string {
	var digits strings.Builder
	for _, c := range phone {
		if c >= '0' && c <= '9' {
			digits.WriteRune(c)
		}
	}
	d := digits.String()

	switch {
	case d == "":
		return ""
	case len(d) == 11 && strings.HasPrefix(d, "09"):
		return "+63" + d[1:]
	case len(d) == 12 && strings.HasPrefix(d, "63"):
		return "+" + d
	case len(d) == 10 && strings.HasPrefix(d, "9"):
		return "+63" + d
	default:
		return "+" + d
	}
}

// NormalizeAddressLine pads short address lines to the gateway's minimum
// length and truncates anything past max. An empty line gets the fallback.
func NormalizeAddressLine(line, fallback string, max int) string {
	line = strings.TrimSpace(line)
	if line == "" {
		line = fallback
	}
	for len(line) < gatewayMinLineLength {
		line += "."
	}
	if max > 0 && len(line) > max {
		line = line[:max]
	}
	return line
}
