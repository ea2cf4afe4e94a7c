// utils/reference.go
package utils

import (
	"fmt"
	"strings"
	"time"
)

// Reference numbers tie a gateway checkout session back to its cart. The
// format is CART-<cartId>-<6-digit suffix>; the webhook handler parses the
// cart id back out, so builder and parser must stay in lockstep.
const referencePrefix = "CART-"

// BuildCartReference builds the gateway reference number for a cart. The
// suffix is the last six digits of the current unix time, which keeps
// references distinct across retries for the same cart.
func BuildCartReference(cartID string, now time.Time) string {
	suffix := now.Unix() % 1000000
	return fmt.Sprintf("%s%s-%06d", referencePrefix, cartID, suffix)
}

// ParseCartReference extracts the cart id from a reference number. Cart ids
// may themselves contain dashes, so only the final dash-delimited segment is
// treated as the suffix.
func ParseCartReference(ref string) (string, error) {
	if !strings.HasPrefix(ref, referencePrefix) {
		return "", fmt.Errorf("reference %q does not start with %s", ref, referencePrefix)
	}
	rest := strings.TrimPrefix(ref, referencePrefix)
	i := strings.LastIndex(rest, "-")
	if i <= 0 {
		return "", fmt.Errorf("reference %q has no suffix", ref)
	}
	cartID := rest[:i]
	suffix := rest[i+1:]
	if len(suffix) != 6 {
		return "", fmt.Errorf("reference %q has malformed suffix", ref)
	}
	for _, c := range suffix {
		if c < '0' || c > '9' {
			return "", fmt.Errorf("reference %q has non-numeric suffix", ref)
		}
	}
	return cartID, nil
}
