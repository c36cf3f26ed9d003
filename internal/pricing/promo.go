package pricing

import "strings"

// promoCodes is the fixed code table. Ratios are fractions of the
// pre-shipping subtotal.
var promoCodes = map[string]float64{
	"TINY20":    0.20,
	"WELCOME10": 0.10,
	"BUNDLE15":  0.15,
}

// ResolvePromoCode matches a code case-insensitively against the table.
// Unknown codes return ok=false and no ratio.
func ResolvePromoCode(code string) (ratio float64, ok bool) {
	ratio, ok = promoCodes[strings.ToUpper(strings.TrimSpace(code))]
	return ratio, ok
}

// ApplyPromoCode returns the new session ratio for a submitted code. An
// unrecognized code leaves the current ratio untouched so the caller
// can surface a rejection without losing an already-applied discount.
func ApplyPromoCode(current float64, code string) (float64, bool) {
	if ratio, ok := ResolvePromoCode(code); ok {
		return ratio, true
	}
	return current, false
}
