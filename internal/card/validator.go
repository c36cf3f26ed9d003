package card

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Brand is the card network detected from the IIN prefix.
type Brand string

const (
	BrandVisa       Brand = "visa"
	BrandMastercard Brand = "mastercard"
	BrandAmex       Brand = "amex"
	BrandDiscover   Brand = "discover"
	BrandJCB        Brand = "jcb"
	BrandDiners     Brand = "diners"
	BrandUnknown    Brand = "unknown"
)

// ValidationResult carries per-field errors plus the detected brand and
// test-card status for caller-side warnings. It is never persisted.
type ValidationResult struct {
	Errors     map[string]string `json:"errors"`
	Brand      Brand             `json:"brand"`
	IsTestCard bool              `json:"is_test_card"`
}

func (r ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Published sandbox PANs. Charging these against a live processor is
// always a mistake, so production mode treats them as invalid.
var testNumbers = map[string]struct{}{
	"4242424242424242": {},
	"4111111111111111": {},
	"4000056655665556": {},
	"5555555555554444": {},
	"5200828282828210": {},
	"2223003122003222": {},
	"378282246310005":  {},
	"371449635398431":  {},
	"6011111111111117": {},
	"30569309025904":   {},
	"3566002020360505": {},
}

var (
	nonDigits  = regexp.MustCompile(`\D`)
	digitsOnly = regexp.MustCompile(`^\d+$`)
	holderName = regexp.MustCompile(`^[A-Za-z\s\-'.]+$`)
)

// LuhnCheck validates card-number well-formedness with the standard
// mod-10 algorithm. It says nothing about issuer authorization.
func LuhnCheck(number string) bool {
	digits := nonDigits.ReplaceAllString(number, "")
	if len(digits) < 13 || len(digits) > 19 {
		return false
	}

	// All-same-digit strings (including all zeros) pass mod-10 for some
	// lengths but are never real PANs.
	same := true
	for i := 1; i < len(digits); i++ {
		if digits[i] != digits[0] {
			same = false
			break
		}
	}
	if same {
		return false
	}

	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		d := int(digits[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

// DetectBrand pattern-matches the IIN prefix. Unrecognized prefixes
// return BrandUnknown rather than an error.
func DetectBrand(number string) Brand {
	digits := nonDigits.ReplaceAllString(number, "")
	if digits == "" {
		return BrandUnknown
	}

	switch {
	case strings.HasPrefix(digits, "4"):
		return BrandVisa
	case len(digits) >= 2 && digits[0] == '5' && digits[1] >= '1' && digits[1] <= '5':
		return BrandMastercard
	case inPrefixRange(digits, 4, 2221, 2720):
		return BrandMastercard
	case strings.HasPrefix(digits, "34") || strings.HasPrefix(digits, "37"):
		return BrandAmex
	case strings.HasPrefix(digits, "6011") || strings.HasPrefix(digits, "65"):
		return BrandDiscover
	case inPrefixRange(digits, 3, 644, 649):
		return BrandDiscover
	case inPrefixRange(digits, 6, 622126, 622925):
		return BrandDiscover
	case inPrefixRange(digits, 4, 3528, 3589):
		return BrandJCB
	case inPrefixRange(digits, 3, 300, 305),
		strings.HasPrefix(digits, "36"),
		strings.HasPrefix(digits, "38"):
		return BrandDiners
	default:
		return BrandUnknown
	}
}

func inPrefixRange(digits string, width, lo, hi int) bool {
	if len(digits) < width {
		return false
	}
	prefix, err := strconv.Atoi(digits[:width])
	if err != nil {
		return false
	}
	return prefix >= lo && prefix <= hi
}

// IsTestNumber reports whether the number is a published sandbox PAN.
func IsTestNumber(number string) bool {
	_, ok := testNumbers[nonDigits.ReplaceAllString(number, "")]
	return ok
}

// ValidateExpiry accepts a month in [1,12] and a 2- or 4-digit year.
// The pair must not be before the current month and the year must be
// within 20 years of now (sanity bound against typos).
func ValidateExpiry(month, year int) bool {
	return validateExpiryAt(month, year, time.Now())
}

func validateExpiryAt(month, year int, now time.Time) bool {
	if month < 1 || month > 12 {
		return false
	}
	if year < 100 {
		year += 2000
	}
	if year > now.Year()+20 {
		return false
	}
	if year < now.Year() {
		return false
	}
	if year == now.Year() && month < int(now.Month()) {
		return false
	}
	return true
}

// ValidateCVV requires exactly 4 digits for Amex, exactly 3 otherwise.
func ValidateCVV(cvv string, brand Brand) bool {
	if !digitsOnly.MatchString(cvv) {
		return false
	}
	if brand == BrandAmex {
		return len(cvv) == 4
	}
	return len(cvv) == 3
}

// ValidateCard composes the field checks for the manual card form.
// expiry is "MM/YY" or "MM/YYYY". In production mode a sandbox test
// number is itself a validation failure; outside production it is only
// reported via IsTestCard so the UI can warn.
func ValidateCard(number, expiry, cvv, holder string, production bool) ValidationResult {
	result := ValidationResult{
		Errors:     map[string]string{},
		Brand:      DetectBrand(number),
		IsTestCard: IsTestNumber(number),
	}

	if !LuhnCheck(number) {
		result.Errors["cardNumber"] = "invalid card number"
	} else if production && result.IsTestCard {
		result.Errors["cardNumber"] = "test card numbers are not accepted"
	}

	month, year, ok := parseExpiry(expiry)
	if !ok || !ValidateExpiry(month, year) {
		result.Errors["expiryDate"] = "invalid or expired date"
	}

	if !ValidateCVV(cvv, result.Brand) {
		result.Errors["cvv"] = "invalid security code"
	}

	name := strings.TrimSpace(holder)
	if len(name) < 3 || !holderName.MatchString(name) {
		result.Errors["cardholderName"] = "enter the name as printed on the card"
	}

	return result
}

func parseExpiry(expiry string) (month, year int, ok bool) {
	parts := strings.Split(strings.TrimSpace(expiry), "/")
	if len(parts) != 2 {
		return 0, 0, false
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, false
	}
	year, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, false
	}
	return month, year, true
}
