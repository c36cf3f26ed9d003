package checkout

import (
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// ShippingAddress is the standard-flow address form. SubmitStandard
// refuses to touch the network until it validates.
type ShippingAddress struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	Zip      string `json:"zip"`
}

// shippingFields fixes the focus order for the first invalid field.
var shippingFields = []string{"fullName", "email", "phone", "address", "city", "zip"}

// Validate returns per-field errors and the name of the first invalid
// field in form order, for focus-and-scroll.
func (a ShippingAddress) Validate() (map[string]string, string) {
	errs := map[string]string{}

	check := func(field, value, message string) {
		if strings.TrimSpace(value) == "" {
			errs[field] = message
		}
	}
	check("fullName", a.FullName, "full name is required")
	check("phone", a.Phone, "phone number is required")
	check("address", a.Address, "address is required")
	check("city", a.City, "city is required")
	check("zip", a.Zip, "ZIP code is required")

	if strings.TrimSpace(a.Email) == "" {
		errs["email"] = "email is required"
	} else if !emailPattern.MatchString(strings.TrimSpace(a.Email)) {
		errs["email"] = "enter a valid email address"
	}

	for _, field := range shippingFields {
		if _, bad := errs[field]; bad {
			return errs, field
		}
	}
	return errs, ""
}

// Billing maps the shipping form onto the billing address the hosted
// card-fields session expects.
func (a ShippingAddress) Billing() BillingAddress {
	return BillingAddress{
		Name:       a.FullName,
		Address:    a.Address,
		City:       a.City,
		PostalCode: a.Zip,
	}
}
