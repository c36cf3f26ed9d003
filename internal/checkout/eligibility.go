package checkout

import "log/slog"

// ResolveEligibility asks the SDK which methods it can serve. A nil SDK
// or an SDK error yields all-ineligible rather than an error, so the
// controller can fall back to the non-hosted redirect buttons instead
// of crashing the checkout.
func ResolveEligibility(sdk SDK, currency string, log *slog.Logger) Eligibility {
	if sdk == nil {
		return Eligibility{}
	}

	eligibility, err := sdk.Eligibility(currency)
	if err != nil {
		if log != nil {
			log.Warn("sdk eligibility check failed, disabling hosted methods",
				"currency", currency, "error", err)
		}
		return Eligibility{}
	}
	return eligibility
}
