package pricing

import (
	"storefront-checkout/internal/model"

	"github.com/shopspring/decimal"
)

// CartTotals is a pure projection of cart state. It is recomputed from
// scratch on every read and never mutated, so the displayed total and
// the amount submitted to the payment provider cannot drift apart.
type CartTotals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// EffectiveUnitPrice resolves the price of a single unit of the line
// item. A selected bundle always wins: its flat price replaces both the
// base price and every variant delta, so a bundle can never stack with
// variant pricing. Without a bundle the price is base plus the delta of
// the chosen option per variant, defaulting a missing selection to the
// variant's first option.
func EffectiveUnitPrice(item model.LineItem) decimal.Decimal {
	if bundle := item.Bundle(); bundle != nil {
		return decimal.NewFromFloat(bundle.Price)
	}

	price := decimal.NewFromFloat(item.Product.BasePrice)
	for _, variant := range item.Product.Variants {
		if len(variant.Options) == 0 {
			continue
		}
		option := variant.Options[0]
		if selectedID, ok := item.SelectedVariants[variant.Type]; ok {
			for _, o := range variant.Options {
				if o.ID == selectedID {
					option = o
					break
				}
			}
		}
		price = price.Add(decimal.NewFromFloat(option.PriceDelta))
	}
	return price
}

// ComputeLineTotal returns effective unit price times quantity. A
// non-positive quantity is treated as one unit; a checkout view must
// never hard-fail on a malformed cart row.
func ComputeLineTotal(item model.LineItem) decimal.Decimal {
	qty := item.Quantity
	if qty < 1 {
		qty = 1
	}
	return EffectiveUnitPrice(item).Mul(decimal.NewFromInt(int64(qty)))
}

// ComputeCartTotals derives the canonical money amounts for the cart.
// ratio is the active promo discount in [0,1) applied to the
// pre-shipping subtotal; a ratio of 0 is an exact no-op. Intermediate
// sums are kept at full precision; rounding happens only in
// FormatAmount at the display/submission boundary.
func ComputeCartTotals(items []model.LineItem, ratio float64, shipping decimal.Decimal) CartTotals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(ComputeLineTotal(item))
	}

	if ratio < 0 || ratio >= 1 {
		ratio = 0
	}
	discount := decimal.Zero
	if ratio > 0 {
		discount = subtotal.Mul(decimal.NewFromFloat(ratio))
	}

	return CartTotals{
		Subtotal: subtotal,
		Discount: discount,
		Shipping: shipping,
		Total:    subtotal.Sub(discount).Add(shipping),
	}
}

// FormatAmount renders a monetary value as the 2-decimal string the
// provider API expects. This is the single rounding point.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
