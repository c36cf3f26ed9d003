package model

// VariantOption is one selectable option of a product variant
// (e.g. size "queen"). PriceDelta is added to the product base price.
type VariantOption struct {
	ID         string  `json:"id"`
	Label      string  `json:"label"`
	PriceDelta float64 `json:"price_delta"`
	InStock    bool    `json:"in_stock"`
}

// Variant groups the options for one variant type ("size", "firmness").
// The first option is the default when the shopper made no selection.
type Variant struct {
	Type    string          `json:"type"`
	Options []VariantOption `json:"options"`
}

// BundleDeal replaces the base unit price with a flat bundle price when
// selected. OriginalPrice is only used for the savings label.
type BundleDeal struct {
	ID            string   `json:"id"`
	Count         int      `json:"count"`
	Price         float64  `json:"price"`
	OriginalPrice float64  `json:"original_price"`
	Includes      []string `json:"includes,omitempty"`
}

type Product struct {
	ID        string       `json:"id"`
	Name      string       `json:"name"`
	BasePrice float64      `json:"base_price"`
	Currency  string       `json:"currency"`
	Variants  []Variant    `json:"variants,omitempty"`
	Bundles   []BundleDeal `json:"bundles,omitempty"`
}

// LineItem is one cart row. SelectedVariants maps variant type to the
// chosen option id. BundleID must reference a bundle on Product or be
// empty; a dangling reference falls back to base pricing.
type LineItem struct {
	Product          Product           `json:"product"`
	Quantity         int               `json:"quantity"`
	SelectedColor    string            `json:"selected_color,omitempty"`
	SelectedVariants map[string]string `json:"selected_variants,omitempty"`
	BundleID         string            `json:"bundle_id,omitempty"`
}

// Bundle resolves the selected bundle deal, or nil when none is
// selected or the id references no bundle on the product.
func (li LineItem) Bundle() *BundleDeal {
	if li.BundleID == "" {
		return nil
	}
	for i := range li.Product.Bundles {
		if li.Product.Bundles[i].ID == li.BundleID {
			return &li.Product.Bundles[i]
		}
	}
	return nil
}
