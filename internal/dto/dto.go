package dto

import "storefront-checkout/internal/model"

type CreateOrderRequest struct {
	Items          []model.LineItem `json:"items"`
	PromoCode      string           `json:"promo_code,omitempty"`
	ShippingMethod string           `json:"shipping_method,omitempty"`
}

type CreateOrderResponse struct {
	OrderID    string `json:"order_id"`
	ApproveURL string `json:"order_approval_url"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
}

type CaptureResponse struct {
	OrderID   string `json:"order_id"`
	CaptureID string `json:"capture_id"`
	Status    string `json:"status"`
}

type ChargeCardRequest struct {
	Items          []model.LineItem `json:"items"`
	PromoCode      string           `json:"promo_code,omitempty"`
	ShippingMethod string           `json:"shipping_method,omitempty"`
	Nonce          string           `json:"nonce"`
}

type ChargeCardResponse struct {
	OrderID       string `json:"order_id"`
	TransactionID string `json:"transaction_id"`
}

type PromoRequest struct {
	Code string `json:"code"`
}

type PromoResponse struct {
	Valid bool    `json:"valid"`
	Ratio float64 `json:"ratio"`
}

type ClientTokenResponse struct {
	Token string `json:"token"`
}

type RefundResponse struct {
	RefundID string `json:"refund_id"`
	Status   string `json:"status"`
}
