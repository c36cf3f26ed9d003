package service

import (
	"context"
	"fmt"
	"log/slog"

	"storefront-checkout/internal/checkout"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/pricing"
)

// CartSnapshot is the cart state a controller checks out with. The
// snapshot function is re-read on every API call so the priced amount
// always reflects the current cart.
type CartSnapshot struct {
	Items          []model.LineItem
	PromoCode      string
	ShippingMethod string
}

// orderAPIAdapter exposes CheckoutService to the checkout controller.
type orderAPIAdapter struct {
	svc      CheckoutService
	snapshot func() CartSnapshot
}

func NewOrderAPI(svc CheckoutService, snapshot func() CartSnapshot) checkout.OrderAPI {
	return &orderAPIAdapter{svc: svc, snapshot: snapshot}
}

func (a *orderAPIAdapter) ClientToken(ctx context.Context) (string, error) {
	return a.svc.ClientToken(ctx)
}

func (a *orderAPIAdapter) CreateOrder(ctx context.Context, amountValue string) (string, string, error) {
	snap := a.snapshot()
	resp, err := a.svc.CreateOrder(ctx, &dto.CreateOrderRequest{
		Items:          snap.Items,
		PromoCode:      snap.PromoCode,
		ShippingMethod: snap.ShippingMethod,
	})
	if err != nil {
		return "", "", err
	}
	// Controller and service price the same snapshot; a disagreement
	// means the cart changed mid-submit.
	if resp.Amount != amountValue {
		return "", "", fmt.Errorf("amount mismatch: submitted %s, priced %s", amountValue, resp.Amount)
	}
	return resp.OrderID, resp.ApproveURL, nil
}

func (a *orderAPIAdapter) CaptureOrder(ctx context.Context, orderID string) (string, error) {
	resp, err := a.svc.CaptureOrder(ctx, orderID)
	if err != nil {
		return "", err
	}
	return resp.CaptureID, nil
}

func (a *orderAPIAdapter) ChargeCard(ctx context.Context, nonce, amountValue string) (string, error) {
	snap := a.snapshot()
	resp, err := a.svc.ChargeCard(ctx, &dto.ChargeCardRequest{
		Items:          snap.Items,
		PromoCode:      snap.PromoCode,
		ShippingMethod: snap.ShippingMethod,
		Nonce:          nonce,
	})
	if err != nil {
		return "", err
	}
	return resp.OrderID, nil
}

// ControllerConfig assembles the checkout controller configuration
// from app config. The view layer fills in the loader, mounts,
// navigator, focuser and callbacks before calling
// checkout.NewController.
func ControllerConfig(cfg *config.Config, svc CheckoutService, snapshot func() CartSnapshot, logger *slog.Logger) checkout.Config {
	return checkout.Config{
		API:      NewOrderAPI(svc, snapshot),
		Currency: cfg.Checkout.Currency,
		Totals: func() pricing.CartTotals {
			snap := snapshot()
			return computeTotals(cfg, snap.Items, snap.PromoCode, snap.ShippingMethod)
		},
		Production:     cfg.Environment.IsProduction(),
		AllowSimulated: cfg.Checkout.AllowSimulated,
		Logger:         logger,
	}
}
