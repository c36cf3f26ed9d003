package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"storefront-checkout/internal/client"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/middleware"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/pricing"
	"storefront-checkout/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const clientTokenTTL = 15 * time.Minute

// CheckoutService is the server side of the checkout flow: it owns the
// canonical total, the provider order lifecycle and order persistence.
type CheckoutService interface {
	ClientToken(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error)
	CaptureOrder(ctx context.Context, orderID string) (*dto.CaptureResponse, error)
	GetOrder(ctx context.Context, orderID string) (*model.PaypalOrderResult, error)
	ChargeCard(ctx context.Context, req *dto.ChargeCardRequest) (*dto.ChargeCardResponse, error)
	RefundCapture(ctx context.Context, captureID string) (*dto.RefundResponse, error)
	ValidatePromo(code string) *dto.PromoResponse
}

type checkoutServiceImpl struct {
	db           *gorm.DB
	paypalClient client.PaypalClient
	cardGateway  client.CardGateway
	orderRepo    repository.OrderRepository
	cfg          *config.Config
	logger       *slog.Logger
}

func NewCheckoutService(
	db *gorm.DB,
	paypalClient client.PaypalClient,
	cardGateway client.CardGateway,
	orderRepo repository.OrderRepository,
	cfg *config.Config,
	logger *slog.Logger,
) CheckoutService {
	return &checkoutServiceImpl{
		db:           db,
		paypalClient: paypalClient,
		cardGateway:  cardGateway,
		orderRepo:    orderRepo,
		cfg:          cfg,
		logger:       logger,
	}
}

func (s *checkoutServiceImpl) ClientToken(ctx context.Context) (string, error) {
	token, err := middleware.IssueClientToken(
		s.cfg.Checkout.TokenSecret,
		s.cfg.Environment.Name,
		s.cfg.Checkout.Currency,
		clientTokenTTL,
	)
	if err != nil {
		return "", fmt.Errorf("issue client token: %w", err)
	}
	return token, nil
}

// priceCart derives the canonical totals for a submitted cart. The
// promo ratio comes from the fixed code table; an unknown code is a
// caller error surfaced before this point, so here it simply does not
// discount.
func (s *checkoutServiceImpl) priceCart(items []model.LineItem, promoCode, shippingMethod string) (pricing.CartTotals, error) {
	if len(items) == 0 {
		return pricing.CartTotals{}, fmt.Errorf("cart is empty")
	}
	for _, item := range items {
		if item.Quantity <= 0 {
			return pricing.CartTotals{}, fmt.Errorf("item quantity must be positive")
		}
	}

	return computeTotals(s.cfg, items, promoCode, shippingMethod), nil
}

func computeTotals(cfg *config.Config, items []model.LineItem, promoCode, shippingMethod string) pricing.CartTotals {
	ratio := 0.0
	if promoCode != "" {
		ratio, _ = pricing.ResolvePromoCode(promoCode)
	}

	shipping := decimal.NewFromFloat(cfg.Checkout.StandardShipping)
	if shippingMethod == "express" {
		shipping = decimal.NewFromFloat(cfg.Checkout.ExpressShipping)
	}

	return pricing.ComputeCartTotals(items, ratio, shipping)
}

func (s *checkoutServiceImpl) CreateOrder(ctx context.Context, req *dto.CreateOrderRequest) (*dto.CreateOrderResponse, error) {
	totals, err := s.priceCart(req.Items, req.PromoCode, req.ShippingMethod)
	if err != nil {
		return nil, err
	}
	value := pricing.FormatAmount(totals.Total)
	currency := s.cfg.Checkout.Currency

	resp, err := s.paypalClient.CreateOrder(ctx, &client.CreateOrderRequest{
		Value:        value,
		CurrencyCode: currency,
		Description:  orderDescription(req.Items),
		ReturnURL:    fmt.Sprintf("%s/api/paypal/success", s.cfg.BaseURL),
		CancelURL:    s.cfg.BaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("paypal api create order: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, &model.Order{
			OrderID:     resp.OrderID,
			Status:      model.OrderStatusCreated,
			AmountValue: value,
			Currency:    currency,
			Description: orderDescription(req.Items),
		}); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}
		return s.orderRepo.CreateOrderItems(ctx, tx, orderItems(resp.OrderID, currency, req.Items))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order created", "order_id", resp.OrderID, "amount", value, "currency", currency)

	return &dto.CreateOrderResponse{
		OrderID:    resp.OrderID,
		ApproveURL: resp.ApproveURL,
		Amount:     value,
		Currency:   currency,
	}, nil
}

func (s *checkoutServiceImpl) CaptureOrder(ctx context.Context, orderID string) (*dto.CaptureResponse, error) {
	result, err := s.paypalClient.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("paypal api capture order: %w", err)
	}
	if result.Status != "COMPLETED" {
		return nil, fmt.Errorf("capture not completed: status=%s", result.Status)
	}

	order, err := s.orderRepo.FindByOrderID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("find order: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.MarkCompleted(ctx, tx, orderID, result.PayerID); err != nil {
			return fmt.Errorf("mark order completed: %w", err)
		}
		return s.orderRepo.CreateCapture(ctx, tx, &model.CaptureRecord{
			OrderID:   orderID,
			CaptureID: result.CaptureID,
			Status:    result.Status,
			Amount:    order.AmountValue,
			Currency:  order.Currency,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("order captured", "order_id", orderID, "capture_id", result.CaptureID)

	return &dto.CaptureResponse{
		OrderID:   orderID,
		CaptureID: result.CaptureID,
		Status:    result.Status,
	}, nil
}

func (s *checkoutServiceImpl) GetOrder(ctx context.Context, orderID string) (*model.PaypalOrderResult, error) {
	detail, err := s.paypalClient.GetOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("paypal api get order: %w", err)
	}
	return detail, nil
}

func (s *checkoutServiceImpl) ChargeCard(ctx context.Context, req *dto.ChargeCardRequest) (*dto.ChargeCardResponse, error) {
	if req.Nonce == "" {
		return nil, fmt.Errorf("missing payment nonce")
	}

	totals, err := s.priceCart(req.Items, req.PromoCode, req.ShippingMethod)
	if err != nil {
		return nil, err
	}
	value := pricing.FormatAmount(totals.Total)
	currency := s.cfg.Checkout.Currency

	txID, err := s.cardGateway.ChargeCard(ctx, req.Nonce, value)
	if err != nil {
		return nil, fmt.Errorf("card gateway charge: %w", err)
	}

	// Card charges settle synchronously, so the order row is created
	// already completed.
	orderID := "CARD-" + uuid.NewString()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, &model.Order{
			OrderID:     orderID,
			Status:      model.OrderStatusCompleted,
			AmountValue: value,
			Currency:    currency,
			Description: orderDescription(req.Items),
		}); err != nil {
			return fmt.Errorf("store order in db: %w", err)
		}
		return s.orderRepo.CreateOrderItems(ctx, tx, orderItems(orderID, currency, req.Items))
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("card charged", "order_id", orderID, "transaction_id", txID, "amount", value)

	return &dto.ChargeCardResponse{
		OrderID:       orderID,
		TransactionID: txID,
	}, nil
}

func (s *checkoutServiceImpl) RefundCapture(ctx context.Context, captureID string) (*dto.RefundResponse, error) {
	capture, err := s.orderRepo.FindCapture(ctx, captureID)
	if err != nil {
		return nil, fmt.Errorf("find capture: %w", err)
	}
	if capture.RefundID != "" {
		return nil, fmt.Errorf("capture already refunded")
	}

	result, err := s.paypalClient.RefundCapture(ctx, captureID, capture.Amount, capture.Currency)
	if err != nil {
		return nil, fmt.Errorf("paypal api refund capture: %w", err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return s.orderRepo.MarkRefunded(ctx, tx, captureID, result.ID)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("capture refunded", "capture_id", captureID, "refund_id", result.ID)

	return &dto.RefundResponse{
		RefundID: result.ID,
		Status:   result.Status,
	}, nil
}

func (s *checkoutServiceImpl) ValidatePromo(code string) *dto.PromoResponse {
	ratio, ok := pricing.ResolvePromoCode(code)
	return &dto.PromoResponse{Valid: ok, Ratio: ratio}
}

func orderDescription(items []model.LineItem) string {
	if len(items) == 1 {
		return fmt.Sprintf("%s x%d", items[0].Product.Name, items[0].Quantity)
	}
	return fmt.Sprintf("%d cart items", len(items))
}

func orderItems(orderID, currency string, items []model.LineItem) []*model.OrderItem {
	rows := make([]*model.OrderItem, len(items))
	for i, item := range items {
		rows[i] = &model.OrderItem{
			OrderID:   orderID,
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			UnitPrice: pricing.FormatAmount(pricing.EffectiveUnitPrice(item)),
			BundleID:  item.BundleID,
			Currency:  currency,
		}
	}
	return rows
}
