package client

import (
	"context"
	"fmt"

	"storefront-checkout/internal/config"

	"github.com/braintree-go/braintree-go"
	"github.com/shopspring/decimal"
)

// CardGateway charges a tokenized card for the manual card form. The
// raw PAN never reaches this process; the browser exchanges it for a
// single-use nonce first.
type CardGateway interface {
	ChargeCard(ctx context.Context, nonce, amount string) (string, error)
}

type braintreeGatewayImpl struct {
	gateway *braintree.Braintree
}

func NewCardGateway(cfg *config.Braintree) CardGateway {
	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	gateway := braintree.New(
		env,
		cfg.MerchantID,
		cfg.PublicKey,
		cfg.PrivateKey,
	)

	return &braintreeGatewayImpl{
		gateway: gateway,
	}
}

func (c *braintreeGatewayImpl) ChargeCard(ctx context.Context, nonce, amount string) (string, error) {
	decAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return "", fmt.Errorf("invalid amount format: %w", err)
	}

	// Braintree wants NewDecimal(unscaled, scale): "318.40" -> (31840, 2).
	cents := decAmount.Mul(decimal.NewFromInt(100)).IntPart()
	btAmount := braintree.NewDecimal(cents, 2)

	req := &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             btAmount,
		PaymentMethodNonce: nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	}

	tx, err := c.gateway.Transaction().Create(ctx, req)
	if err != nil {
		return "", fmt.Errorf("transaction creation failed: %w", err)
	}

	if tx.Status == braintree.TransactionStatusProcessorDeclined {
		return "", fmt.Errorf("transaction declined by processor: %s", tx.ProcessorResponseText)
	}

	return tx.Id, nil
}
