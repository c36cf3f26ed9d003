package checkout

import (
	"context"
	"time"
)

const simulatedApprovalDelay = 1500 * time.Millisecond

// simulatedSDK stands in for the hosted SDK during local development:
// every approval succeeds after a short delay. The controller only
// substitutes it when the real script fails to load, AllowSimulated is
// set, and the environment is not production.
type simulatedSDK struct {
	delay time.Duration
}

func NewSimulatedSDK(delay time.Duration) SDK {
	return &simulatedSDK{delay: delay}
}

func (s *simulatedSDK) Eligibility(string) (Eligibility, error) {
	return Eligibility{Wallet: true, GooglePay: true, CardFields: true}, nil
}

func (s *simulatedSDK) NewWalletSession(cfg SessionConfig) (WalletSession, error) {
	return &simulatedWalletSession{delay: s.delay}, nil
}

func (s *simulatedSDK) NewGooglePaySession(cfg SessionConfig) (WalletSession, error) {
	return &simulatedWalletSession{delay: s.delay}, nil
}

func (s *simulatedSDK) NewCardFieldsSession(cfg SessionConfig) (CardFieldsSession, error) {
	return &simulatedCardSession{delay: s.delay}, nil
}

type simulatedWalletSession struct {
	delay time.Duration
}

func (s *simulatedWalletSession) Render(mount WidgetMount) error {
	return mount.Render("simulated-wallet-button")
}

func (s *simulatedWalletSession) Approve(ctx context.Context, orderID string) (ApprovalResult, error) {
	select {
	case <-time.After(s.delay):
		return ApprovalResult{State: ApprovalSucceeded}, nil
	case <-ctx.Done():
		return ApprovalResult{State: ApprovalCanceled}, nil
	}
}

func (s *simulatedWalletSession) Teardown() {}

type simulatedCardSession struct {
	delay time.Duration
}

func (s *simulatedCardSession) Render(mounts CardFieldMounts) error {
	for _, mount := range []WidgetMount{mounts.Number, mounts.Expiry, mounts.CVV, mounts.Name} {
		if mount == nil {
			continue
		}
		if err := mount.Render("simulated-card-field"); err != nil {
			return err
		}
	}
	return nil
}

func (s *simulatedCardSession) Submit(ctx context.Context, orderID string, billing BillingAddress) (ApprovalResult, error) {
	select {
	case <-time.After(s.delay):
		return ApprovalResult{State: ApprovalSucceeded}, nil
	case <-ctx.Done():
		return ApprovalResult{State: ApprovalCanceled}, nil
	}
}

func (s *simulatedCardSession) Teardown() {}
