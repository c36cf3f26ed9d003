package checkout

import "context"

// Method identifies one payment method offered at checkout.
type Method string

const (
	MethodWallet     Method = "wallet"
	MethodGooglePay  Method = "googlepay"
	MethodCardFields Method = "card"
)

// Eligibility reports which hosted payment methods the loaded SDK can
// serve for the session currency.
type Eligibility struct {
	Wallet     bool `json:"wallet"`
	GooglePay  bool `json:"googlepay"`
	CardFields bool `json:"card_fields"`
}

func (e Eligibility) None() bool {
	return !e.Wallet && !e.GooglePay && !e.CardFields
}

func (e Eligibility) Has(m Method) bool {
	switch m {
	case MethodWallet:
		return e.Wallet
	case MethodGooglePay:
		return e.GooglePay
	case MethodCardFields:
		return e.CardFields
	default:
		return false
	}
}

// SessionConfig is handed to every provider session at construction.
// Amount is a closure so the session always reads the current canonical
// total instead of a value captured at mount time.
type SessionConfig struct {
	Currency string
	Amount   func() string
}

// SDK is the handle returned by a successfully loaded provider script.
type SDK interface {
	Eligibility(currency string) (Eligibility, error)
	NewWalletSession(cfg SessionConfig) (WalletSession, error)
	NewGooglePaySession(cfg SessionConfig) (WalletSession, error)
	NewCardFieldsSession(cfg SessionConfig) (CardFieldsSession, error)
}

// ScriptLoader injects the provider SDK script. Loaded lets the
// controller short-circuit re-injection when the script is already
// present in the document.
type ScriptLoader interface {
	Loaded() bool
	Load(ctx context.Context, clientToken string) (SDK, error)
}

// WidgetMount abstracts the DOM container a hosted widget renders into,
// keeping the controller free of direct DOM calls.
type WidgetMount interface {
	Clear()
	Render(handle any) error
}

// CardFieldMounts are the containers for the hosted card inputs. Name
// is optional.
type CardFieldMounts struct {
	Number WidgetMount
	Expiry WidgetMount
	CVV    WidgetMount
	Name   WidgetMount
}

func (m CardFieldMounts) clear() {
	for _, mount := range []WidgetMount{m.Number, m.Expiry, m.CVV, m.Name} {
		if mount != nil {
			mount.Clear()
		}
	}
}

type ApprovalState string

const (
	ApprovalSucceeded ApprovalState = "succeeded"
	ApprovalCanceled  ApprovalState = "canceled"
	ApprovalFailed    ApprovalState = "failed"
)

// ApprovalResult is the discriminated outcome of a provider's
// asynchronous approval flow.
type ApprovalResult struct {
	State  ApprovalState
	Reason string
}

// WalletSession drives one wallet button (PayPal wallet or Google Pay).
type WalletSession interface {
	Render(mount WidgetMount) error
	Approve(ctx context.Context, orderID string) (ApprovalResult, error)
	Teardown()
}

type BillingAddress struct {
	Name       string
	Address    string
	City       string
	PostalCode string
	Country    string
}

// CardFieldsSession drives the hosted card-input widgets.
type CardFieldsSession interface {
	Render(mounts CardFieldMounts) error
	Submit(ctx context.Context, orderID string, billing BillingAddress) (ApprovalResult, error)
	Teardown()
}

// OrderAPI is the controller's view of the checkout backend. Every
// amount is a pre-formatted 2-decimal string.
type OrderAPI interface {
	ClientToken(ctx context.Context) (string, error)
	CreateOrder(ctx context.Context, amountValue string) (orderID, approveURL string, err error)
	CaptureOrder(ctx context.Context, orderID string) (captureID string, err error)
	ChargeCard(ctx context.Context, nonce, amountValue string) (orderID string, err error)
}

// Navigator performs the browser redirect of the fallback flow.
type Navigator interface {
	Redirect(url string)
}

// Focuser scrolls the first invalid form field into view.
type Focuser interface {
	Focus(field string)
}
