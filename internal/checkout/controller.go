package checkout

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"storefront-checkout/internal/card"
	"storefront-checkout/internal/pricing"

	"github.com/google/uuid"
)

var (
	ErrNotMounted       = errors.New("checkout view is not mounted")
	ErrSubmitInProgress = errors.New("a submission is already in progress")
	ErrMethodIneligible = errors.New("payment method is not eligible")
)

// AddressValidationError blocks submission before any network call.
// First is the field to focus and scroll into view.
type AddressValidationError struct {
	Fields map[string]string
	First  string
}

func (e *AddressValidationError) Error() string {
	return fmt.Sprintf("shipping address invalid: %s", strings.Join(sortedKeys(e.Fields), ", "))
}

// CardValidationError blocks a manual-card submission before any
// network call.
type CardValidationError struct {
	Result card.ValidationResult
}

func (e *CardValidationError) Error() string {
	return fmt.Sprintf("card invalid: %s", strings.Join(sortedKeys(e.Result.Errors), ", "))
}

var formFieldOrder = []string{
	"fullName", "email", "phone", "address", "city", "zip",
	"cardNumber", "expiryDate", "cvv", "cardholderName",
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for _, field := range formFieldOrder {
		if _, ok := m[field]; ok {
			keys = append(keys, field)
		}
	}
	return keys
}

// CardInput is the manual card form. Nonce is the single-use token the
// browser obtained from the card gateway; the PAN itself is only used
// for local validation and never leaves the client.
type CardInput struct {
	Number     string
	Expiry     string
	CVV        string
	HolderName string
	Nonce      string
}

// Config wires one controller to its collaborators. Totals must be a
// pure projection of cart state; it is re-read at every submission so
// the amount sent to the provider can never drift from the cart.
type Config struct {
	Loader   ScriptLoader
	API      OrderAPI
	Currency string
	Totals   func() pricing.CartTotals

	WalletMount     WidgetMount
	GooglePayMount  WidgetMount
	CardFieldMounts CardFieldMounts

	Navigator Navigator
	Focuser   Focuser

	OnOrderComplete func(orderID string)
	OnBack          func()

	Production bool
	// AllowSimulated substitutes a simulated-approval SDK when the
	// script loader fails. Ignored in production.
	AllowSimulated bool
	Logger         *slog.Logger
}

// paymentSession holds the per-attempt provider handles. Owned
// exclusively by one controller; destroyed on unmount.
type paymentSession struct {
	sdk            SDK
	wallet         WalletSession
	googlePay      WalletSession
	cardFields     CardFieldsSession
	sessionCreated bool
}

func (s *paymentSession) teardown() {
	if s.wallet != nil {
		s.wallet.Teardown()
	}
	if s.googlePay != nil {
		s.googlePay.Teardown()
	}
	if s.cardFields != nil {
		s.cardFields.Teardown()
	}
	*s = paymentSession{}
}

// Controller is the checkout state machine. All exported methods are
// safe for concurrent use; the mutex is never held across a suspension
// point (script load, REST call, approval flow), and every pending
// continuation re-checks the mounted flag before touching state or
// firing callbacks.
type Controller struct {
	mu          sync.Mutex
	cfg         Config
	state       State
	mounted     bool
	fallback    bool
	eligibility Eligibility
	session     paymentSession
	completed   bool
	lastErr     string
	attemptID   string
}

func NewController(cfg Config) *Controller {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Controller{
		cfg:   cfg,
		state: StateIdle,
	}
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Controller) Eligibility() Eligibility {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.eligibility
}

// Fallback reports whether hosted widgets are unavailable and checkout
// runs through the redirect flow.
func (c *Controller) Fallback() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.fallback
}

// LastError is the user-visible message of the most recent failure.
func (c *Controller) LastError() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// setState enforces the transition table; illegal transitions are a
// programming error and are logged, not performed.
func (c *Controller) setState(to State) bool {
	if !CanTransitionTo(c.state, to) {
		c.cfg.Logger.Error("illegal checkout state transition",
			"from", c.state.String(), "to", to.String(), "attempt", c.attemptID)
		return false
	}
	c.cfg.Logger.Debug("checkout state transition",
		"from", c.state.String(), "to", to.String(), "attempt", c.attemptID)
	c.state = to
	return true
}

// Mount loads the provider SDK and activates the payment session. It
// is triggered once per view mount; a second call while mounted is a
// no-op, mirroring the loaded-script short-circuit.
func (c *Controller) Mount(ctx context.Context) error {
	c.mu.Lock()
	if c.mounted {
		c.mu.Unlock()
		return nil
	}
	c.mounted = true
	c.completed = false
	c.lastErr = ""
	c.attemptID = uuid.NewString()
	if !c.setState(StateSdkLoading) {
		c.mu.Unlock()
		return fmt.Errorf("cannot mount from state %s", c.state)
	}
	c.mu.Unlock()

	sdk, err := c.loadSDK(ctx)

	c.mu.Lock()
	if !c.mounted {
		// Torn down while the script was loading; drop the result.
		c.mu.Unlock()
		return nil
	}
	if err != nil {
		c.cfg.Logger.Warn("sdk load failed, entering fallback checkout", "error", err)
		c.fallback = true
		c.eligibility = Eligibility{}
		c.session.sdk = nil
	} else {
		c.session.sdk = sdk
		c.eligibility = ResolveEligibility(sdk, c.cfg.Currency, c.cfg.Logger)
		c.fallback = c.eligibility.None()
	}
	c.setState(StateSdkReady)
	c.mu.Unlock()

	return c.ActivateSession()
}

func (c *Controller) loadSDK(ctx context.Context) (SDK, error) {
	if c.cfg.Loader == nil {
		return nil, errors.New("no script loader configured")
	}

	// Script already present in the document: reuse it without
	// fetching a fresh client token.
	if c.cfg.Loader.Loaded() {
		sdk, err := c.cfg.Loader.Load(ctx, "")
		if err == nil {
			return sdk, nil
		}
		c.cfg.Logger.Warn("cached provider script unusable, reloading", "error", err)
	}

	token, err := c.cfg.API.ClientToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch client token: %w", err)
	}

	sdk, err := c.cfg.Loader.Load(ctx, token)
	if err == nil {
		return sdk, nil
	}

	if c.cfg.AllowSimulated && !c.cfg.Production {
		c.cfg.Logger.Warn("sdk load failed, using simulated approval sdk", "error", err)
		return NewSimulatedSDK(simulatedApprovalDelay), nil
	}
	return nil, fmt.Errorf("load provider script: %w", err)
}

// ActivateSession mounts the provider widgets idempotently: containers
// are cleared synchronously before any session work, and an existing
// session is reused so a re-invocation (a dependent-effect re-run)
// re-renders widgets without constructing a second payment session.
func (c *Controller) ActivateSession() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mounted {
		return ErrNotMounted
	}
	if c.state != StateSdkReady && c.state != StateSessionActive {
		return fmt.Errorf("cannot activate session from state %s", c.state)
	}

	// Clear targets before any session construction so a fast
	// double-invocation cannot leave two widgets behind.
	if c.cfg.WalletMount != nil {
		c.cfg.WalletMount.Clear()
	}
	if c.cfg.GooglePayMount != nil {
		c.cfg.GooglePayMount.Clear()
	}
	c.cfg.CardFieldMounts.clear()

	if !c.session.sessionCreated {
		if err := c.createSessions(); err != nil {
			c.cfg.Logger.Warn("session creation failed, entering fallback checkout", "error", err)
			c.session.teardown()
			c.fallback = true
			c.eligibility = Eligibility{}
		}
		c.session.sessionCreated = true
	}

	if err := c.renderWidgets(); err != nil {
		return fmt.Errorf("render widgets: %w", err)
	}

	if c.state == StateSdkReady {
		c.setState(StateSessionActive)
	}
	return nil
}

func (c *Controller) createSessions() error {
	if c.session.sdk == nil {
		return nil
	}

	sessionCfg := SessionConfig{
		Currency: c.cfg.Currency,
		Amount: func() string {
			return pricing.FormatAmount(c.cfg.Totals().Total)
		},
	}

	var err error
	if c.eligibility.Wallet {
		if c.session.wallet, err = c.session.sdk.NewWalletSession(sessionCfg); err != nil {
			return fmt.Errorf("wallet session: %w", err)
		}
	}
	if c.eligibility.GooglePay {
		if c.session.googlePay, err = c.session.sdk.NewGooglePaySession(sessionCfg); err != nil {
			return fmt.Errorf("googlepay session: %w", err)
		}
	}
	if c.eligibility.CardFields {
		if c.session.cardFields, err = c.session.sdk.NewCardFieldsSession(sessionCfg); err != nil {
			return fmt.Errorf("card fields session: %w", err)
		}
	}
	return nil
}

func (c *Controller) renderWidgets() error {
	if c.session.wallet != nil && c.cfg.WalletMount != nil {
		if err := c.session.wallet.Render(c.cfg.WalletMount); err != nil {
			return fmt.Errorf("wallet widget: %w", err)
		}
	}
	if c.session.googlePay != nil && c.cfg.GooglePayMount != nil {
		if err := c.session.googlePay.Render(c.cfg.GooglePayMount); err != nil {
			return fmt.Errorf("googlepay widget: %w", err)
		}
	}
	if c.session.cardFields != nil {
		if err := c.session.cardFields.Render(c.cfg.CardFieldMounts); err != nil {
			return fmt.Errorf("card fields widget: %w", err)
		}
	}
	return nil
}

// SubmitExpress starts the express flow: no address validation, order
// created at the current canonical total, provider approval started
// immediately.
func (c *Controller) SubmitExpress(ctx context.Context, method Method) error {
	if err := c.beginSubmit(); err != nil {
		return err
	}
	return c.runWalletSubmit(ctx, method)
}

// SubmitStandard is the standard flow: the shipping form must validate
// before any network call; the first invalid field is focused.
func (c *Controller) SubmitStandard(ctx context.Context, method Method, addr ShippingAddress) error {
	if errs, first := addr.Validate(); len(errs) > 0 {
		if c.cfg.Focuser != nil {
			c.cfg.Focuser.Focus(first)
		}
		return &AddressValidationError{Fields: errs, First: first}
	}

	if err := c.beginSubmit(); err != nil {
		return err
	}

	if method == MethodCardFields {
		return c.runCardFieldsSubmit(ctx, addr)
	}
	return c.runWalletSubmit(ctx, method)
}

// SubmitManualCard is the non-hosted card form: card data is validated
// locally, then the gateway nonce is charged server-side. No network
// call happens on a validation failure.
func (c *Controller) SubmitManualCard(ctx context.Context, addr ShippingAddress, input CardInput) error {
	if errs, first := addr.Validate(); len(errs) > 0 {
		if c.cfg.Focuser != nil {
			c.cfg.Focuser.Focus(first)
		}
		return &AddressValidationError{Fields: errs, First: first}
	}

	result := card.ValidateCard(input.Number, input.Expiry, input.CVV, input.HolderName, c.cfg.Production)
	if !result.Valid() {
		if c.cfg.Focuser != nil {
			c.cfg.Focuser.Focus(sortedKeys(result.Errors)[0])
		}
		return &CardValidationError{Result: result}
	}
	if result.IsTestCard {
		c.cfg.Logger.Warn("test card number used", "brand", string(result.Brand))
	}

	if err := c.beginSubmit(); err != nil {
		return err
	}

	amount := pricing.FormatAmount(c.cfg.Totals().Total)
	orderID, err := c.cfg.API.ChargeCard(ctx, input.Nonce, amount)
	if err != nil {
		c.failSubmit(fmt.Sprintf("card payment failed: %v", err))
		return fmt.Errorf("charge card: %w", err)
	}

	c.completeOrder(orderID)
	return nil
}

func (c *Controller) beginSubmit() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mounted {
		return ErrNotMounted
	}
	if c.state == StateSubmitting {
		return ErrSubmitInProgress
	}
	if c.state != StateSessionActive {
		return fmt.Errorf("cannot submit from state %s", c.state)
	}
	c.lastErr = ""
	c.setState(StateSubmitting)
	return nil
}

func (c *Controller) runWalletSubmit(ctx context.Context, method Method) error {
	c.mu.Lock()
	session := c.session.wallet
	if method == MethodGooglePay {
		session = c.session.googlePay
	}
	fallback := c.fallback || session == nil || !c.eligibility.Has(method)
	c.mu.Unlock()

	amount := pricing.FormatAmount(c.cfg.Totals().Total)
	orderID, approveURL, err := c.cfg.API.CreateOrder(ctx, amount)
	if err != nil {
		c.failSubmit(fmt.Sprintf("could not start payment: %v", err))
		return fmt.Errorf("create order: %w", err)
	}

	if fallback {
		// Non-hosted equivalent: hand the browser to the provider's
		// approval page; capture happens on the return redirect.
		if c.cfg.Navigator == nil {
			c.failSubmit("payment is temporarily unavailable")
			return errors.New("fallback flow requires a navigator")
		}
		c.cfg.Navigator.Redirect(approveURL)
		// If the navigator did not replace the document, the session
		// stays interactive for a retry.
		c.endSubmit()
		return nil
	}

	result, err := session.Approve(ctx, orderID)
	if err != nil {
		c.failSubmit(fmt.Sprintf("payment failed: %v", err))
		return fmt.Errorf("approval flow: %w", err)
	}
	return c.finishApproval(ctx, orderID, result)
}

func (c *Controller) runCardFieldsSubmit(ctx context.Context, addr ShippingAddress) error {
	c.mu.Lock()
	session := c.session.cardFields
	eligible := c.eligibility.Has(MethodCardFields)
	c.mu.Unlock()

	if session == nil || !eligible {
		c.failSubmit("card payment is unavailable")
		return ErrMethodIneligible
	}

	amount := pricing.FormatAmount(c.cfg.Totals().Total)
	orderID, _, err := c.cfg.API.CreateOrder(ctx, amount)
	if err != nil {
		c.failSubmit(fmt.Sprintf("could not start payment: %v", err))
		return fmt.Errorf("create order: %w", err)
	}

	result, err := session.Submit(ctx, orderID, addr.Billing())
	if err != nil {
		c.failSubmit(fmt.Sprintf("card payment failed: %v", err))
		return fmt.Errorf("card fields submit: %w", err)
	}
	return c.finishApproval(ctx, orderID, result)
}

func (c *Controller) finishApproval(ctx context.Context, orderID string, result ApprovalResult) error {
	switch result.State {
	case ApprovalSucceeded:
		captureID, err := c.cfg.API.CaptureOrder(ctx, orderID)
		if err != nil {
			c.failSubmit(fmt.Sprintf("payment could not be completed: %v", err))
			return fmt.Errorf("capture order: %w", err)
		}
		c.cfg.Logger.Info("payment captured", "order_id", orderID, "capture_id", captureID)
		c.completeOrder(orderID)
		return nil

	case ApprovalCanceled:
		// User cancellation is not an error; the session stays live
		// for a retry.
		c.cancelSubmit()
		return nil

	default:
		reason := result.Reason
		if reason == "" {
			reason = "payment was declined"
		}
		c.failSubmit(reason)
		return errors.New(reason)
	}
}

// completeOrder fires OnOrderComplete exactly once. Capture has already
// succeeded by the time this runs, and nothing fires after teardown.
func (c *Controller) completeOrder(orderID string) {
	c.mu.Lock()
	if !c.mounted || c.completed {
		c.mu.Unlock()
		return
	}
	c.completed = true
	c.setState(StateCompleted)
	callback := c.cfg.OnOrderComplete
	c.mu.Unlock()

	if callback != nil {
		callback(orderID)
	}
}

// endSubmit returns the machine to the active session after a handoff
// that finishes outside the controller, such as the fallback redirect.
func (c *Controller) endSubmit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return
	}
	c.setState(StateSessionActive)
}

func (c *Controller) cancelSubmit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return
	}
	c.setState(StateCancelled)
	c.setState(StateSessionActive)
}

func (c *Controller) failSubmit(message string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.mounted {
		return
	}
	c.lastErr = message
	c.cfg.Logger.Warn("checkout submission failed", "reason", message, "attempt", c.attemptID)
	c.setState(StateFailed)
	c.setState(StateSessionActive)
}

// Back abandons checkout and notifies the caller.
func (c *Controller) Back() {
	c.mu.Lock()
	mounted := c.mounted
	callback := c.cfg.OnBack
	c.mu.Unlock()

	if mounted && callback != nil {
		callback()
	}
}

// Unmount tears down every provider session and mounted widget
// unconditionally. Pending continuations observe mounted=false and
// drop their results, so no callback fires after teardown.
func (c *Controller) Unmount() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.mounted {
		return
	}
	c.mounted = false
	c.session.teardown()

	if c.cfg.WalletMount != nil {
		c.cfg.WalletMount.Clear()
	}
	if c.cfg.GooglePayMount != nil {
		c.cfg.GooglePayMount.Clear()
	}
	c.cfg.CardFieldMounts.clear()

	c.fallback = false
	c.eligibility = Eligibility{}
	c.state = StateIdle
}
