package service

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"storefront-checkout/internal/checkout"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeMount struct{ rendered int }

func (m *fakeMount) Clear() { m.rendered = 0 }

func (m *fakeMount) Render(any) error {
	m.rendered++
	return nil
}

type fakeWalletSession struct {
	result checkout.ApprovalResult
}

func (s *fakeWalletSession) Render(mount checkout.WidgetMount) error { return mount.Render("wallet") }
func (s *fakeWalletSession) Approve(context.Context, string) (checkout.ApprovalResult, error) {
	return s.result, nil
}
func (s *fakeWalletSession) Teardown() {}

type fakeSDK struct {
	wallet *fakeWalletSession
}

func (s *fakeSDK) Eligibility(string) (checkout.Eligibility, error) {
	return checkout.Eligibility{Wallet: true}, nil
}

func (s *fakeSDK) NewWalletSession(checkout.SessionConfig) (checkout.WalletSession, error) {
	return s.wallet, nil
}

func (s *fakeSDK) NewGooglePaySession(checkout.SessionConfig) (checkout.WalletSession, error) {
	return nil, errors.New("not eligible")
}

func (s *fakeSDK) NewCardFieldsSession(checkout.SessionConfig) (checkout.CardFieldsSession, error) {
	return nil, errors.New("not eligible")
}

type fakeLoader struct {
	sdk checkout.SDK
	err error
}

func (l *fakeLoader) Loaded() bool { return false }
func (l *fakeLoader) Load(context.Context, string) (checkout.SDK, error) {
	return l.sdk, l.err
}

func snapshotFor(items []model.LineItem, promo string) func() CartSnapshot {
	return func() CartSnapshot {
		return CartSnapshot{Items: items, PromoCode: promo}
	}
}

func newWiredController(t *testing.T, cfg *config.Config, loader checkout.ScriptLoader, completed *[]string) (*checkout.Controller, *MockPaypalClient) {
	t.Helper()
	pp := &MockPaypalClient{}
	db := testDB(t)
	svc := NewCheckoutService(db, pp, &MockCardGateway{}, repository.NewOrderRepository(db), cfg, slog.Default())

	ctrlCfg := ControllerConfig(cfg, svc, snapshotFor(cartItems(), "TINY20"), slog.Default())
	ctrlCfg.Loader = loader
	ctrlCfg.WalletMount = &fakeMount{}
	ctrlCfg.OnOrderComplete = func(orderID string) {
		*completed = append(*completed, orderID)
	}
	return checkout.NewController(ctrlCfg), pp
}

func TestControllerConfig_ExpressFlowThroughService(t *testing.T) {
	var completed []string
	loader := &fakeLoader{sdk: &fakeSDK{
		wallet: &fakeWalletSession{result: checkout.ApprovalResult{State: checkout.ApprovalSucceeded}},
	}}
	ctrl, pp := newWiredController(t, testConfig(), loader, &completed)

	require.NoError(t, ctrl.Mount(context.Background()))
	require.NoError(t, ctrl.SubmitExpress(context.Background(), checkout.MethodWallet))

	require.Len(t, pp.Created, 1)
	assert.Equal(t, "318.40", pp.Created[0].Value, "controller and service price the same cart")
	assert.Equal(t, []string{"ORDER-123"}, completed)
	assert.Equal(t, checkout.StateCompleted, ctrl.State())
}

func TestControllerConfig_ProductionDisablesSimulatedFallback(t *testing.T) {
	cfg := testConfig()
	cfg.Environment.Name = "production"
	cfg.Checkout.AllowSimulated = true

	var completed []string
	ctrl, _ := newWiredController(t, cfg, &fakeLoader{err: errors.New("script blocked")}, &completed)

	require.NoError(t, ctrl.Mount(context.Background()))
	assert.True(t, ctrl.Fallback(), "production never substitutes the simulated session")
}

func TestControllerConfig_DevelopmentAllowsSimulated(t *testing.T) {
	cfg := testConfig()
	cfg.Checkout.AllowSimulated = true

	var completed []string
	ctrl, _ := newWiredController(t, cfg, &fakeLoader{err: errors.New("script blocked")}, &completed)

	require.NoError(t, ctrl.Mount(context.Background()))
	assert.False(t, ctrl.Fallback(), "development with the override gets the simulated session")
	assert.Equal(t, checkout.StateSessionActive, ctrl.State())
}
