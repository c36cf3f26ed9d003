package checkout

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simulatedFixtureConfig(production, allowSimulated bool) (Config, *MockAPI) {
	api := &MockAPI{
		OrderID:    "ORDER-123",
		ApproveURL: "https://example.test/approve",
		CaptureID:  "CAP-1",
	}
	loader := &MockLoader{Err: errors.New("script blocked")}
	return Config{
		Loader:         loader,
		API:            api,
		Currency:       "USD",
		Totals:         promoCart(),
		WalletMount:    &MockMount{},
		Navigator:      &MockNavigator{},
		Production:     production,
		AllowSimulated: allowSimulated,
	}, api
}

func TestSimulatedSDK_OnlyOutsideProduction(t *testing.T) {
	cfg, _ := simulatedFixtureConfig(false, true)
	ctrl := NewController(cfg)

	require.NoError(t, ctrl.Mount(context.Background()))

	assert.False(t, ctrl.Fallback(), "simulated sdk stands in for the failed script")
	assert.False(t, ctrl.Eligibility().None())
}

func TestSimulatedSDK_RefusedInProduction(t *testing.T) {
	cfg, _ := simulatedFixtureConfig(true, true)
	ctrl := NewController(cfg)

	require.NoError(t, ctrl.Mount(context.Background()))

	assert.True(t, ctrl.Fallback(), "production never fabricates approvals")
}

func TestSimulatedSDK_RequiresExplicitFlag(t *testing.T) {
	cfg, _ := simulatedFixtureConfig(false, false)
	ctrl := NewController(cfg)

	require.NoError(t, ctrl.Mount(context.Background()))

	assert.True(t, ctrl.Fallback())
}

func TestSimulatedSession_ApprovesAfterDelay(t *testing.T) {
	sdk := NewSimulatedSDK(5 * time.Millisecond)
	session, err := sdk.NewWalletSession(SessionConfig{Currency: "USD"})
	require.NoError(t, err)

	result, err := session.Approve(context.Background(), "ORDER-123")

	require.NoError(t, err)
	assert.Equal(t, ApprovalSucceeded, result.State)
}

func TestSimulatedSession_CancelledByContext(t *testing.T) {
	sdk := NewSimulatedSDK(time.Minute)
	session, err := sdk.NewWalletSession(SessionConfig{Currency: "USD"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := session.Approve(ctx, "ORDER-123")

	require.NoError(t, err)
	assert.Equal(t, ApprovalCanceled, result.State)
}
