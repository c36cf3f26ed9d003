package checkout

import (
	"context"
	"errors"
	"sync"
)

// MockLoader implements ScriptLoader for testing.
type MockLoader struct {
	mu       sync.Mutex
	SDK      SDK
	Err      error
	Loads    int
	Gate     chan struct{} // when set, Load blocks until the gate closes
	WasInDoc bool
}

func (m *MockLoader) Loaded() bool {
	return m.WasInDoc
}

func (m *MockLoader) Load(ctx context.Context, clientToken string) (SDK, error) {
	m.mu.Lock()
	m.Loads++
	gate := m.Gate
	m.mu.Unlock()

	if gate != nil {
		<-gate
	}
	return m.SDK, m.Err
}

// MockSDK implements SDK for testing.
type MockSDK struct {
	Elig    Eligibility
	EligErr error

	WalletSessions     int
	GooglePaySessions  int
	CardFieldsSessions int

	Wallet *MockWalletSession
	Card   *MockCardSession
}

func (m *MockSDK) Eligibility(string) (Eligibility, error) {
	return m.Elig, m.EligErr
}

func (m *MockSDK) NewWalletSession(SessionConfig) (WalletSession, error) {
	m.WalletSessions++
	if m.Wallet == nil {
		m.Wallet = &MockWalletSession{}
	}
	return m.Wallet, nil
}

func (m *MockSDK) NewGooglePaySession(SessionConfig) (WalletSession, error) {
	m.GooglePaySessions++
	return &MockWalletSession{}, nil
}

func (m *MockSDK) NewCardFieldsSession(SessionConfig) (CardFieldsSession, error) {
	m.CardFieldsSessions++
	if m.Card == nil {
		m.Card = &MockCardSession{}
	}
	return m.Card, nil
}

type MockWalletSession struct {
	Renders  int
	Approved []string // order ids passed to Approve
	Result   ApprovalResult
	Err      error
	Gate     chan struct{}
	TornDown bool
}

func (m *MockWalletSession) Render(mount WidgetMount) error {
	m.Renders++
	return mount.Render("wallet-button")
}

func (m *MockWalletSession) Approve(ctx context.Context, orderID string) (ApprovalResult, error) {
	m.Approved = append(m.Approved, orderID)
	if m.Gate != nil {
		<-m.Gate
	}
	return m.Result, m.Err
}

func (m *MockWalletSession) Teardown() { m.TornDown = true }

type MockCardSession struct {
	Renders  int
	Submits  []string
	Billing  BillingAddress
	Result   ApprovalResult
	Err      error
	TornDown bool
}

func (m *MockCardSession) Render(mounts CardFieldMounts) error {
	m.Renders++
	return nil
}

func (m *MockCardSession) Submit(_ context.Context, orderID string, billing BillingAddress) (ApprovalResult, error) {
	m.Submits = append(m.Submits, orderID)
	m.Billing = billing
	return m.Result, m.Err
}

func (m *MockCardSession) Teardown() { m.TornDown = true }

// MockMount implements WidgetMount, counting clears and tracking
// currently rendered handles.
type MockMount struct {
	mu       sync.Mutex
	Clears   int
	Rendered []any
}

func (m *MockMount) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Clears++
	m.Rendered = nil
}

func (m *MockMount) Render(handle any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Rendered = append(m.Rendered, handle)
	return nil
}

func (m *MockMount) Widgets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Rendered)
}

// MockAPI implements OrderAPI for testing.
type MockAPI struct {
	mu sync.Mutex

	Token      string
	TokenErr   error
	TokenCalls int

	OrderID    string
	ApproveURL string
	CreateErr  error
	Created    []string // amounts passed to CreateOrder

	CaptureID  string
	CaptureErr error
	Captured   []string

	ChargeOrderID string
	ChargeErr     error
	Charged       []string // amounts passed to ChargeCard
}

func (m *MockAPI) ClientToken(context.Context) (string, error) {
	m.mu.Lock()
	m.TokenCalls++
	m.mu.Unlock()
	if m.TokenErr != nil {
		return "", m.TokenErr
	}
	if m.Token == "" {
		return "client-token", nil
	}
	return m.Token, nil
}

func (m *MockAPI) CreateOrder(_ context.Context, amountValue string) (string, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Created = append(m.Created, amountValue)
	if m.CreateErr != nil {
		return "", "", m.CreateErr
	}
	return m.OrderID, m.ApproveURL, nil
}

func (m *MockAPI) CaptureOrder(_ context.Context, orderID string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Captured = append(m.Captured, orderID)
	if m.CaptureErr != nil {
		return "", m.CaptureErr
	}
	return m.CaptureID, nil
}

func (m *MockAPI) ChargeCard(_ context.Context, nonce, amountValue string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Charged = append(m.Charged, amountValue)
	if m.ChargeErr != nil {
		return "", m.ChargeErr
	}
	if m.ChargeOrderID == "" {
		return "", errors.New("no charge order id configured")
	}
	return m.ChargeOrderID, nil
}

type MockNavigator struct {
	URLs []string
}

func (m *MockNavigator) Redirect(url string) {
	m.URLs = append(m.URLs, url)
}

type MockFocuser struct {
	Fields []string
}

func (m *MockFocuser) Focus(field string) {
	m.Fields = append(m.Fields, field)
}
