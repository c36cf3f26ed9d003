package model

import "time"

const (
	OrderStatusCreated   = "CREATED"
	OrderStatusCompleted = "COMPLETED"
	OrderStatusRefunded  = "REFUNDED"
)

// Order is one checkout attempt persisted at order creation time.
// OrderID is the provider's order id, AmountValue the canonical
// 2-decimal total every payment method must agree on.
type Order struct {
	ID          uint   `gorm:"primaryKey"`
	OrderID     string `gorm:"uniqueIndex"`
	Status      string
	AmountValue string
	Currency    string
	Description string
	PayerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OrderItem struct {
	ID        uint `gorm:"primaryKey"`
	OrderID   string
	ProductID string
	Quantity  int
	UnitPrice string
	BundleID  string
	Currency  string
	CreatedAt time.Time
}

// CaptureRecord stores the settled capture so a refund can reference it.
type CaptureRecord struct {
	ID        uint   `gorm:"primaryKey"`
	OrderID   string `gorm:"index"`
	CaptureID string `gorm:"uniqueIndex"`
	Status    string
	Amount    string
	Currency  string
	RefundID  string
	CreatedAt time.Time
	UpdatedAt time.Time
}
