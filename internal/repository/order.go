package repository

import (
	"context"
	"time"

	"storefront-checkout/internal/model"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error
	FindByOrderID(ctx context.Context, orderID string) (*model.Order, error)
	MarkCompleted(ctx context.Context, tx *gorm.DB, orderID, payerID string) error
	CreateCapture(ctx context.Context, tx *gorm.DB, capture *model.CaptureRecord) error
	FindCapture(ctx context.Context, captureID string) (*model.CaptureRecord, error)
	MarkRefunded(ctx context.Context, tx *gorm.DB, captureID, refundID string) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) CreateOrderItems(ctx context.Context, tx *gorm.DB, items []*model.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *orderRepoImpl) FindByOrderID(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) MarkCompleted(ctx context.Context, tx *gorm.DB, orderID, payerID string) error {
	result := tx.WithContext(ctx).Model(&model.Order{}).
		Where("order_id = ? AND status = ?", orderID, model.OrderStatusCreated).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusCompleted,
			"payer_id":   payerID,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *orderRepoImpl) CreateCapture(ctx context.Context, tx *gorm.DB, capture *model.CaptureRecord) error {
	return tx.WithContext(ctx).Create(capture).Error
}

func (r *orderRepoImpl) FindCapture(ctx context.Context, captureID string) (*model.CaptureRecord, error) {
	var capture model.CaptureRecord
	err := r.db.WithContext(ctx).
		Where("capture_id = ?", captureID).
		First(&capture).Error

	if err != nil {
		return nil, err
	}

	return &capture, nil
}

func (r *orderRepoImpl) MarkRefunded(ctx context.Context, tx *gorm.DB, captureID, refundID string) error {
	return tx.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var capture model.CaptureRecord
		if err := tx.Where("capture_id = ?", captureID).First(&capture).Error; err != nil {
			return err
		}

		if err := tx.Model(&capture).Updates(map[string]interface{}{
			"refund_id":  refundID,
			"status":     model.OrderStatusRefunded,
			"updated_at": time.Now(),
		}).Error; err != nil {
			return err
		}

		return tx.Model(&model.Order{}).
			Where("order_id = ?", capture.OrderID).
			Updates(map[string]interface{}{
				"status":     model.OrderStatusRefunded,
				"updated_at": time.Now(),
			}).Error
	})
}
