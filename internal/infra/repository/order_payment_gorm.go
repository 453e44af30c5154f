package repository

import (
	"context"
	"errors"
	"time"

	"easybuy/internal/domain/model"
	repo "easybuy/internal/repository"

	"gorm.io/gorm"
)

type OrderPaymentGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderPaymentGormRepository(db *gorm.DB) *OrderPaymentGormRepository {
	return &OrderPaymentGormRepository{db: db}
}

func (r *OrderPaymentGormRepository) Create(ctx context.Context, p model.OrderPayment) error {
	return r.db.WithContext(ctx).Create(&p).Error
}

func (r *OrderPaymentGormRepository) FindByID(ctx context.Context, paymentID int64) (model.OrderPayment, error) {
	var p model.OrderPayment
	err := r.db.WithContext(ctx).Where("id = ?", paymentID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OrderPayment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OrderPayment{}, err
	}
	return p, nil
}

func (r *OrderPaymentGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.OrderPayment, error) {
	var p model.OrderPayment
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OrderPayment{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OrderPayment{}, err
	}
	return p, nil
}

func (r *OrderPaymentGormRepository) ListAll(ctx context.Context, page int, limit int) ([]model.OrderPayment, int64, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.OrderPayment{}).Count(&total).Error; err != nil {
		return []model.OrderPayment{}, 0, err
	}

	var items []model.OrderPayment
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Order("id desc").
		Limit(limit).
		Offset(offset).
		Find(&items).Error
	if err != nil {
		return []model.OrderPayment{}, 0, err
	}

	return items, total, nil
}

// 証憑・ステータス・日時は同じUPDATEで書く（部分適用を見せない）
func (r *OrderPaymentGormRepository) AttachEvidence(ctx context.Context, orderID int64, image string, at time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.OrderPayment{}).
		Where("order_id = ?", orderID).
		Updates(map[string]interface{}{
			"payment_image":  image,
			"payment_status": model.PaymentStatusWaitingForConfirmation,
			"payment_date":   at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderPaymentGormRepository) UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentStatus) error {
	res := r.db.WithContext(ctx).Model(&model.OrderPayment{}).
		Where("id = ?", paymentID).
		Update("payment_status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *OrderPaymentGormRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrderPayment{}).
		Where("payment_code = ?", code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *OrderPaymentGormRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.OrderPayment{}).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
