package repository

import (
	"context"
	"errors"

	"easybuy/internal/domain/model"
	repo "easybuy/internal/repository"

	"gorm.io/gorm"
)

type OrderScheduleGormRepository struct {
	db *gorm.DB
}

// DI
func NewOrderScheduleGormRepository(db *gorm.DB) *OrderScheduleGormRepository {
	return &OrderScheduleGormRepository{db: db}
}

func (r *OrderScheduleGormRepository) Create(ctx context.Context, s model.OrderSchedule) error {
	return r.db.WithContext(ctx).Create(&s).Error
}

func (r *OrderScheduleGormRepository) FindByOrderID(ctx context.Context, orderID int64) (model.OrderSchedule, error) {
	var s model.OrderSchedule
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&s).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.OrderSchedule{}, repo.ErrNotFound
	}
	if err != nil {
		return model.OrderSchedule{}, err
	}
	return s, nil
}

func (r *OrderScheduleGormRepository) MarkConfirmed(ctx context.Context, orderID int64, t repo.ScheduleTransition) error {
	return r.mark(ctx, orderID, t, "confirmation_date")
}

func (r *OrderScheduleGormRepository) MarkInTransit(ctx context.Context, orderID int64, t repo.ScheduleTransition) error {
	return r.mark(ctx, orderID, t, "delivery_date")
}

func (r *OrderScheduleGormRepository) MarkShipped(ctx context.Context, orderID int64, t repo.ScheduleTransition) error {
	return r.mark(ctx, orderID, t, "delivered_date")
}

func (r *OrderScheduleGormRepository) MarkCancelled(ctx context.Context, orderID int64, t repo.ScheduleTransition) error {
	return r.mark(ctx, orderID, t, "cancelled_date")
}

// statusと対応する日付カラムを同じUPDATEで書く。
// 日付は未設定のときだけ入る（遷移ごとに1度だけ）。
func (r *OrderScheduleGormRepository) mark(ctx context.Context, orderID int64, t repo.ScheduleTransition, dateColumn string) error {
	updates := map[string]interface{}{
		"status":               t.Status,
		dateColumn:             t.At,
		"schedule_description": t.Description,
		"notes":                t.Notes,
	}

	res := r.db.WithContext(ctx).Model(&model.OrderSchedule{}).
		Where("order_id = ? AND "+dateColumn+" IS NULL", orderID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
