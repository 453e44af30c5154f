package repository

import (
	"context"
	"time"

	"easybuy/internal/domain/model"
)

// 配送ログの遷移1回分の書き込み内容。
// 日付フィールドは遷移ごとに対応するカラムへ入る。
type ScheduleTransition struct {
	Status      model.ScheduleStatus
	At          time.Time
	Description string
	Notes       string
}

type OrderScheduleRepository interface {
	Create(ctx context.Context, s model.OrderSchedule) error
	FindByOrderID(ctx context.Context, orderID int64) (model.OrderSchedule, error)

	//status + confirmation_date
	MarkConfirmed(ctx context.Context, orderID int64, t ScheduleTransition) error
	//status + delivery_date
	MarkInTransit(ctx context.Context, orderID int64, t ScheduleTransition) error
	//status + delivered_date
	MarkShipped(ctx context.Context, orderID int64, t ScheduleTransition) error
	//status + cancelled_date
	MarkCancelled(ctx context.Context, orderID int64, t ScheduleTransition) error
}
