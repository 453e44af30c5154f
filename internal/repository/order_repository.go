package repository

import (
	"context"
	"time"

	"easybuy/internal/domain/model"
)

type AdminOrderListFilter struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type OrderRepository interface {
	FindByID(ctx context.Context, orderID int64) (model.Order, error)
	ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error)
	Create(ctx context.Context, order model.Order) (int64, error)
	UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error

	//Order側のconfirmation_dateを1度だけ入れる
	SetConfirmationDate(ctx context.Context, orderID int64, at time.Time) error

	//注文コードの連番用（同一プレフィックスの件数）
	CountByCodePrefix(ctx context.Context, prefix string) (int64, error)

	//注文コードの空き確認（挿入前にチェックする）
	ExistsByCode(ctx context.Context, code string) (bool, error)

	//管理者用の注文一覧
	ListAdmin(ctx context.Context, f AdminOrderListFilter) ([]model.Order, int64, error)
}

type OrderProductRepository interface {
	CreateBulk(ctx context.Context, orderID int64, items []model.OrderProduct) error
	ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderProduct, error)
}
