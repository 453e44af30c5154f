package repository

import (
	"context"
	"time"

	"easybuy/internal/domain/model"
)

type OrderPaymentRepository interface {
	Create(ctx context.Context, p model.OrderPayment) error
	FindByID(ctx context.Context, paymentID int64) (model.OrderPayment, error)
	FindByOrderID(ctx context.Context, orderID int64) (model.OrderPayment, error)

	//管理者用の全件一覧
	ListAll(ctx context.Context, page int, limit int) ([]model.OrderPayment, int64, error)

	//証憑画像 + waiting_for_confirmation + payment_date を1回の更新で入れる
	AttachEvidence(ctx context.Context, orderID int64, image string, at time.Time) error

	UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentStatus) error

	//payment_code生成の衝突チェック用
	ExistsByCode(ctx context.Context, code string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
