package usecase

import (
	"context"
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"easybuy/internal/domain/model"
	"easybuy/internal/metrics"
	repo "easybuy/internal/repository"
)

type AdminPaymentUsecase struct {
	tx repo.TransactionManager
}

func NewAdminPaymentUsecase(tx repo.TransactionManager) *AdminPaymentUsecase {
	return &AdminPaymentUsecase{tx: tx}
}

// 管理者向けの支払い一覧1行分。注文コードも付けて返す。
type AdminPaymentOutput struct {
	OrderPaymentOutput
	OrderID   int64  `json:"order_id"`
	OrderCode string `json:"order_code"`
}

type AdminPaymentListOutput struct {
	Payments []AdminPaymentOutput `json:"payments"`
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	Limit    int                  `json:"limit"`
}

func (u *AdminPaymentUsecase) ListPayments(ctx context.Context, page, limit int) (AdminPaymentListOutput, error) {
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	var out AdminPaymentListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		payments, total, err := r.OrderPayments().ListAll(ctx, page, limit)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs := make([]AdminPaymentOutput, 0, len(payments))
		for _, pay := range payments {
			o, err := r.Orders().FindByID(ctx, pay.OrderID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, AdminPaymentOutput{
				OrderPaymentOutput: OrderPaymentOutput{
					ID:            pay.ID,
					PaymentMethod: pay.PaymentMethod,
					PaymentStatus: string(pay.PaymentStatus),
					PaymentAmount: pay.PaymentAmount,
					PaymentCode:   pay.PaymentCode,
					PaymentImage:  pay.PaymentImage,
					PaymentDate:   pay.PaymentDate,
				},
				OrderID:   o.ID,
				OrderCode: o.OrderCode,
			})
		}

		out = AdminPaymentListOutput{Payments: outs, Total: total, Page: page, Limit: limit}
		return nil
	})

	if err != nil {
		return AdminPaymentListOutput{}, err
	}
	return out, nil
}

// ConfirmPayment は入金確認を記録して支払いを confirmed にする。
// 証憑が未提出（pending）でも窓口入金などがあるため確認はできる。
func (u *AdminPaymentUsecase) ConfirmPayment(ctx context.Context, actorID int64, paymentID int64) error {
	if actorID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if paymentID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		pay, err := r.OrderPayments().FindByID(ctx, paymentID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		if pay.PaymentStatus == model.PaymentStatusConfirmed {
			return NewHTTPError(http.StatusConflict, "payment already confirmed")
		}

		if err := r.OrderPayments().UpdateStatus(ctx, paymentID, model.PaymentStatusConfirmed); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		before, _ := json.Marshal(map[string]string{"payment_status": string(pay.PaymentStatus)})
		after, _ := json.Marshal(map[string]string{"payment_status": string(model.PaymentStatusConfirmed)})

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorID,
			Action:       model.AuditActionConfirmPayment,
			ResourceType: model.AuditResourcePayment,
			ResourceID:   paymentID,
			BeforeJSON:   string(before),
			AfterJSON:    string(after),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		zap.L().Info("payment confirmed",
			zap.Int64("payment_id", paymentID),
			zap.Int64("order_id", pay.OrderID),
			zap.Int64("actor_id", actorID),
		)
		return nil
	})

	metrics.RecordOrderOperation("confirm_payment", err == nil)
	return err
}
