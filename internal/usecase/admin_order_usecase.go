package usecase

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"easybuy/internal/domain/model"
	"easybuy/internal/metrics"
	repo "easybuy/internal/repository"
)

type AdminOrderUsecase struct {
	tx repo.TransactionManager
}

func NewAdminOrderUsecase(tx repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx}
}

type AdminOrderListInput struct {
	Page   int
	Limit  int
	Status string
	UserID *int64
	From   *time.Time
	To     *time.Time
}

type AdminOrderListOutput struct {
	Orders []OrderOutput `json:"orders"`
	Total  int64         `json:"total"`
	Page   int           `json:"page"`
	Limit  int           `json:"limit"`
}

// 監査ログのbefore/afterに入れる状態スナップショット
type orderStatusSnapshot struct {
	OrderStatus    string `json:"order_status"`
	ScheduleStatus string `json:"schedule_status"`
}

func (u *AdminOrderUsecase) ListOrders(ctx context.Context, in AdminOrderListInput) (AdminOrderListOutput, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 20
	}
	if in.Status != "" {
		switch model.OrderStatus(in.Status) {
		case model.OrderStatusPending, model.OrderStatusConfirmed,
			model.OrderStatusDelivered, model.OrderStatusCancelled:
		default:
			return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
		}
	}

	var out AdminOrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, repo.AdminOrderListFilter{
			Page:   in.Page,
			Limit:  in.Limit,
			Status: in.Status,
			UserID: in.UserID,
			From:   in.From,
			To:     in.To,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs := make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderProducts().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}

		out = AdminOrderListOutput{Orders: outs, Total: total, Page: in.Page, Limit: in.Limit}
		return nil
	})

	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return out, nil
}

func (u *AdminOrderUsecase) GetOrderDetail(ctx context.Context, orderID int64) (OrderDetailOutput, error) {
	if orderID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out OrderDetailOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		detail, err := loadOrderDetail(ctx, r, o)
		if err != nil {
			return err
		}
		out = detail
		return nil
	})

	if err != nil {
		return OrderDetailOutput{}, err
	}
	return out, nil
}

type AuditLogListInput struct {
	Page        int
	Limit       int
	ActorUserID *int64
	Action      string
	ResourceID  *int64
	From        *time.Time
	To          *time.Time
}

type AuditLogListOutput struct {
	Logs  []model.AuditLog `json:"logs"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// ListAuditLogs は管理者操作の監査ログを条件付きで返す。
func (u *AdminOrderUsecase) ListAuditLogs(ctx context.Context, in AuditLogListInput) (AuditLogListOutput, error) {
	if in.Page <= 0 {
		in.Page = 1
	}
	if in.Limit <= 0 || in.Limit > 100 {
		in.Limit = 50
	}

	filter := repo.AuditLogFilter{
		ActorUserID: in.ActorUserID,
		ResourceID:  in.ResourceID,
		CreatedFrom: in.From,
		CreatedTo:   in.To,
		Limit:       in.Limit,
		Offset:      (in.Page - 1) * in.Limit,
	}
	if in.Action != "" {
		switch model.AuditAction(in.Action) {
		case model.AuditActionUpdateOrderStatus, model.AuditActionConfirmPayment:
			a := model.AuditAction(in.Action)
			filter.Action = &a
		default:
			return AuditLogListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid action")
		}
	}

	var out AuditLogListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		logs, err := r.AuditLogs().List(ctx, filter)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		out = AuditLogListOutput{Logs: logs, Page: in.Page, Limit: in.Limit}
		return nil
	})

	if err != nil {
		return AuditLogListOutput{}, err
	}
	return out, nil
}

// ConfirmOrder は pending の注文を confirmed にする。
// Order側とSchedule側の両方のstatusを同一Txで進める。
func (u *AdminOrderUsecase) ConfirmOrder(ctx context.Context, actorID int64, orderID int64) error {
	err := u.transition(ctx, actorID, orderID, func(r repo.TxRepos, o model.Order, s model.OrderSchedule, now time.Time) error {
		if o.OrderStatus != model.OrderStatusPending {
			return NewHTTPError(http.StatusConflict, "order is not pending")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusConfirmed); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().SetConfirmationDate(ctx, orderID, now); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.OrderSchedules().MarkConfirmed(ctx, orderID, repo.ScheduleTransition{
			Status:      model.ScheduleStatusConfirmed,
			At:          now,
			Description: "order confirmed",
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	metrics.RecordOrderOperation("confirm", err == nil)
	return err
}

// StartShipping は confirmed の注文の配送を in_transit にする。
// Order側のstatusは confirmed のまま動かさない。
func (u *AdminOrderUsecase) StartShipping(ctx context.Context, actorID int64, orderID int64) error {
	err := u.transition(ctx, actorID, orderID, func(r repo.TxRepos, o model.Order, s model.OrderSchedule, now time.Time) error {
		if o.OrderStatus != model.OrderStatusConfirmed {
			return NewHTTPError(http.StatusConflict, "order is not confirmed")
		}
		if s.Status != model.ScheduleStatusConfirmed {
			return NewHTTPError(http.StatusConflict, "shipment is not confirmed")
		}

		if err := r.OrderSchedules().MarkInTransit(ctx, orderID, repo.ScheduleTransition{
			Status:      model.ScheduleStatusInTransit,
			At:          now,
			Description: "shipment in transit",
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	metrics.RecordOrderOperation("start_shipping", err == nil)
	return err
}

// CompleteShipping は in_transit の配送を shipped にし、注文を delivered で締める。
func (u *AdminOrderUsecase) CompleteShipping(ctx context.Context, actorID int64, orderID int64) error {
	err := u.transition(ctx, actorID, orderID, func(r repo.TxRepos, o model.Order, s model.OrderSchedule, now time.Time) error {
		if o.OrderStatus != model.OrderStatusConfirmed {
			return NewHTTPError(http.StatusConflict, "order is not confirmed")
		}
		if s.Status != model.ScheduleStatusInTransit {
			return NewHTTPError(http.StatusConflict, "shipment is not in transit")
		}

		if err := r.OrderSchedules().MarkShipped(ctx, orderID, repo.ScheduleTransition{
			Status:      model.ScheduleStatusShipped,
			At:          now,
			Description: "shipment delivered",
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusDelivered); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	metrics.RecordOrderOperation("complete_shipping", err == nil)
	return err
}

// CancelOrder は注文と配送をまとめて cancelled にする。
// delivered / cancelled からのキャンセルは拒否する。
func (u *AdminOrderUsecase) CancelOrder(ctx context.Context, actorID int64, orderID int64, reason string) error {
	err := u.transition(ctx, actorID, orderID, func(r repo.TxRepos, o model.Order, s model.OrderSchedule, now time.Time) error {
		if o.OrderStatus.IsTerminal() {
			return NewHTTPError(http.StatusConflict, "order already closed")
		}

		if err := r.Orders().UpdateStatus(ctx, orderID, model.OrderStatusCancelled); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if err := r.OrderSchedules().MarkCancelled(ctx, orderID, repo.ScheduleTransition{
			Status:      model.ScheduleStatusCancelled,
			At:          now,
			Description: "order cancelled",
			Notes:       reason,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		return nil
	})

	metrics.RecordOrderOperation("cancel", err == nil)
	return err
}

// 遷移の共通枠。注文＋配送ログの現在値を読み、fnに判定と書き込みを任せ、
// 成功したら監査ログを残す。
func (u *AdminOrderUsecase) transition(
	ctx context.Context,
	actorID int64,
	orderID int64,
	fn func(r repo.TxRepos, o model.Order, s model.OrderSchedule, now time.Time) error,
) error {
	if actorID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, err := r.Orders().FindByID(ctx, orderID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		s, err := r.OrderSchedules().FindByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		now := time.Now()
		before := orderStatusSnapshot{
			OrderStatus:    string(o.OrderStatus),
			ScheduleStatus: string(s.Status),
		}

		if err := fn(r, o, s, now); err != nil {
			return err
		}

		//遷移後の値を読み直して監査ログへ
		oAfter, err := r.Orders().FindByID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		sAfter, err := r.OrderSchedules().FindByOrderID(ctx, orderID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		after := orderStatusSnapshot{
			OrderStatus:    string(oAfter.OrderStatus),
			ScheduleStatus: string(sAfter.Status),
		}

		beforeJSON, _ := json.Marshal(before)
		afterJSON, _ := json.Marshal(after)

		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  actorID,
			Action:       model.AuditActionUpdateOrderStatus,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			BeforeJSON:   string(beforeJSON),
			AfterJSON:    string(afterJSON),
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		zap.L().Info("order status updated",
			zap.Int64("order_id", orderID),
			zap.Int64("actor_id", actorID),
			zap.String("before", before.OrderStatus+"/"+before.ScheduleStatus),
			zap.String("after", after.OrderStatus+"/"+after.ScheduleStatus),
		)
		return nil
	})

	return err
}
