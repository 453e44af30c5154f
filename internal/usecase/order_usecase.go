package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"easybuy/internal/codegen"
	"easybuy/internal/domain/model"
	"easybuy/internal/metrics"
	repo "easybuy/internal/repository"
)

// コード衝突時の引き直し上限
const (
	orderCodeMaxAttempts   = 5
	paymentCodeMaxAttempts = 5
)

type OrderUsecase struct {
	tx repo.TransactionManager
}

func NewOrderUsecase(tx repo.TransactionManager) *OrderUsecase {
	return &OrderUsecase{tx: tx}
}

type CreateOrderInput struct {
	ShippingMethod string
	PaymentMethod  string
}

type OrderProductOutput struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     int64  `json:"price"`
	Quantity  int64  `json:"quantity"`
	Total     int64  `json:"total"`
}

type ShippingAddressOutput struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
}

type OrderScheduleOutput struct {
	Status           string                `json:"status"`
	OrderDate        time.Time             `json:"order_date"`
	ConfirmationDate *time.Time            `json:"confirmation_date"`
	DeliveryDate     *time.Time            `json:"delivery_date"`
	DeliveredDate    *time.Time            `json:"delivered_date"`
	CancelledDate    *time.Time            `json:"cancelled_date"`
	ShippingAddress  ShippingAddressOutput `json:"shipping_address"`
	ShippingCost     int64                 `json:"shipping_cost"`
}

type OrderPaymentOutput struct {
	ID            int64      `json:"id"`
	PaymentMethod string     `json:"payment_method"`
	PaymentStatus string     `json:"payment_status"`
	PaymentAmount int64      `json:"payment_amount"`
	PaymentCode   string     `json:"payment_code"`
	PaymentImage  string     `json:"payment_image,omitempty"`
	PaymentDate   *time.Time `json:"payment_date"`
}

type OrderOutput struct {
	ID          int64                `json:"id"`
	OrderCode   string               `json:"order_code"`
	UserID      int64                `json:"user_id"`
	OrderStatus string               `json:"order_status"`
	TotalAmount int64                `json:"total_amount"`
	CreatedAt   time.Time            `json:"created_at"`
	Products    []OrderProductOutput `json:"products"`
}

// 明細＋配送ログ＋支払いまで含めた詳細
type OrderDetailOutput struct {
	OrderOutput
	Schedule OrderScheduleOutput `json:"order_schedule"`
	Payment  OrderPaymentOutput  `json:"order_payment"`
}

// CreateOrder はカートのスナップショットから
// Order / OrderProduct / OrderSchedule / OrderPayment を1トランザクションで作り、カートを空にする。
// どれか1つでも失敗したら全部ロールバックする。
func (u *OrderUsecase) CreateOrder(ctx context.Context, userID int64, in CreateOrderInput) (OrderOutput, error) {
	if userID <= 0 {
		return OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid payment_method")
	}

	var out OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//カート取得
		cart, err := r.Carts().FindByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カート明細取得
		cartProducts, err := r.CartProducts().ListByCartID(ctx, cart.ID)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if len(cartProducts) == 0 {
			return NewHTTPError(http.StatusBadRequest, "cart empty")
		}

		//デフォルト住所（無ければ注文は作れない）
		addr, err := r.Addresses().FindDefaultByUserID(ctx, userID)
		if err == repo.ErrNotFound {
			return NewHTTPError(http.StatusBadRequest, "shipping address not found")
		}
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//単価をこの時点で確定してスナップショット
		orderProducts := make([]model.OrderProduct, 0, len(cartProducts))
		outProducts := make([]OrderProductOutput, 0, len(cartProducts))
		var total int64 = 0

		for _, cp := range cartProducts {
			p, err := r.Products().FindByID(ctx, cp.ProductID)
			if err == repo.ErrNotFound {
				return NewHTTPError(http.StatusBadRequest, "invalid product")
			}
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			if !p.IsActive {
				return NewHTTPError(http.StatusBadRequest, "invalid product")
			}

			orderProducts = append(orderProducts, model.OrderProduct{
				ProductID: cp.ProductID,
				Quantity:  cp.Quantity,
				Price:     p.Price,
			})
			outProducts = append(outProducts, OrderProductOutput{
				ProductID: cp.ProductID,
				Name:      p.Name,
				Price:     p.Price,
				Quantity:  cp.Quantity,
				Total:     p.Price * cp.Quantity,
			})

			total += p.Price * cp.Quantity
		}

		now := time.Now()

		//注文コード（ORD + yymmdd + 連番）
		//INSERTで一意制約に当たるとトランザクションごと失敗するので、空きは挿入前に確認する
		orderCode, err := newOrderCode(ctx, r, now)
		if err != nil {
			return err
		}

		orderID, err := r.Orders().Create(ctx, model.Order{
			OrderCode:   orderCode,
			UserID:      userID,
			TotalAmount: total,
			OrderStatus: model.OrderStatusPending,
		})
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//注文明細一括作成
		if err := r.OrderProducts().CreateBulk(ctx, orderID, orderProducts); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//配送ログ（住所スナップショット付き）
		if err := r.OrderSchedules().Create(ctx, model.OrderSchedule{
			OrderID:         orderID,
			UserID:          userID,
			Status:          model.ScheduleStatusPending,
			OrderDate:       now,
			ShippingAddress: addr.FullAddress(),
			RecipientName:   addr.CustomerName,
			RecipientPhone:  addr.PhoneNumber,
			ShippingCost:    0,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//支払い行（振込参照コード付き）
		paymentCode, err := u.newPaymentCode(ctx, r)
		if err != nil {
			return err
		}
		if err := r.OrderPayments().Create(ctx, model.OrderPayment{
			OrderID:       orderID,
			PaymentMethod: in.PaymentMethod,
			PaymentStatus: model.PaymentStatusPending,
			PaymentAmount: total,
			PaymentCode:   paymentCode,
		}); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		//カートを空にする（再注文防止）
		if err := r.Carts().Clear(ctx, cart.ID); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderOutput{
			ID:          orderID,
			OrderCode:   orderCode,
			UserID:      userID,
			OrderStatus: string(model.OrderStatusPending),
			TotalAmount: total,
			CreatedAt:   now,
			Products:    outProducts,
		}
		return nil
	})

	metrics.RecordOrderOperation("create", err == nil)

	if err != nil {
		return OrderOutput{}, err
	}
	return out, nil
}

// 当日の連番を空き番号まで進めて注文コードを採番する
func newOrderCode(ctx context.Context, r repo.TxRepos, now time.Time) (string, error) {
	seq, err := r.Orders().CountByCodePrefix(ctx, codegen.OrderCodePrefix(now))
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	for i := 0; i < orderCodeMaxAttempts; i++ {
		code := codegen.OrderCode(now, seq+1)

		exists, err := r.Orders().ExistsByCode(ctx, code)
		if err != nil {
			return "", NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !exists {
			return code, nil
		}
		//同時作成と被っていたら次の連番を試す
		seq++
	}

	return "", NewHTTPError(http.StatusInternalServerError, "order code exhausted")
}

// 8文字の振込参照コードを一意になるまで引く
func (u *OrderUsecase) newPaymentCode(ctx context.Context, r repo.TxRepos) (string, error) {
	seq, err := r.OrderPayments().Count(ctx)
	if err != nil {
		return "", NewHTTPError(http.StatusInternalServerError, "db error")
	}

	for i := 0; i < paymentCodeMaxAttempts; i++ {
		code := codegen.PaymentCode(seq + 1)

		exists, err := r.OrderPayments().ExistsByCode(ctx, code)
		if err != nil {
			return "", NewHTTPError(http.StatusInternalServerError, "db error")
		}
		if !exists {
			return code, nil
		}
		//衝突したら新しいランダムプレフィックスで引き直す
	}

	return "", NewHTTPError(http.StatusInternalServerError, "payment code exhausted")
}

func (u *OrderUsecase) ListMyOrders(ctx context.Context, userID int64) ([]OrderOutput, error) {
	if userID <= 0 {
		return []OrderOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	//ページングはまずは固定で取る
	var outs []OrderOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, _, err := r.Orders().ListByUserID(ctx, userID, 1, 50)
		if err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		outs = make([]OrderOutput, 0, len(orders))
		for _, o := range orders {
			items, err := r.OrderProducts().ListByOrderID(ctx, o.ID)
			if err != nil {
				return NewHTTPError(http.StatusInternalServerError, "db error")
			}
			outs = append(outs, toOrderOutput(o, items))
		}
		return nil
	})

	if err != nil {
		return []OrderOutput{}, err
	}
	return outs, nil
}

func (u *OrderUsecase) GetMyOrderDetail(ctx context.Context, userID int64, orderID int64) (OrderDetailOutput, error) {
	if userID <= 0 {
		return OrderDetailOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
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
		if o.UserID != userID {
			//他人の注文は「存在しない扱い」にする
			return NewHTTPError(http.StatusNotFound, "not found")
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

// 注文＋明細＋配送ログ＋支払いをまとめて読む
func loadOrderDetail(ctx context.Context, r repo.TxRepos, o model.Order) (OrderDetailOutput, error) {
	items, err := r.OrderProducts().ListByOrderID(ctx, o.ID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	sched, err := r.OrderSchedules().FindByOrderID(ctx, o.ID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	pay, err := r.OrderPayments().FindByOrderID(ctx, o.ID)
	if err != nil {
		return OrderDetailOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return OrderDetailOutput{
		OrderOutput: toOrderOutput(o, items),
		Schedule: OrderScheduleOutput{
			Status:           string(sched.Status),
			OrderDate:        sched.OrderDate,
			ConfirmationDate: sched.ConfirmationDate,
			DeliveryDate:     sched.DeliveryDate,
			DeliveredDate:    sched.DeliveredDate,
			CancelledDate:    sched.CancelledDate,
			ShippingAddress: ShippingAddressOutput{
				Name:    sched.RecipientName,
				Phone:   sched.RecipientPhone,
				Address: sched.ShippingAddress,
			},
			ShippingCost: sched.ShippingCost,
		},
		Payment: OrderPaymentOutput{
			ID:            pay.ID,
			PaymentMethod: pay.PaymentMethod,
			PaymentStatus: string(pay.PaymentStatus),
			PaymentAmount: pay.PaymentAmount,
			PaymentCode:   pay.PaymentCode,
			PaymentImage:  pay.PaymentImage,
			PaymentDate:   pay.PaymentDate,
		},
	}, nil
}

func toOrderOutput(o model.Order, items []model.OrderProduct) OrderOutput {
	outItems := make([]OrderProductOutput, 0, len(items))
	for _, it := range items {
		outItems = append(outItems, OrderProductOutput{
			ProductID: it.ProductID,
			Price:     it.Price,
			Quantity:  it.Quantity,
			Total:     it.Price * it.Quantity,
		})
	}

	return OrderOutput{
		ID:          o.ID,
		OrderCode:   o.OrderCode,
		UserID:      o.UserID,
		OrderStatus: string(o.OrderStatus),
		TotalAmount: o.TotalAmount,
		CreatedAt:   o.CreatedAt,
		Products:    outItems,
	}
}
