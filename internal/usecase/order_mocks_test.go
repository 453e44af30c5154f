package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"easybuy/internal/domain/model"
	repo "easybuy/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// =====================
// TxManager / TxRepos mocks
// =====================

// TxManagerMock は WithinTx の中で渡す repos を固定して unit テストを回す
type TxManagerMock struct {
	mock.Mock
	Repos repo.TxRepos
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	// 呼ばれた事実だけ記録（ctxの具体値は問わない）
	m.Called(ctx)
	return fn(m.Repos)
}

type TxReposMock struct {
	orders         repo.OrderRepository
	orderProducts  repo.OrderProductRepository
	orderSchedules repo.OrderScheduleRepository
	orderPayments  repo.OrderPaymentRepository
	carts          repo.CartRepository
	cartProducts   repo.CartProductRepository
	products       repo.ProductRepository
	addresses      repo.AddressRepository
	auditLogs      repo.AuditLogRepository
}

func (r *TxReposMock) Orders() repo.OrderRepository                 { return r.orders }
func (r *TxReposMock) OrderProducts() repo.OrderProductRepository   { return r.orderProducts }
func (r *TxReposMock) OrderSchedules() repo.OrderScheduleRepository { return r.orderSchedules }
func (r *TxReposMock) OrderPayments() repo.OrderPaymentRepository   { return r.orderPayments }
func (r *TxReposMock) Carts() repo.CartRepository                   { return r.carts }
func (r *TxReposMock) CartProducts() repo.CartProductRepository     { return r.cartProducts }
func (r *TxReposMock) Products() repo.ProductRepository             { return r.products }
func (r *TxReposMock) Addresses() repo.AddressRepository            { return r.addresses }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository           { return r.auditLogs }

// =====================
// Repository mocks
// =====================

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) ListByUserID(ctx context.Context, userID int64, page int, limit int) ([]model.Order, int64, error) {
	args := m.Called(ctx, userID, page, limit)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (int64, error) {
	args := m.Called(ctx, order)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) SetConfirmationDate(ctx context.Context, orderID int64, at time.Time) error {
	args := m.Called(ctx, orderID, at)
	return args.Error(0)
}

func (m *OrderRepoMock) CountByCodePrefix(ctx context.Context, prefix string) (int64, error) {
	args := m.Called(ctx, prefix)
	return args.Get(0).(int64), args.Error(1)
}

func (m *OrderRepoMock) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type OrderProductRepoMock struct{ mock.Mock }

func (m *OrderProductRepoMock) CreateBulk(ctx context.Context, orderID int64, items []model.OrderProduct) error {
	args := m.Called(ctx, orderID, items)
	return args.Error(0)
}

func (m *OrderProductRepoMock) ListByOrderID(ctx context.Context, orderID int64) ([]model.OrderProduct, error) {
	args := m.Called(ctx, orderID)
	items, _ := args.Get(0).([]model.OrderProduct)
	return items, args.Error(1)
}

type OrderScheduleRepoMock struct{ mock.Mock }

func (m *OrderScheduleRepoMock) Create(ctx context.Context, s model.OrderSchedule) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *OrderScheduleRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.OrderSchedule, error) {
	args := m.Called(ctx, orderID)
	s, _ := args.Get(0).(model.OrderSchedule)
	return s, args.Error(1)
}

func (m *OrderScheduleRepoMock) MarkConfirmed(ctx context.Context, orderID int64, t repo.ScheduleTransition) error {
	args := m.Called(ctx, orderID, t)
	return args.Error(0)
}

func (m *OrderScheduleRepoMock) MarkInTransit(ctx context.Context, orderID int64, t repo.ScheduleTransition) error {
	args := m.Called(ctx, orderID, t)
	return args.Error(0)
}

func (m *OrderScheduleRepoMock) MarkShipped(ctx context.Context, orderID int64, t repo.ScheduleTransition) error {
	args := m.Called(ctx, orderID, t)
	return args.Error(0)
}

func (m *OrderScheduleRepoMock) MarkCancelled(ctx context.Context, orderID int64, t repo.ScheduleTransition) error {
	args := m.Called(ctx, orderID, t)
	return args.Error(0)
}

type OrderPaymentRepoMock struct{ mock.Mock }

func (m *OrderPaymentRepoMock) Create(ctx context.Context, p model.OrderPayment) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *OrderPaymentRepoMock) FindByID(ctx context.Context, paymentID int64) (model.OrderPayment, error) {
	args := m.Called(ctx, paymentID)
	p, _ := args.Get(0).(model.OrderPayment)
	return p, args.Error(1)
}

func (m *OrderPaymentRepoMock) FindByOrderID(ctx context.Context, orderID int64) (model.OrderPayment, error) {
	args := m.Called(ctx, orderID)
	p, _ := args.Get(0).(model.OrderPayment)
	return p, args.Error(1)
}

func (m *OrderPaymentRepoMock) ListAll(ctx context.Context, page int, limit int) ([]model.OrderPayment, int64, error) {
	args := m.Called(ctx, page, limit)
	payments, _ := args.Get(0).([]model.OrderPayment)
	return payments, args.Get(1).(int64), args.Error(2)
}

func (m *OrderPaymentRepoMock) AttachEvidence(ctx context.Context, orderID int64, image string, at time.Time) error {
	args := m.Called(ctx, orderID, image, at)
	return args.Error(0)
}

func (m *OrderPaymentRepoMock) UpdateStatus(ctx context.Context, paymentID int64, status model.PaymentStatus) error {
	args := m.Called(ctx, paymentID, status)
	return args.Error(0)
}

func (m *OrderPaymentRepoMock) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *OrderPaymentRepoMock) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByUserID(ctx context.Context, userID int64) (model.Cart, error) {
	args := m.Called(ctx, userID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) Clear(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartProductRepoMock struct{ mock.Mock }

func (m *CartProductRepoMock) ListByCartID(ctx context.Context, cartID int64) ([]model.CartProduct, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartProduct)
	return items, args.Error(1)
}

func (m *CartProductRepoMock) UpsertByCartAndProduct(ctx context.Context, cartID int64, productID int64, addQty int64) error {
	args := m.Called(ctx, cartID, productID, addQty)
	return args.Error(0)
}

func (m *CartProductRepoMock) UpdateQuantity(ctx context.Context, cartProductID int64, qty int64) error {
	args := m.Called(ctx, cartProductID, qty)
	return args.Error(0)
}

func (m *CartProductRepoMock) DeleteByID(ctx context.Context, cartProductID int64) error {
	args := m.Called(ctx, cartProductID)
	return args.Error(0)
}

func (m *CartProductRepoMock) FindByID(ctx context.Context, cartProductID int64) (model.CartProduct, error) {
	args := m.Called(ctx, cartProductID)
	cp, _ := args.Get(0).(model.CartProduct)
	return cp, args.Error(1)
}

func (m *CartProductRepoMock) IsOwnedByUser(ctx context.Context, cartProductID int64, userID int64) (bool, error) {
	args := m.Called(ctx, cartProductID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *CartProductRepoMock) CountByCartID(ctx context.Context, cartID int64) (int64, error) {
	args := m.Called(ctx, cartID)
	return args.Get(0).(int64), args.Error(1)
}

type ProductRepoMock struct{ mock.Mock }

func (m *ProductRepoMock) ListPublic(ctx context.Context, q repo.ProductListQuery) ([]model.Product, int64, error) {
	args := m.Called(ctx, q)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *ProductRepoMock) FindByID(ctx context.Context, id int64) (model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(model.Product)
	return p, args.Error(1)
}

func (m *ProductRepoMock) Create(ctx context.Context, p model.Product) (model.Product, error) {
	args := m.Called(ctx, p)
	created, _ := args.Get(0).(model.Product)
	return created, args.Error(1)
}

func (m *ProductRepoMock) Update(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *ProductRepoMock) SoftDelete(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *ProductRepoMock) ListAll(ctx context.Context, page int, limit int) ([]model.Product, int64, error) {
	args := m.Called(ctx, page, limit)
	items, _ := args.Get(0).([]model.Product)
	return items, args.Get(1).(int64), args.Error(2)
}

type AddressRepoMock struct{ mock.Mock }

func (m *AddressRepoMock) Create(ctx context.Context, address model.Address) (model.Address, error) {
	args := m.Called(ctx, address)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) ListByUserID(ctx context.Context, userID int64) ([]model.Address, error) {
	args := m.Called(ctx, userID)
	addrs, _ := args.Get(0).([]model.Address)
	return addrs, args.Error(1)
}

func (m *AddressRepoMock) FindByID(ctx context.Context, addressID int64) (model.Address, error) {
	args := m.Called(ctx, addressID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) FindDefaultByUserID(ctx context.Context, userID int64) (model.Address, error) {
	args := m.Called(ctx, userID)
	a, _ := args.Get(0).(model.Address)
	return a, args.Error(1)
}

func (m *AddressRepoMock) Update(ctx context.Context, address model.Address) error {
	args := m.Called(ctx, address)
	return args.Error(0)
}

func (m *AddressRepoMock) Delete(ctx context.Context, addressID int64) error {
	args := m.Called(ctx, addressID)
	return args.Error(0)
}

func (m *AddressRepoMock) IsOwnedByUser(ctx context.Context, addressID, userID int64) (bool, error) {
	args := m.Called(ctx, addressID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *AddressRepoMock) SetDefault(ctx context.Context, userID, addressID int64) error {
	args := m.Called(ctx, userID, addressID)
	return args.Error(0)
}

type AuditLogRepoMock struct{ mock.Mock }

func (m *AuditLogRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditLogRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

// =====================
// Helper: error contains（HTTPErrorの実装詳細に依存しない）
// =====================

func assertErrContains(t *testing.T, err error, wantSubstr string) {
	t.Helper()
	if assert.Error(t, err) {
		assert.True(t, strings.Contains(err.Error(), wantSubstr), "err=%q want contains %q", err.Error(), wantSubstr)
	}
}
