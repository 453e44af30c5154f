package usecase_test

import (
	"context"
	"testing"

	"easybuy/internal/domain/model"
	repo "easybuy/internal/repository"
	"easybuy/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestOrderUsecase_CreateOrder_Unauthorized(t *testing.T) {
	tx := new(TxManagerMock)
	uc := usecase.NewOrderUsecase(tx)

	_, err := uc.CreateOrder(context.Background(), 0, usecase.CreateOrderInput{PaymentMethod: "bank_transfer"})
	assertErrContains(t, err, "unauthorized")
}

func TestOrderUsecase_CreateOrder_MissingPaymentMethod(t *testing.T) {
	tx := new(TxManagerMock)
	uc := usecase.NewOrderUsecase(tx)

	_, err := uc.CreateOrder(context.Background(), 1, usecase.CreateOrderInput{PaymentMethod: "  "})
	assertErrContains(t, err, "invalid payment_method")
}

func TestOrderUsecase_CreateOrder_EmptyCart(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	carts := new(CartRepoMock)

	tx.Repos = &TxReposMock{carts: carts}
	tx.On("WithinTx", mock.Anything).Return(nil)

	carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{}, repo.ErrNotFound)

	uc := usecase.NewOrderUsecase(tx)

	_, err := uc.CreateOrder(ctx, 1, usecase.CreateOrderInput{PaymentMethod: "bank_transfer"})
	assertErrContains(t, err, "cart empty")

	carts.AssertExpectations(t)
}

func TestOrderUsecase_CreateOrder_CartWithNoItems(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	carts := new(CartRepoMock)
	cartProducts := new(CartProductRepoMock)

	tx.Repos = &TxReposMock{carts: carts, cartProducts: cartProducts}
	tx.On("WithinTx", mock.Anything).Return(nil)

	carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	cartProducts.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartProduct{}, nil)

	uc := usecase.NewOrderUsecase(tx)

	_, err := uc.CreateOrder(ctx, 1, usecase.CreateOrderInput{PaymentMethod: "bank_transfer"})
	assertErrContains(t, err, "cart empty")
}

func TestOrderUsecase_CreateOrder_NoDefaultAddress(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	carts := new(CartRepoMock)
	cartProducts := new(CartProductRepoMock)
	addresses := new(AddressRepoMock)
	orders := new(OrderRepoMock)

	tx.Repos = &TxReposMock{carts: carts, cartProducts: cartProducts, addresses: addresses, orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	cartProducts.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartProduct{
		{ID: 1, CartID: 5, ProductID: 10, Quantity: 1},
	}, nil)
	addresses.On("FindDefaultByUserID", mock.Anything, int64(1)).Return(model.Address{}, repo.ErrNotFound)

	uc := usecase.NewOrderUsecase(tx)

	_, err := uc.CreateOrder(ctx, 1, usecase.CreateOrderInput{PaymentMethod: "bank_transfer"})
	assertErrContains(t, err, "shipping address not found")

	//住所が無ければ注文行は作らない
	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_CreateOrder_InactiveProduct(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	carts := new(CartRepoMock)
	cartProducts := new(CartProductRepoMock)
	addresses := new(AddressRepoMock)
	products := new(ProductRepoMock)
	orders := new(OrderRepoMock)

	tx.Repos = &TxReposMock{
		carts: carts, cartProducts: cartProducts,
		addresses: addresses, products: products, orders: orders,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	cartProducts.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartProduct{
		{ID: 1, CartID: 5, ProductID: 10, Quantity: 1},
	}, nil)
	addresses.On("FindDefaultByUserID", mock.Anything, int64(1)).Return(model.Address{ID: 3, UserID: 1, IsDefault: true}, nil)
	products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Price: 100, IsActive: false}, nil)

	uc := usecase.NewOrderUsecase(tx)

	_, err := uc.CreateOrder(ctx, 1, usecase.CreateOrderInput{PaymentMethod: "bank_transfer"})
	assertErrContains(t, err, "invalid product")

	orders.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOrderUsecase_CreateOrder_Success(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	carts := new(CartRepoMock)
	cartProducts := new(CartProductRepoMock)
	addresses := new(AddressRepoMock)
	products := new(ProductRepoMock)
	orders := new(OrderRepoMock)
	orderProducts := new(OrderProductRepoMock)
	schedules := new(OrderScheduleRepoMock)
	payments := new(OrderPaymentRepoMock)

	tx.Repos = &TxReposMock{
		orders: orders, orderProducts: orderProducts,
		orderSchedules: schedules, orderPayments: payments,
		carts: carts, cartProducts: cartProducts,
		products: products, addresses: addresses,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	cartProducts.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartProduct{
		{ID: 1, CartID: 5, ProductID: 10, Quantity: 1},
		{ID: 2, CartID: 5, ProductID: 11, Quantity: 2},
	}, nil)
	addresses.On("FindDefaultByUserID", mock.Anything, int64(1)).Return(model.Address{
		ID: 3, UserID: 1,
		AddressDetail: "12 Nguyen Hue",
		WardName:      "Ben Nghe",
		DistrictName:  "District 1",
		ProvinceName:  "Ho Chi Minh",
		CustomerName:  "Nguyen Van A",
		PhoneNumber:   "0900000000",
		IsDefault:     true,
	}, nil)
	products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Name: "Keyboard", Price: 100, IsActive: true}, nil)
	products.On("FindByID", mock.Anything, int64(11)).Return(model.Product{ID: 11, Name: "Mouse", Price: 75, IsActive: true}, nil)

	orders.On("CountByCodePrefix", mock.Anything, mock.Anything).Return(int64(2), nil)
	orders.On("ExistsByCode", mock.Anything, mock.Anything).Return(false, nil)

	var createdOrder model.Order
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		createdOrder = o
		return true
	})).Return(int64(77), nil)

	orderProducts.On("CreateBulk", mock.Anything, int64(77), mock.MatchedBy(func(items []model.OrderProduct) bool {
		return len(items) == 2
	})).Return(nil)

	var createdSchedule model.OrderSchedule
	schedules.On("Create", mock.Anything, mock.MatchedBy(func(s model.OrderSchedule) bool {
		createdSchedule = s
		return true
	})).Return(nil)

	payments.On("Count", mock.Anything).Return(int64(0), nil)
	payments.On("ExistsByCode", mock.Anything, mock.Anything).Return(false, nil)

	var createdPayment model.OrderPayment
	payments.On("Create", mock.Anything, mock.MatchedBy(func(p model.OrderPayment) bool {
		createdPayment = p
		return true
	})).Return(nil)

	carts.On("Clear", mock.Anything, int64(5)).Return(nil)

	uc := usecase.NewOrderUsecase(tx)

	out, err := uc.CreateOrder(ctx, 1, usecase.CreateOrderInput{PaymentMethod: "bank_transfer"})
	assert.NoError(t, err)

	//合計は現在単価のスナップショットから（100*1 + 75*2）
	assert.Equal(t, int64(250), out.TotalAmount)
	assert.Equal(t, "pending", out.OrderStatus)
	assert.Equal(t, 2, len(out.Products))

	//注文コードはORD + yymmdd + 連番（count=2なので003）
	assert.Equal(t, 12, len(createdOrder.OrderCode))
	assert.Equal(t, "ORD", createdOrder.OrderCode[:3])
	assert.Equal(t, "003", createdOrder.OrderCode[9:])
	assert.Equal(t, model.OrderStatusPending, createdOrder.OrderStatus)
	assert.Equal(t, int64(250), createdOrder.TotalAmount)

	//配送ログは住所スナップショット付きでpending
	assert.Equal(t, model.ScheduleStatusPending, createdSchedule.Status)
	assert.Equal(t, "12 Nguyen Hue, Ben Nghe, District 1, Ho Chi Minh", createdSchedule.ShippingAddress)
	assert.Equal(t, "Nguyen Van A", createdSchedule.RecipientName)

	//支払い行はpendingで参照コードは8文字
	assert.Equal(t, model.PaymentStatusPending, createdPayment.PaymentStatus)
	assert.Equal(t, int64(250), createdPayment.PaymentAmount)
	assert.Equal(t, 8, len(createdPayment.PaymentCode))

	carts.AssertExpectations(t)
	orders.AssertExpectations(t)
	orderProducts.AssertExpectations(t)
	schedules.AssertExpectations(t)
	payments.AssertExpectations(t)
}

// 同時作成で連番が被った場合、挿入前のチェックで次の番号へ進める
func TestOrderUsecase_CreateOrder_OrderCodeCollisionAdvancesSequence(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	carts := new(CartRepoMock)
	cartProducts := new(CartProductRepoMock)
	addresses := new(AddressRepoMock)
	products := new(ProductRepoMock)
	orders := new(OrderRepoMock)
	orderProducts := new(OrderProductRepoMock)
	schedules := new(OrderScheduleRepoMock)
	payments := new(OrderPaymentRepoMock)

	tx.Repos = &TxReposMock{
		orders: orders, orderProducts: orderProducts,
		orderSchedules: schedules, orderPayments: payments,
		carts: carts, cartProducts: cartProducts,
		products: products, addresses: addresses,
	}
	tx.On("WithinTx", mock.Anything).Return(nil)

	carts.On("FindByUserID", mock.Anything, int64(1)).Return(model.Cart{ID: 5, UserID: 1}, nil)
	cartProducts.On("ListByCartID", mock.Anything, int64(5)).Return([]model.CartProduct{
		{ID: 1, CartID: 5, ProductID: 10, Quantity: 1},
	}, nil)
	addresses.On("FindDefaultByUserID", mock.Anything, int64(1)).Return(model.Address{ID: 3, UserID: 1, IsDefault: true}, nil)
	products.On("FindByID", mock.Anything, int64(10)).Return(model.Product{ID: 10, Name: "Keyboard", Price: 100, IsActive: true}, nil)

	//count=2なのでまず003を引くが、別の注文に先を越されている
	orders.On("CountByCodePrefix", mock.Anything, mock.Anything).Return(int64(2), nil)
	orders.On("ExistsByCode", mock.Anything, mock.MatchedBy(func(code string) bool {
		return code[9:] == "003"
	})).Return(true, nil)
	orders.On("ExistsByCode", mock.Anything, mock.MatchedBy(func(code string) bool {
		return code[9:] == "004"
	})).Return(false, nil)

	var createdOrder model.Order
	orders.On("Create", mock.Anything, mock.MatchedBy(func(o model.Order) bool {
		createdOrder = o
		return true
	})).Return(int64(77), nil).Once()

	orderProducts.On("CreateBulk", mock.Anything, int64(77), mock.Anything).Return(nil)
	schedules.On("Create", mock.Anything, mock.Anything).Return(nil)
	payments.On("Count", mock.Anything).Return(int64(0), nil)
	payments.On("ExistsByCode", mock.Anything, mock.Anything).Return(false, nil)
	payments.On("Create", mock.Anything, mock.Anything).Return(nil)
	carts.On("Clear", mock.Anything, int64(5)).Return(nil)

	uc := usecase.NewOrderUsecase(tx)

	out, err := uc.CreateOrder(ctx, 1, usecase.CreateOrderInput{PaymentMethod: "bank_transfer"})
	assert.NoError(t, err)

	assert.Equal(t, "004", createdOrder.OrderCode[9:])
	assert.Equal(t, createdOrder.OrderCode, out.OrderCode)
	orders.AssertNumberOfCalls(t, "Create", 1)
}

func TestOrderUsecase_GetMyOrderDetail_OtherUsersOrderHidden(t *testing.T) {
	ctx := context.Background()

	tx := new(TxManagerMock)
	orders := new(OrderRepoMock)

	tx.Repos = &TxReposMock{orders: orders}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(9)).Return(model.Order{ID: 9, UserID: 2}, nil)

	uc := usecase.NewOrderUsecase(tx)

	_, err := uc.GetMyOrderDetail(ctx, 1, 9)
	assertErrContains(t, err, "not found")
}
