package usecase_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"easybuy/internal/domain/model"
	"easybuy/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type EvidenceStoreMock struct{ mock.Mock }

func (m *EvidenceStoreMock) Save(ctx context.Context, ext string, r io.Reader) (string, error) {
	args := m.Called(ctx, ext)
	return args.String(0), args.Error(1)
}

var testBank = usecase.BankInfo{
	BankCode:        "MB",
	BankAccount:     "0000111122223",
	BankAccountName: "EASYBUY JSC",
}

// 注文＋支払いを所有者userID=1で用意する
func setupPaymentMocks(orderStatus model.OrderStatus, payStatus model.PaymentStatus) (*TxManagerMock, *OrderRepoMock, *OrderPaymentRepoMock) {
	tx := new(TxManagerMock)
	orders := new(OrderRepoMock)
	payments := new(OrderPaymentRepoMock)

	tx.Repos = &TxReposMock{orders: orders, orderPayments: payments}
	tx.On("WithinTx", mock.Anything).Return(nil)

	orders.On("FindByID", mock.Anything, int64(7)).Return(model.Order{
		ID: 7, UserID: 1, OrderCode: "ORD250901001", OrderStatus: orderStatus, TotalAmount: 250,
	}, nil)
	payments.On("FindByOrderID", mock.Anything, int64(7)).Return(model.OrderPayment{
		ID: 70, OrderID: 7, PaymentMethod: "bank_transfer",
		PaymentStatus: payStatus, PaymentAmount: 250, PaymentCode: "AB3X0001",
	}, nil)

	return tx, orders, payments
}

func TestPaymentUsecase_ProcessPayment_ReturnsBankInfoAndQR(t *testing.T) {
	tx, _, _ := setupPaymentMocks(model.OrderStatusPending, model.PaymentStatusPending)
	store := new(EvidenceStoreMock)

	uc := usecase.NewPaymentUsecase(tx, store, testBank)

	out, err := uc.ProcessPayment(context.Background(), 1, 7)
	assert.NoError(t, err)

	assert.Equal(t, "ORD250901001", out.OrderCode)
	assert.Equal(t, "AB3X0001", out.PaymentCode)
	assert.Equal(t, int64(250), out.PaymentAmount)
	assert.Equal(t, "MB", out.BankCode)

	//QR画像URLは口座と参照コードを含む
	assert.True(t, strings.Contains(out.QRImageURL, "img.vietqr.io/image/MB-0000111122223"))
	assert.True(t, strings.Contains(out.QRImageURL, "amount=250"))
	assert.True(t, strings.Contains(out.QRImageURL, "addInfo=AB3X0001"))
}

func TestPaymentUsecase_ProcessPayment_OtherUsersOrderHidden(t *testing.T) {
	tx, _, _ := setupPaymentMocks(model.OrderStatusPending, model.PaymentStatusPending)
	store := new(EvidenceStoreMock)

	uc := usecase.NewPaymentUsecase(tx, store, testBank)

	_, err := uc.ProcessPayment(context.Background(), 2, 7)
	assertErrContains(t, err, "not found")
}

func TestPaymentUsecase_ProcessPayment_CancelledOrder(t *testing.T) {
	tx, _, _ := setupPaymentMocks(model.OrderStatusCancelled, model.PaymentStatusPending)
	store := new(EvidenceStoreMock)

	uc := usecase.NewPaymentUsecase(tx, store, testBank)

	_, err := uc.ProcessPayment(context.Background(), 1, 7)
	assertErrContains(t, err, "order cancelled")
}

func TestPaymentUsecase_SubmitEvidence_InvalidExt(t *testing.T) {
	tx := new(TxManagerMock)
	store := new(EvidenceStoreMock)

	uc := usecase.NewPaymentUsecase(tx, store, testBank)

	_, err := uc.SubmitEvidence(context.Background(), 1, 7, ".exe", strings.NewReader("x"))
	assertErrContains(t, err, "invalid image type")

	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPaymentUsecase_SubmitEvidence_StoreFailureTouchesNoRow(t *testing.T) {
	tx, _, payments := setupPaymentMocks(model.OrderStatusPending, model.PaymentStatusPending)
	store := new(EvidenceStoreMock)

	store.On("Save", mock.Anything, ".jpg").Return("", errors.New("disk full"))

	uc := usecase.NewPaymentUsecase(tx, store, testBank)

	_, err := uc.SubmitEvidence(context.Background(), 1, 7, ".jpg", strings.NewReader("img"))
	assertErrContains(t, err, "failed to store image")

	//画像が書けなければDB行は一切触らない
	payments.AssertNotCalled(t, "AttachEvidence", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentUsecase_SubmitEvidence_Success(t *testing.T) {
	tx, _, payments := setupPaymentMocks(model.OrderStatusPending, model.PaymentStatusPending)
	store := new(EvidenceStoreMock)

	store.On("Save", mock.Anything, ".png").Return("payments/abc.png", nil)
	payments.On("AttachEvidence", mock.Anything, int64(7), "payments/abc.png", mock.Anything).Return(nil)

	uc := usecase.NewPaymentUsecase(tx, store, testBank)

	out, err := uc.SubmitEvidence(context.Background(), 1, 7, ".png", strings.NewReader("img"))
	assert.NoError(t, err)

	assert.Equal(t, "waiting_for_confirmation", out.PaymentStatus)
	assert.Equal(t, "payments/abc.png", out.PaymentImage)
	assert.NotNil(t, out.PaymentDate)

	payments.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestPaymentUsecase_SubmitEvidence_AlreadyConfirmed(t *testing.T) {
	tx, _, payments := setupPaymentMocks(model.OrderStatusConfirmed, model.PaymentStatusConfirmed)
	store := new(EvidenceStoreMock)

	uc := usecase.NewPaymentUsecase(tx, store, testBank)

	_, err := uc.SubmitEvidence(context.Background(), 1, 7, ".jpg", strings.NewReader("img"))
	assertErrContains(t, err, "already confirmed")

	store.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	payments.AssertNotCalled(t, "AttachEvidence", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

// =====================
// AdminPaymentUsecase
// =====================

func TestAdminPaymentUsecase_ConfirmPayment_FromWaiting(t *testing.T) {
	tx := new(TxManagerMock)
	payments := new(OrderPaymentRepoMock)
	audit := new(AuditLogRepoMock)

	tx.Repos = &TxReposMock{orderPayments: payments, auditLogs: audit}
	tx.On("WithinTx", mock.Anything).Return(nil)

	payments.On("FindByID", mock.Anything, int64(70)).Return(model.OrderPayment{
		ID: 70, OrderID: 7, PaymentStatus: model.PaymentStatusWaitingForConfirmation,
	}, nil)
	payments.On("UpdateStatus", mock.Anything, int64(70), model.PaymentStatusConfirmed).Return(nil)
	audit.On("Create", mock.Anything, mock.MatchedBy(func(l model.AuditLog) bool {
		return l.Action == model.AuditActionConfirmPayment && l.ResourceID == int64(70)
	})).Return(nil)

	uc := usecase.NewAdminPaymentUsecase(tx)

	err := uc.ConfirmPayment(context.Background(), 99, 70)
	assert.NoError(t, err)

	payments.AssertExpectations(t)
	audit.AssertExpectations(t)
}

func TestAdminPaymentUsecase_ConfirmPayment_WithoutEvidenceAllowed(t *testing.T) {
	tx := new(TxManagerMock)
	payments := new(OrderPaymentRepoMock)
	audit := new(AuditLogRepoMock)

	tx.Repos = &TxReposMock{orderPayments: payments, auditLogs: audit}
	tx.On("WithinTx", mock.Anything).Return(nil)

	payments.On("FindByID", mock.Anything, int64(70)).Return(model.OrderPayment{
		ID: 70, OrderID: 7, PaymentStatus: model.PaymentStatusPending,
	}, nil)
	payments.On("UpdateStatus", mock.Anything, int64(70), model.PaymentStatusConfirmed).Return(nil)
	audit.On("Create", mock.Anything, mock.Anything).Return(nil)

	uc := usecase.NewAdminPaymentUsecase(tx)

	err := uc.ConfirmPayment(context.Background(), 99, 70)
	assert.NoError(t, err)
}

func TestAdminPaymentUsecase_ConfirmPayment_AlreadyConfirmed(t *testing.T) {
	tx := new(TxManagerMock)
	payments := new(OrderPaymentRepoMock)

	tx.Repos = &TxReposMock{orderPayments: payments}
	tx.On("WithinTx", mock.Anything).Return(nil)

	payments.On("FindByID", mock.Anything, int64(70)).Return(model.OrderPayment{
		ID: 70, PaymentStatus: model.PaymentStatusConfirmed,
	}, nil)

	uc := usecase.NewAdminPaymentUsecase(tx)

	err := uc.ConfirmPayment(context.Background(), 99, 70)
	assertErrContains(t, err, "already confirmed")

	payments.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}
