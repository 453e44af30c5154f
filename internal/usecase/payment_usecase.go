package usecase

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"easybuy/internal/domain/model"
	repo "easybuy/internal/repository"
)

// 証憑画像の保存先。DB行より先にここへ書く。
type EvidenceStore interface {
	Save(ctx context.Context, ext string, r io.Reader) (string, error)
}

// 振込先の口座情報
type BankInfo struct {
	BankCode        string
	BankAccount     string
	BankAccountName string
}

type PaymentUsecase struct {
	tx    repo.TransactionManager
	store EvidenceStore
	bank  BankInfo
}

func NewPaymentUsecase(tx repo.TransactionManager, store EvidenceStore, bank BankInfo) *PaymentUsecase {
	return &PaymentUsecase{tx: tx, store: store, bank: bank}
}

// 顧客に見せる振込案内
type PaymentInstructionOutput struct {
	OrderCode       string `json:"order_code"`
	PaymentCode     string `json:"payment_code"`
	PaymentStatus   string `json:"payment_status"`
	PaymentAmount   int64  `json:"payment_amount"`
	BankCode        string `json:"bank_code"`
	BankAccount     string `json:"bank_account"`
	BankAccountName string `json:"bank_account_name"`
	QRImageURL      string `json:"qr_image_url"`
}

var allowedEvidenceExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// ProcessPayment は振込案内を返す。
// 振込内容欄にはpayment_codeを書いてもらい、入金の突き合わせに使う。
func (u *PaymentUsecase) ProcessPayment(ctx context.Context, userID int64, orderID int64) (PaymentInstructionOutput, error) {
	if userID <= 0 {
		return PaymentInstructionOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return PaymentInstructionOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	var out PaymentInstructionOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, pay, err := u.findOwnedPayment(ctx, r, userID, orderID)
		if err != nil {
			return err
		}

		if o.OrderStatus == model.OrderStatusCancelled {
			return NewHTTPError(http.StatusConflict, "order cancelled")
		}
		if pay.PaymentStatus == model.PaymentStatusConfirmed {
			return NewHTTPError(http.StatusConflict, "payment already confirmed")
		}

		out = PaymentInstructionOutput{
			OrderCode:       o.OrderCode,
			PaymentCode:     pay.PaymentCode,
			PaymentStatus:   string(pay.PaymentStatus),
			PaymentAmount:   pay.PaymentAmount,
			BankCode:        u.bank.BankCode,
			BankAccount:     u.bank.BankAccount,
			BankAccountName: u.bank.BankAccountName,
			QRImageURL:      u.qrImageURL(pay.PaymentAmount, pay.PaymentCode),
		}
		return nil
	})

	if err != nil {
		return PaymentInstructionOutput{}, err
	}
	return out, nil
}

// SubmitEvidence は振込証憑画像を受け取り、支払いを waiting_for_confirmation にする。
// 画像はDBより先にディスクへ書く。保存に失敗したら行は一切触らない。
func (u *PaymentUsecase) SubmitEvidence(ctx context.Context, userID int64, orderID int64, ext string, file io.Reader) (OrderPaymentOutput, error) {
	if userID <= 0 {
		return OrderPaymentOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return OrderPaymentOutput{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if !allowedEvidenceExts[strings.ToLower(ext)] {
		return OrderPaymentOutput{}, NewHTTPError(http.StatusBadRequest, "invalid image type")
	}

	//先に対象の支払いが受け付け可能か確認だけする
	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, pay, err := u.findOwnedPayment(ctx, r, userID, orderID)
		if err != nil {
			return err
		}
		if o.OrderStatus == model.OrderStatusCancelled {
			return NewHTTPError(http.StatusConflict, "order cancelled")
		}
		if pay.PaymentStatus == model.PaymentStatusConfirmed {
			return NewHTTPError(http.StatusConflict, "payment already confirmed")
		}
		return nil
	})
	if err != nil {
		return OrderPaymentOutput{}, err
	}

	image, err := u.store.Save(ctx, strings.ToLower(ext), file)
	if err != nil {
		zap.L().Error("evidence save failed", zap.Int64("order_id", orderID), zap.Error(err))
		return OrderPaymentOutput{}, NewHTTPError(http.StatusInternalServerError, "failed to store image")
	}

	now := time.Now()
	var out OrderPaymentOutput

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		o, pay, err := u.findOwnedPayment(ctx, r, userID, orderID)
		if err != nil {
			return err
		}
		if o.OrderStatus == model.OrderStatusCancelled {
			return NewHTTPError(http.StatusConflict, "order cancelled")
		}
		if pay.PaymentStatus == model.PaymentStatusConfirmed {
			return NewHTTPError(http.StatusConflict, "payment already confirmed")
		}

		if err := r.OrderPayments().AttachEvidence(ctx, orderID, image, now); err != nil {
			return NewHTTPError(http.StatusInternalServerError, "db error")
		}

		out = OrderPaymentOutput{
			ID:            pay.ID,
			PaymentMethod: pay.PaymentMethod,
			PaymentStatus: string(model.PaymentStatusWaitingForConfirmation),
			PaymentAmount: pay.PaymentAmount,
			PaymentCode:   pay.PaymentCode,
			PaymentImage:  image,
			PaymentDate:   &now,
		}
		return nil
	})

	if err != nil {
		//行の更新に失敗した場合、ファイルは孤児として残る（逆は許さない）
		return OrderPaymentOutput{}, err
	}
	return out, nil
}

func (u *PaymentUsecase) findOwnedPayment(ctx context.Context, r repo.TxRepos, userID, orderID int64) (model.Order, model.OrderPayment, error) {
	o, err := r.Orders().FindByID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Order{}, model.OrderPayment{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, model.OrderPayment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if o.UserID != userID {
		return model.Order{}, model.OrderPayment{}, NewHTTPError(http.StatusNotFound, "not found")
	}

	pay, err := r.OrderPayments().FindByOrderID(ctx, orderID)
	if err == repo.ErrNotFound {
		return model.Order{}, model.OrderPayment{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return model.Order{}, model.OrderPayment{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return o, pay, nil
}

// VietQRの画像URLを組み立てる
func (u *PaymentUsecase) qrImageURL(amount int64, paymentCode string) string {
	return fmt.Sprintf(
		"https://img.vietqr.io/image/%s-%s-compact2.png?amount=%d&addInfo=%s&accountName=%s",
		u.bank.BankCode,
		u.bank.BankAccount,
		amount,
		url.QueryEscape(paymentCode),
		url.QueryEscape(u.bank.BankAccountName),
	)
}
