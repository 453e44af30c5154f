package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending                PaymentStatus = "pending"
	PaymentStatusWaitingForConfirmation PaymentStatus = "waiting_for_confirmation"
	PaymentStatusConfirmed              PaymentStatus = "confirmed"
)

// 注文1件につき1行。銀行振込の手動確認を追跡する。
type OrderPayment struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;uniqueIndex" json:"order_id"`

	PaymentMethod string        `gorm:"type:varchar(50);not null" json:"payment_method"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(30);not null;index" json:"payment_status"`

	//Order.total_amountのコピー
	PaymentAmount int64 `gorm:"not null" json:"payment_amount"`

	//振込の参照文字列。顧客が振込内容欄に記載する（8文字）
	PaymentCode string `gorm:"type:varchar(8);not null;uniqueIndex" json:"payment_code"`

	//振込証憑画像の保存先（storage相対パス）
	PaymentImage string     `gorm:"type:varchar(500)" json:"payment_image"`
	PaymentDate  *time.Time `json:"payment_date"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
