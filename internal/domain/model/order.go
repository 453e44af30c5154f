package model

import "time"

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// delivered / cancelled からは遷移できない
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type Order struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//日付プレフィックス付きの注文コード（ORD + yymmdd + 連番）
	OrderCode string `gorm:"type:varchar(12);not null;uniqueIndex" json:"order_code"`

	UserID int64 `gorm:"not null;index" json:"user_id"`

	//注文作成時に明細から計算して以後変更しない
	TotalAmount int64 `gorm:"not null" json:"total_amount"`

	OrderStatus      OrderStatus `gorm:"type:varchar(20);not null;index" json:"order_status"`
	ConfirmationDate *time.Time  `json:"confirmation_date"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
