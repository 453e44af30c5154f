package model

import "time"

type ScheduleStatus string

const (
	ScheduleStatusPending   ScheduleStatus = "pending"
	ScheduleStatusConfirmed ScheduleStatus = "confirmed"
	ScheduleStatusInTransit ScheduleStatus = "in_transit"
	ScheduleStatusShipped   ScheduleStatus = "shipped"
	ScheduleStatusCancelled ScheduleStatus = "cancelled"
)

// 注文1件につき1行の配送ログ。
// statusはOrder.order_statusより細かい語彙で配送フェーズを持つ。
// 住所は注文時点のスナップショット（以後不変）。
type OrderSchedule struct {
	ID      int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID int64 `gorm:"not null;uniqueIndex" json:"order_id"`
	UserID  int64 `gorm:"not null;index" json:"user_id"`

	Status ScheduleStatus `gorm:"type:varchar(30);not null;index" json:"status"`

	OrderDate time.Time `gorm:"not null" json:"order_date"`

	//配送先スナップショット
	ShippingAddress string `gorm:"type:varchar(500);not null" json:"shipping_address"`
	RecipientName   string `gorm:"type:varchar(255);not null" json:"recipient_name"`
	RecipientPhone  string `gorm:"type:varchar(30);not null" json:"recipient_phone"`
	ShippingCost    int64  `gorm:"not null;default:0" json:"shipping_cost"`

	//各遷移が最初に起きたときに1度だけ入る
	ConfirmationDate *time.Time `json:"confirmation_date"`
	DeliveryDate     *time.Time `json:"delivery_date"`
	DeliveredDate    *time.Time `json:"delivered_date"`
	CancelledDate    *time.Time `json:"cancelled_date"`

	ScheduleDescription string `gorm:"type:varchar(255)" json:"schedule_description"`
	Notes               string `gorm:"type:varchar(255)" json:"notes"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
