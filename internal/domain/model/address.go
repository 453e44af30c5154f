package model

import "time"

// 配送先住所
type Address struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID int64 `gorm:"not null;index" json:"user_id"`

	//番地など
	AddressDetail string `gorm:"type:varchar(255);not null" json:"address_detail"`

	//省/市
	ProvinceName string `gorm:"type:varchar(100);not null" json:"province_name"`

	//郡
	DistrictName string `gorm:"type:varchar(100);not null" json:"district_name"`

	//坊/村
	WardName string `gorm:"type:varchar(100);not null" json:"ward_name"`

	//宛名
	CustomerName string `gorm:"type:varchar(255);not null" json:"customer_name"`

	//電話番号
	PhoneNumber string `gorm:"type:varchar(30);not null" json:"phone_number"`

	//このユーザーのデフォルト住所か
	IsDefault bool `gorm:"not null;default:false" json:"is_default"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 配送スナップショット用に1行へ合成する
func (a Address) FullAddress() string {
	return a.AddressDetail + ", " + a.WardName + ", " + a.DistrictName + ", " + a.ProvinceName
}
