package model

import (
	"time"

	"gorm.io/gorm"
)

type Product struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//外部公開用のコード（pid_ + ランダム14文字）
	ProductCode string `gorm:"type:varchar(18);not null;uniqueIndex" json:"product_code"`

	Name        string `gorm:"type:varchar(255);not null" json:"name"`
	Description string `gorm:"type:text" json:"description"`

	//単価（VND、整数）
	Price int64 `gorm:"not null" json:"price"`

	CategoryID int64  `gorm:"not null;index" json:"category_id"`
	ImageURL   string `gorm:"type:varchar(500)" json:"image_url"`
	IsActive   bool   `gorm:"not null;default:false" json:"is_active"`

	CreatedAt time.Time      `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"not null;autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}
