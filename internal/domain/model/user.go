package model

import "time"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

type User struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//外部公開用のコード（uid_ + ランダム14文字）
	UserCode string `gorm:"type:varchar(18);not null;uniqueIndex" json:"user_code"`

	Username string `gorm:"type:varchar(100);not null;uniqueIndex" json:"username"`
	Name     string `gorm:"type:varchar(255);not null" json:"name"`
	Email    string `gorm:"type:varchar(255);not null;uniqueIndex" json:"email"`

	//電話番号
	Phone string `gorm:"type:varchar(30)" json:"phone"`

	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Role         Role   `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	IsActive     bool   `gorm:"not null;default:true" json:"is_active"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
