package models

import (
	"time"
)

type UserRole string

const (
	RoleFarmer   UserRole = "farmer"
	RoleBuyer    UserRole = "buyer"
	RoleSupplier UserRole = "supplier"
	RoleAdmin    UserRole = "admin"
)

type User struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	Name         string    `gorm:"not null" json:"name"`
	Phone        string    `gorm:"uniqueIndex;not null" json:"phone"`
	Email        *string   `gorm:"uniqueIndex" json:"email,omitempty"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         UserRole  `gorm:"type:varchar(20);not null" json:"role"`
	LanguagePref string    `gorm:"type:varchar(10);default:'en'" json:"language_pref"`
	TrustScore   float64   `gorm:"default:0" json:"trust_score"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
