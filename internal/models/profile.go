package models

import (
	"time"
)

type BuyerType string

const (
	BuyerRetail   BuyerType = "retail"
	BuyerBusiness BuyerType = "business"
)

// Farmer is the role profile for users with role "farmer". Exactly one per user.
// The farm location is a lon/lat point used for proximity features.
type Farmer struct {
	ID               uint      `gorm:"primarykey" json:"id"`
	UserID           uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	FarmLongitude    float64   `gorm:"not null" json:"farm_longitude"`
	FarmLatitude     float64   `gorm:"not null" json:"farm_latitude"`
	SoilType         string    `json:"soil_type,omitempty"`
	FarmingPractices string    `json:"farming_practices,omitempty"`
	ExperienceYears  int       `json:"experience_years,omitempty"`
	CommunityPoints  int       `gorm:"default:0" json:"community_points"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Farmer) TableName() string {
	return "farmers"
}

type Buyer struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	UserID      uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	BuyerType   BuyerType `gorm:"type:varchar(20);not null" json:"buyer_type"`
	CompanyName string    `json:"company_name,omitempty"`
	GSTNumber   string    `gorm:"type:varchar(30)" json:"gst_number,omitempty"`
	Address     string    `json:"address,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Buyer) TableName() string {
	return "buyers"
}

type Supplier struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	UserID        uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	BusinessName  string    `gorm:"not null" json:"business_name"`
	LicenseNumber string    `gorm:"type:varchar(50)" json:"license_number,omitempty"`
	Address       string    `json:"address,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Supplier) TableName() string {
	return "suppliers"
}

// ProfileRole maps a profile kind to the user role it requires.
func ProfileRole(profile interface{}) UserRole {
	switch profile.(type) {
	case Farmer, *Farmer:
		return RoleFarmer
	case Buyer, *Buyer:
		return RoleBuyer
	case Supplier, *Supplier:
		return RoleSupplier
	}
	return ""
}
