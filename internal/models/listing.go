package models

import (
	"time"
)

type SaleType string

const (
	SaleRetail    SaleType = "retail"
	SaleWholesale SaleType = "wholesale"
	SaleBoth      SaleType = "both"
)

type QuantityUnit string

const (
	UnitKg      QuantityUnit = "kg"
	UnitQuintal QuantityUnit = "quintal"
	UnitTon     QuantityUnit = "ton"
)

type ListingStatus string

const (
	ListingActive ListingStatus = "active"
	ListingSold   ListingStatus = "sold"
)

type EquipmentListingType string

const (
	EquipmentForSale EquipmentListingType = "sale"
	EquipmentForRent EquipmentListingType = "rent"
)

func IsValidSaleType(s SaleType) bool {
	return s == SaleRetail || s == SaleWholesale || s == SaleBoth
}

// CropListing is a crop batch offered by one farmer. Retail and wholesale tiers
// carry independent price/quantity pairs; sale_type decides which tiers must be set.
type CropListing struct {
	ID                uint          `gorm:"primarykey" json:"id"`
	FarmerID          uint          `gorm:"not null;index" json:"farmer_id"`
	CropName          string        `gorm:"not null;index" json:"crop_name"`
	Variety           string        `json:"variety,omitempty"`
	QuantityRetail    *float64      `gorm:"column:quantity_available_retail" json:"quantity_available_retail,omitempty"`
	QuantityWholesale *float64      `gorm:"column:quantity_available_wholesale" json:"quantity_available_wholesale,omitempty"`
	UnitRetail        QuantityUnit  `gorm:"type:varchar(10)" json:"unit_retail,omitempty"`
	UnitWholesale     QuantityUnit  `gorm:"type:varchar(10)" json:"unit_wholesale,omitempty"`
	PriceRetail       *float64      `json:"price_per_unit_retail,omitempty"`
	PriceWholesale    *float64      `json:"price_per_unit_wholesale,omitempty"`
	SaleType          SaleType      `gorm:"type:varchar(10);not null" json:"sale_type"`
	OrganicCertified  bool          `gorm:"default:false" json:"organic_certified"`
	ListingStatus     ListingStatus `gorm:"type:varchar(10);not null;default:'active'" json:"listing_status"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`

	Farmer Farmer `gorm:"foreignKey:FarmerID" json:"farmer,omitempty"`
}

func (CropListing) TableName() string {
	return "crop_listings"
}

// SellsRetail reports whether the retail tier is open for ordering.
func (l *CropListing) SellsRetail() bool {
	return l.SaleType == SaleRetail || l.SaleType == SaleBoth
}

func (l *CropListing) SellsWholesale() bool {
	return l.SaleType == SaleWholesale || l.SaleType == SaleBoth
}

// Exhausted reports whether every tier the listing sells has run out.
func (l *CropListing) Exhausted() bool {
	if l.SellsRetail() && l.QuantityRetail != nil && *l.QuantityRetail > 0 {
		return false
	}
	if l.SellsWholesale() && l.QuantityWholesale != nil && *l.QuantityWholesale > 0 {
		return false
	}
	return true
}

// EquipmentListing is machinery offered for sale or rent by one supplier.
// The location point is mandatory and feeds the proximity index.
type EquipmentListing struct {
	ID           uint                 `gorm:"primarykey" json:"id"`
	SupplierID   uint                 `gorm:"not null;index" json:"supplier_id"`
	Name         string               `gorm:"not null" json:"name"`
	Type         string               `json:"type,omitempty"`
	Description  string               `gorm:"type:text" json:"description,omitempty"`
	Price        float64              `gorm:"not null" json:"price"`
	ListingType  EquipmentListingType `gorm:"type:varchar(10);not null" json:"listing_type"`
	Availability bool                 `gorm:"default:true" json:"availability"`
	Longitude    float64              `gorm:"not null" json:"longitude"`
	Latitude     float64              `gorm:"not null" json:"latitude"`
	Geohash      string               `gorm:"type:varchar(12);index" json:"-"`
	CreatedAt    time.Time            `json:"created_at"`
	UpdatedAt    time.Time            `json:"updated_at"`

	Supplier Supplier `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

func (EquipmentListing) TableName() string {
	return "equipment_listings"
}
