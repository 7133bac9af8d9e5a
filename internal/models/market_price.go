package models

import (
	"time"
)

// MarketPrice is a snapshot of a mandi quote for one commodity. Rows come from
// manual entry or imports from the external mandi data source.
type MarketPrice struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	CropName      string    `gorm:"not null;index" json:"crop_name"`
	MandiLocation string    `gorm:"not null;index" json:"mandi_location"`
	PricePerUnit  float64   `gorm:"not null" json:"price_per_unit"`
	Unit          string    `gorm:"type:varchar(20);not null" json:"unit"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (MarketPrice) TableName() string {
	return "market_prices"
}
