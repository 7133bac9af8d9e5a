package models

import (
	"time"
)

type PaymentMethod string

const (
	PaymentUPI    PaymentMethod = "upi"
	PaymentWallet PaymentMethod = "wallet"
	PaymentBank   PaymentMethod = "bank"
	PaymentEscrow PaymentMethod = "escrow"
)

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

var paymentTransitions = map[PaymentStatus][]PaymentStatus{
	PaymentPending:   {PaymentCompleted, PaymentFailed},
	PaymentCompleted: {PaymentRefunded},
	PaymentFailed:    {},
	PaymentRefunded:  {},
}

func (s PaymentStatus) CanTransitionTo(target PaymentStatus) bool {
	for _, next := range paymentTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Payment is the source of truth for settlement state. Order.PaymentStatus is
// derived from it and only written in the same transaction as the Payment row.
type Payment struct {
	ID             uint          `gorm:"primarykey" json:"id"`
	OrderID        uint          `gorm:"not null;index" json:"order_id"`
	BuyerID        uint          `gorm:"not null;index" json:"buyer_id"`
	SellerID       uint          `gorm:"not null;index" json:"seller_id"`
	Amount         float64       `gorm:"not null" json:"amount"`
	Method         PaymentMethod `gorm:"type:varchar(10);not null" json:"method"`
	Status         PaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	TransactionRef string        `gorm:"uniqueIndex;not null" json:"transaction_ref"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	Order  Order `gorm:"foreignKey:OrderID" json:"order,omitempty"`
	Buyer  Buyer `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	Seller User  `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
}

func (Payment) TableName() string {
	return "payments"
}
