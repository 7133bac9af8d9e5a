package models

import (
	"time"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderDispatched OrderStatus = "dispatched"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type OrderPaymentStatus string

const (
	OrderPaymentPending  OrderPaymentStatus = "pending"
	OrderPaymentPaid     OrderPaymentStatus = "paid"
	OrderPaymentEscrow   OrderPaymentStatus = "escrow"
	OrderPaymentRefunded OrderPaymentStatus = "refunded"
)

type OrderType string

const (
	OrderRetail OrderType = "retail"
	OrderBulk   OrderType = "bulk"
)

// orderTransitions is the full reachability table for Order.Status.
// The chain moves strictly forward; cancellation is reachable from every
// non-terminal state.
var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending:    {OrderConfirmed, OrderCancelled},
	OrderConfirmed:  {OrderDispatched, OrderCancelled},
	OrderDispatched: {OrderDelivered, OrderCancelled},
	OrderDelivered:  {},
	OrderCancelled:  {},
}

func (s OrderStatus) CanTransitionTo(target OrderStatus) bool {
	for _, next := range orderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func IsValidOrderStatus(s OrderStatus) bool {
	_, ok := orderTransitions[s]
	return ok
}

// orderPaymentTransitions governs the denormalized payment state on the order.
// It only ever advances inside the same transaction as a Payment write.
var orderPaymentTransitions = map[OrderPaymentStatus][]OrderPaymentStatus{
	OrderPaymentPending:  {OrderPaymentEscrow, OrderPaymentPaid, OrderPaymentRefunded},
	OrderPaymentEscrow:   {OrderPaymentPaid, OrderPaymentRefunded},
	OrderPaymentPaid:     {OrderPaymentRefunded},
	OrderPaymentRefunded: {},
}

func (s OrderPaymentStatus) CanTransitionTo(target OrderPaymentStatus) bool {
	for _, next := range orderPaymentTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

// Order references one buyer, one crop listing and the farmers fulfilling it.
// Status and PaymentStatus are correlated but independently advancing machines.
type Order struct {
	ID                uint               `gorm:"primarykey" json:"id"`
	BuyerID           uint               `gorm:"not null;index" json:"buyer_id"`
	CropListingID     uint               `gorm:"not null;index" json:"crop_id"`
	Quantity          float64            `gorm:"not null" json:"quantity"`
	PriceTotal        float64            `gorm:"not null" json:"price_total"`
	OrderType         OrderType          `gorm:"type:varchar(10);not null" json:"order_type"`
	Status            OrderStatus        `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	PaymentStatus     OrderPaymentStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"payment_status"`
	LogisticsRequired bool               `gorm:"default:false" json:"logistics_required"`
	DeliveryAddress   string             `json:"delivery_address,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`

	Buyer       Buyer       `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	CropListing CropListing `gorm:"foreignKey:CropListingID" json:"crop_listing,omitempty"`
	Farmers     []Farmer    `gorm:"many2many:order_farmers" json:"farmers,omitempty"`
}

func (Order) TableName() string {
	return "orders"
}

type EquipmentOrderType string

const (
	EquipmentOrderRent EquipmentOrderType = "rent"
	EquipmentOrderBuy  EquipmentOrderType = "buy"
)

type EquipmentOrderStatus string

const (
	EquipmentOrderPending   EquipmentOrderStatus = "pending"
	EquipmentOrderConfirmed EquipmentOrderStatus = "confirmed"
	EquipmentOrderCompleted EquipmentOrderStatus = "completed"
	EquipmentOrderCancelled EquipmentOrderStatus = "cancelled"
)

var equipmentOrderTransitions = map[EquipmentOrderStatus][]EquipmentOrderStatus{
	EquipmentOrderPending:   {EquipmentOrderConfirmed, EquipmentOrderCancelled},
	EquipmentOrderConfirmed: {EquipmentOrderCompleted, EquipmentOrderCancelled},
	EquipmentOrderCompleted: {},
	EquipmentOrderCancelled: {},
}

func (s EquipmentOrderStatus) CanTransitionTo(target EquipmentOrderStatus) bool {
	for _, next := range equipmentOrderTransitions[s] {
		if next == target {
			return true
		}
	}
	return false
}

func IsValidEquipmentOrderStatus(s EquipmentOrderStatus) bool {
	_, ok := equipmentOrderTransitions[s]
	return ok
}

type EquipmentOrder struct {
	ID          uint                 `gorm:"primarykey" json:"id"`
	BuyerID     uint                 `gorm:"not null;index" json:"buyer_id"`
	EquipmentID uint                 `gorm:"not null;index" json:"equipment_id"`
	SupplierID  uint                 `gorm:"not null;index" json:"supplier_id"`
	OrderType   EquipmentOrderType   `gorm:"type:varchar(10);not null" json:"order_type"`
	StartDate   *time.Time           `json:"start_date,omitempty"`
	EndDate     *time.Time           `json:"end_date,omitempty"`
	PriceTotal  float64              `gorm:"not null" json:"price_total"`
	Status      EquipmentOrderStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	CreatedAt   time.Time            `json:"created_at"`
	UpdatedAt   time.Time            `json:"updated_at"`

	Buyer     Buyer            `gorm:"foreignKey:BuyerID" json:"buyer,omitempty"`
	Equipment EquipmentListing `gorm:"foreignKey:EquipmentID" json:"equipment,omitempty"`
	Supplier  Supplier         `gorm:"foreignKey:SupplierID" json:"supplier,omitempty"`
}

func (EquipmentOrder) TableName() string {
	return "equipment_orders"
}
