package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"AgriLink/internal/apperror"
	"AgriLink/internal/models"
	"AgriLink/internal/validation"
)

type OrderService struct {
	db            *gorm.DB
	listings      *ListingService
	notifications *NotificationService
}

func NewOrderService(db *gorm.DB, listings *ListingService, notifications *NotificationService) *OrderService {
	return &OrderService{db: db, listings: listings, notifications: notifications}
}

type PlaceOrderRequest struct {
	BuyerID           uint             `json:"buyer_id" validate:"required"`
	FarmerIDs         []uint           `json:"farmer_ids" validate:"required,min=1"`
	CropListingID     uint             `json:"crop_id" validate:"required"`
	Quantity          float64          `json:"quantity" validate:"gt=0"`
	PriceTotal        float64          `json:"price_total" validate:"gt=0"`
	OrderType         models.OrderType `json:"order_type" validate:"required,oneof=retail bulk"`
	LogisticsRequired bool             `json:"logistics_required,omitempty"`
	DeliveryAddress   string           `json:"delivery_address,omitempty"`
}

// PlaceOrder creates an order and reserves the listing quantity in the same
// transaction, so a concurrent order for the same listing cannot oversell.
func (s *OrderService) PlaceOrder(req PlaceOrderRequest) (*models.Order, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	var buyer models.Buyer
	if err := s.db.First(&buyer, req.BuyerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("buyer %d not found", req.BuyerID))
		}
		return nil, apperror.NewInternalError("failed to load buyer", err)
	}

	listing, err := s.listings.CropListingByID(req.CropListingID)
	if err != nil {
		return nil, err
	}
	if req.OrderType == models.OrderRetail && !listing.SellsRetail() {
		return nil, apperror.NewValidationError(fmt.Sprintf("listing %d does not sell retail", listing.ID))
	}
	if req.OrderType == models.OrderBulk && !listing.SellsWholesale() {
		return nil, apperror.NewValidationError(fmt.Sprintf("listing %d does not sell wholesale", listing.ID))
	}

	var farmers []models.Farmer
	if err := s.db.Where("id IN ?", req.FarmerIDs).Find(&farmers).Error; err != nil {
		return nil, apperror.NewInternalError("failed to load farmers", err)
	}
	if len(farmers) != len(uniqueIDs(req.FarmerIDs)) {
		return nil, apperror.NewNotFoundError("one or more referenced farmers do not exist")
	}

	order := models.Order{
		BuyerID:           req.BuyerID,
		CropListingID:     req.CropListingID,
		Quantity:          req.Quantity,
		PriceTotal:        req.PriceTotal,
		OrderType:         req.OrderType,
		Status:            models.OrderPending,
		PaymentStatus:     models.OrderPaymentPending,
		LogisticsRequired: req.LogisticsRequired,
		DeliveryAddress:   req.DeliveryAddress,
		Farmers:           farmers,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.listings.ReserveQuantity(tx, listing.ID, req.OrderType, req.Quantity); err != nil {
			return err
		}
		if err := tx.Create(&order).Error; err != nil {
			return apperror.NewInternalError("failed to create order", err)
		}
		return s.listings.MarkSoldIfExhausted(tx, listing.ID)
	})
	if err != nil {
		return nil, err
	}

	s.notifications.NotifyOrderPlaced(listing.Farmer.UserID, order.ID, listing.CropName, order.Quantity)
	return &order, nil
}

func (s *OrderService) Orders() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Preload("Farmers").Order("id").Find(&orders).Error; err != nil {
		return nil, apperror.NewInternalError("failed to list orders", err)
	}
	return orders, nil
}

func (s *OrderService) OrderByID(id uint) (*models.Order, error) {
	var order models.Order
	if err := s.db.Preload("Buyer").Preload("CropListing").Preload("Farmers").First(&order, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("order %d not found", id))
		}
		return nil, apperror.NewInternalError("failed to load order", err)
	}
	return &order, nil
}

// AdvanceOrder moves an order along the status graph. Requesting the current
// status is an idempotent no-op; anything outside the graph fails without
// touching the record. Cancellation restocks the reserved quantity and
// refunds escrowed payments in the same transaction.
func (s *OrderService) AdvanceOrder(orderID uint, target models.OrderStatus) (*models.Order, error) {
	if !models.IsValidOrderStatus(target) {
		return nil, apperror.NewValidationError(fmt.Sprintf("unknown order status %q", target))
	}

	order, err := s.OrderByID(orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == target {
		return order, nil
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, apperror.NewInvalidTransitionError(
			fmt.Sprintf("order %d cannot move from %s to %s", orderID, order.Status, target))
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		// The write re-checks the status the transition was validated
		// against, so a concurrent advance loses cleanly instead of
		// overwriting a state it never saw.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status = ?", orderID, order.Status).
			UpdateColumn("status", target)
		if res.Error != nil {
			return apperror.NewInternalError("failed to update order status", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.NewInvalidTransitionError(
				fmt.Sprintf("order %d was advanced concurrently", orderID))
		}

		if target == models.OrderCancelled {
			if err := s.listings.RestockQuantity(tx, order.CropListingID, order.OrderType, order.Quantity); err != nil {
				return err
			}
			if order.PaymentStatus == models.OrderPaymentEscrow {
				if err := refundEscrowedPayments(tx, order.ID); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	order.Status = target
	if target == models.OrderCancelled && order.PaymentStatus == models.OrderPaymentEscrow {
		order.PaymentStatus = models.OrderPaymentRefunded
	}
	s.notifications.NotifyOrderStatus(order.Buyer.UserID, order.ID, target)
	return order, nil
}

// refundEscrowedPayments marks the order's captured escrow payments refunded
// and derives the order payment state from them, inside the caller's
// transaction.
func refundEscrowedPayments(tx *gorm.DB, orderID uint) error {
	res := tx.Model(&models.Payment{}).
		Where("order_id = ? AND method = ? AND status = ?", orderID, models.PaymentEscrow, models.PaymentCompleted).
		Updates(map[string]interface{}{"status": models.PaymentRefunded, "updated_at": time.Now()})
	if res.Error != nil {
		return apperror.NewInternalError("failed to refund escrowed payments", res.Error)
	}
	if err := tx.Model(&models.Order{}).Where("id = ?", orderID).
		UpdateColumn("payment_status", models.OrderPaymentRefunded).Error; err != nil {
		return apperror.NewInternalError("failed to update order payment status", err)
	}
	return nil
}

type PlaceEquipmentOrderRequest struct {
	BuyerID     uint                      `json:"buyer_id" validate:"required"`
	EquipmentID uint                      `json:"equipment_id" validate:"required"`
	OrderType   models.EquipmentOrderType `json:"order_type" validate:"required,oneof=rent buy"`
	StartDate   *time.Time                `json:"start_date,omitempty"`
	EndDate     *time.Time                `json:"end_date,omitempty"`
	PriceTotal  float64                   `json:"price_total" validate:"gt=0"`
}

func (s *OrderService) PlaceEquipmentOrder(req PlaceEquipmentOrderRequest) (*models.EquipmentOrder, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	var buyer models.Buyer
	if err := s.db.First(&buyer, req.BuyerID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("buyer %d not found", req.BuyerID))
		}
		return nil, apperror.NewInternalError("failed to load buyer", err)
	}

	equipment, err := s.listings.EquipmentListingByID(req.EquipmentID)
	if err != nil {
		return nil, err
	}
	if !equipment.Availability {
		return nil, apperror.NewConflictError(fmt.Sprintf("equipment %d is not available", equipment.ID))
	}
	if req.OrderType == models.EquipmentOrderRent {
		if req.StartDate == nil || req.EndDate == nil {
			return nil, apperror.NewValidationError("rental orders require start_date and end_date")
		}
		if !req.EndDate.After(*req.StartDate) {
			return nil, apperror.NewValidationError("end_date must be after start_date")
		}
	}

	order := models.EquipmentOrder{
		BuyerID:     req.BuyerID,
		EquipmentID: req.EquipmentID,
		SupplierID:  equipment.SupplierID,
		OrderType:   req.OrderType,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		PriceTotal:  req.PriceTotal,
		Status:      models.EquipmentOrderPending,
	}
	if err := s.db.Create(&order).Error; err != nil {
		return nil, apperror.NewInternalError("failed to create equipment order", err)
	}

	s.notifications.NotifyEquipmentOrderPlaced(equipment.Supplier.UserID, order.ID, equipment.Name)
	return &order, nil
}

func (s *OrderService) AdvanceEquipmentOrder(orderID uint, target models.EquipmentOrderStatus) (*models.EquipmentOrder, error) {
	if !models.IsValidEquipmentOrderStatus(target) {
		return nil, apperror.NewValidationError(fmt.Sprintf("unknown equipment order status %q", target))
	}

	var order models.EquipmentOrder
	if err := s.db.First(&order, orderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("equipment order %d not found", orderID))
		}
		return nil, apperror.NewInternalError("failed to load equipment order", err)
	}

	if order.Status == target {
		return &order, nil
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, apperror.NewInvalidTransitionError(
			fmt.Sprintf("equipment order %d cannot move from %s to %s", orderID, order.Status, target))
	}

	res := s.db.Model(&models.EquipmentOrder{}).
		Where("id = ? AND status = ?", orderID, order.Status).
		UpdateColumn("status", target)
	if res.Error != nil {
		return nil, apperror.NewInternalError("failed to update equipment order status", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, apperror.NewInvalidTransitionError(
			fmt.Sprintf("equipment order %d was advanced concurrently", orderID))
	}
	order.Status = target
	return &order, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
