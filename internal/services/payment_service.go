package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"AgriLink/internal/apperror"
	"AgriLink/internal/models"
	"AgriLink/internal/validation"
)

// PaymentService owns both Payment.Status and the denormalized
// Order.PaymentStatus. Every write that touches one touches the other inside
// the same transaction, so the two can never diverge.
type PaymentService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewPaymentService(db *gorm.DB, notifications *NotificationService) *PaymentService {
	return &PaymentService{db: db, notifications: notifications}
}

type RecordPaymentRequest struct {
	OrderID uint                 `json:"order_id" validate:"required"`
	BuyerID uint                 `json:"buyer_id" validate:"required"`
	Amount  float64              `json:"amount" validate:"gt=0"`
	Method  models.PaymentMethod `json:"method" validate:"required,oneof=upi wallet bank escrow"`
}

// RecordPayment verifies the amount against the order total and creates a
// pending Payment. An amount mismatch rejects the request without touching
// the order.
func (s *PaymentService) RecordPayment(req RecordPaymentRequest) (*models.Payment, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}

	var order models.Order
	if err := s.db.Preload("CropListing.Farmer").First(&order, req.OrderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("order %d not found", req.OrderID))
		}
		return nil, apperror.NewInternalError("failed to load order", err)
	}

	if req.BuyerID != order.BuyerID {
		return nil, apperror.NewValidationError(
			fmt.Sprintf("buyer %d does not own order %d", req.BuyerID, order.ID))
	}
	if req.Amount != order.PriceTotal {
		return nil, apperror.NewAmountMismatchError(
			fmt.Sprintf("payment amount %g does not match order total %g", req.Amount, order.PriceTotal))
	}
	if order.Status == models.OrderCancelled {
		return nil, apperror.NewInvalidTransitionError(
			fmt.Sprintf("order %d is cancelled and cannot accept payments", order.ID))
	}

	payment := models.Payment{
		OrderID:        order.ID,
		BuyerID:        order.BuyerID,
		SellerID:       order.CropListing.Farmer.UserID,
		Amount:         req.Amount,
		Method:         req.Method,
		Status:         models.PaymentPending,
		TransactionRef: uuid.NewString(),
	}
	if err := s.db.Create(&payment).Error; err != nil {
		return nil, apperror.NewInternalError("failed to record payment", err)
	}

	s.notifications.NotifyPaymentRecorded(payment.SellerID, order.ID, payment.Amount, payment.Method)
	return &payment, nil
}

func (s *PaymentService) PaymentByID(id uint) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.First(&payment, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("payment %d not found", id))
		}
		return nil, apperror.NewInternalError("failed to load payment", err)
	}
	return &payment, nil
}

func (s *PaymentService) PaymentsForOrder(orderID uint) ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Where("order_id = ?", orderID).Order("id").Find(&payments).Error; err != nil {
		return nil, apperror.NewInternalError("failed to list payments", err)
	}
	return payments, nil
}

// Settle captures a pending payment. Escrow-method payments move the order to
// escrow; every other method moves it straight to paid. Both rows change in
// one transaction.
func (s *PaymentService) Settle(paymentID uint) (*models.Payment, error) {
	payment, err := s.PaymentByID(paymentID)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransitionTo(models.PaymentCompleted) {
		return nil, apperror.NewInvalidTransitionError(
			fmt.Sprintf("payment %d cannot settle from status %s", paymentID, payment.Status))
	}

	orderTarget := models.OrderPaymentPaid
	if payment.Method == models.PaymentEscrow {
		orderTarget = models.OrderPaymentEscrow
	}

	err = s.jointUpdate(payment, models.PaymentCompleted, orderTarget)
	if err != nil {
		return nil, err
	}

	s.notifications.NotifyPaymentSettled(payment.SellerID, payment.OrderID, payment.Amount)
	return payment, nil
}

// ReleaseEscrow settles escrowed funds to the seller once delivery is
// confirmed: the order moves escrow -> paid while the payment stays
// completed.
func (s *PaymentService) ReleaseEscrow(paymentID uint) (*models.Payment, error) {
	payment, err := s.PaymentByID(paymentID)
	if err != nil {
		return nil, err
	}
	if payment.Method != models.PaymentEscrow {
		return nil, apperror.NewValidationError(fmt.Sprintf("payment %d is not an escrow payment", paymentID))
	}
	if payment.Status != models.PaymentCompleted {
		return nil, apperror.NewInvalidTransitionError(
			fmt.Sprintf("payment %d must be settled before escrow release", paymentID))
	}

	var order models.Order
	if err := s.db.First(&order, payment.OrderID).Error; err != nil {
		return nil, apperror.NewInternalError("failed to load order", err)
	}
	if !order.PaymentStatus.CanTransitionTo(models.OrderPaymentPaid) {
		return nil, apperror.NewInvalidTransitionError(
			fmt.Sprintf("order %d payment status %s cannot move to paid", order.ID, order.PaymentStatus))
	}

	if err := s.db.Model(&models.Order{}).Where("id = ?", order.ID).
		UpdateColumn("payment_status", models.OrderPaymentPaid).Error; err != nil {
		return nil, apperror.NewInternalError("failed to release escrow", err)
	}

	s.notifications.NotifyEscrowReleased(payment.SellerID, payment.OrderID, payment.Amount)
	return payment, nil
}

// Fail marks a pending payment failed. The order keeps whatever payment
// state it had; failed attempts capture nothing.
func (s *PaymentService) Fail(paymentID uint) (*models.Payment, error) {
	payment, err := s.PaymentByID(paymentID)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransitionTo(models.PaymentFailed) {
		return nil, apperror.NewInvalidTransitionError(
			fmt.Sprintf("payment %d cannot fail from status %s", paymentID, payment.Status))
	}

	if err := s.db.Model(&models.Payment{}).Where("id = ?", paymentID).
		UpdateColumn("status", models.PaymentFailed).Error; err != nil {
		return nil, apperror.NewInternalError("failed to update payment", err)
	}
	payment.Status = models.PaymentFailed
	return payment, nil
}

// Refund reverses a completed payment and moves the order to refunded in the
// same transaction.
func (s *PaymentService) Refund(paymentID uint) (*models.Payment, error) {
	payment, err := s.PaymentByID(paymentID)
	if err != nil {
		return nil, err
	}
	if !payment.Status.CanTransitionTo(models.PaymentRefunded) {
		return nil, apperror.NewInvalidTransitionError(
			fmt.Sprintf("payment %d cannot refund from status %s", paymentID, payment.Status))
	}

	// Payment.BuyerID is the buyer profile; notifications address users.
	var buyer models.Buyer
	if err := s.db.First(&buyer, payment.BuyerID).Error; err != nil {
		return nil, apperror.NewInternalError("failed to load buyer", err)
	}

	if err := s.jointUpdate(payment, models.PaymentRefunded, models.OrderPaymentRefunded); err != nil {
		return nil, err
	}

	s.notifications.NotifyPaymentRefunded(buyer.UserID, payment.OrderID, payment.Amount)
	return payment, nil
}

// jointUpdate writes the payment status and the derived order payment status
// atomically. This is the single place where Order.PaymentStatus changes in
// response to a payment.
func (s *PaymentService) jointUpdate(payment *models.Payment, paymentTarget models.PaymentStatus, orderTarget models.OrderPaymentStatus) error {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Payment{}).Where("id = ?", payment.ID).
			UpdateColumn("status", paymentTarget).Error; err != nil {
			return apperror.NewInternalError("failed to update payment status", err)
		}

		var order models.Order
		if err := tx.First(&order, payment.OrderID).Error; err != nil {
			return apperror.NewInternalError("failed to load order", err)
		}
		if order.PaymentStatus != orderTarget {
			if !order.PaymentStatus.CanTransitionTo(orderTarget) {
				return apperror.NewInvalidTransitionError(
					fmt.Sprintf("order %d payment status %s cannot move to %s", order.ID, order.PaymentStatus, orderTarget))
			}
			if err := tx.Model(&models.Order{}).Where("id = ?", order.ID).
				UpdateColumn("payment_status", orderTarget).Error; err != nil {
				return apperror.NewInternalError("failed to update order payment status", err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}
	payment.Status = paymentTarget
	return nil
}

// UnsettledDelivered reports delivered orders whose payment is still pending.
// Settlement happens outside the system, so this is a consistency check
// rather than a constraint.
func (s *PaymentService) UnsettledDelivered() ([]models.Order, error) {
	var orders []models.Order
	if err := s.db.Where("status = ? AND payment_status = ?", models.OrderDelivered, models.OrderPaymentPending).
		Order("id").Find(&orders).Error; err != nil {
		return nil, apperror.NewInternalError("failed to report unsettled orders", err)
	}
	return orders, nil
}
