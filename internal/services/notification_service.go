package services

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"gorm.io/gorm"

	"AgriLink/internal/apperror"
	"AgriLink/internal/models"
)

type NotificationService struct {
	db *gorm.DB
}

func NewNotificationService(db *gorm.DB) *NotificationService {
	return &NotificationService{db: db}
}

// CreateNotification stores an in-app notification. Failures are logged but
// never fail the domain operation that triggered them.
func (s *NotificationService) CreateNotification(userID uint, notifType models.NotificationType, title, message string, data map[string]interface{}) error {
	if !models.IsValidNotificationType(notifType) {
		return fmt.Errorf("unknown notification type %q", notifType)
	}

	var dataJSON string
	if data != nil {
		jsonBytes, err := json.Marshal(data)
		if err != nil {
			return fmt.Errorf("failed to marshal notification data: %w", err)
		}
		dataJSON = string(jsonBytes)
	}

	notification := models.Notification{
		UserID:  userID,
		Type:    notifType,
		Title:   title,
		Message: message,
		Data:    dataJSON,
		IsRead:  false,
	}

	if err := s.db.Create(&notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

func (s *NotificationService) notify(userID uint, notifType models.NotificationType, title, message string, data map[string]interface{}) {
	if err := s.CreateNotification(userID, notifType, title, message, data); err != nil {
		log.Printf("notification dropped for user %d: %v", userID, err)
	}
}

// NotifyOrderPlaced tells the farmer a buyer ordered from their listing.
func (s *NotificationService) NotifyOrderPlaced(farmerUserID, orderID uint, cropName string, quantity float64) {
	s.notify(farmerUserID, models.NotificationOrder,
		"New Order",
		fmt.Sprintf("A buyer placed an order for %g units of %s", quantity, cropName),
		map[string]interface{}{"order_id": orderID, "crop_name": cropName, "quantity": quantity})
}

func (s *NotificationService) NotifyOrderStatus(buyerUserID, orderID uint, status models.OrderStatus) {
	s.notify(buyerUserID, models.NotificationOrder,
		"Order Update",
		fmt.Sprintf("Order #%d is now %s", orderID, status),
		map[string]interface{}{"order_id": orderID, "status": string(status)})
}

func (s *NotificationService) NotifyEquipmentOrderPlaced(supplierUserID, orderID uint, equipmentName string) {
	s.notify(supplierUserID, models.NotificationOrder,
		"New Equipment Order",
		fmt.Sprintf("A buyer placed an order for %s", equipmentName),
		map[string]interface{}{"equipment_order_id": orderID, "equipment_name": equipmentName})
}

func (s *NotificationService) NotifyPaymentRecorded(sellerUserID, orderID uint, amount float64, method models.PaymentMethod) {
	s.notify(sellerUserID, models.NotificationOrder,
		"Payment Initiated",
		fmt.Sprintf("A %s payment of ₹%.2f was initiated for order #%d", method, amount, orderID),
		map[string]interface{}{"order_id": orderID, "amount": amount, "method": string(method)})
}

func (s *NotificationService) NotifyPaymentSettled(sellerUserID, orderID uint, amount float64) {
	s.notify(sellerUserID, models.NotificationOrder,
		"Payment Settled",
		fmt.Sprintf("₹%.2f has been settled for order #%d", amount, orderID),
		map[string]interface{}{"order_id": orderID, "amount": amount})
}

func (s *NotificationService) NotifyEscrowReleased(sellerUserID, orderID uint, amount float64) {
	s.notify(sellerUserID, models.NotificationOrder,
		"Escrow Released",
		fmt.Sprintf("₹%.2f held in escrow for order #%d has been released to you", amount, orderID),
		map[string]interface{}{"order_id": orderID, "amount": amount})
}

func (s *NotificationService) NotifyPaymentRefunded(buyerUserID, orderID uint, amount float64) {
	s.notify(buyerUserID, models.NotificationOrder,
		"Payment Refunded",
		fmt.Sprintf("₹%.2f for order #%d has been refunded", amount, orderID),
		map[string]interface{}{"order_id": orderID, "amount": amount})
}

func (s *NotificationService) NotifyChatMessage(receiverID, senderID uint, senderName string) {
	s.notify(receiverID, models.NotificationChat,
		"New Message",
		fmt.Sprintf("%s sent you a message", senderName),
		map[string]interface{}{"sender_id": senderID})
}

func (s *NotificationService) ForUser(userID uint, unreadOnly bool) ([]models.Notification, error) {
	q := s.db.Where("user_id = ?", userID)
	if unreadOnly {
		q = q.Where("is_read = ?", false)
	}
	var notifications []models.Notification
	if err := q.Order("created_at DESC").Find(&notifications).Error; err != nil {
		return nil, apperror.NewInternalError("failed to list notifications", err)
	}
	return notifications, nil
}

func (s *NotificationService) MarkRead(id uint) (*models.Notification, error) {
	var notification models.Notification
	if err := s.db.First(&notification, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("notification %d not found", id))
		}
		return nil, apperror.NewInternalError("failed to load notification", err)
	}
	if notification.IsRead {
		return &notification, nil
	}

	now := time.Now()
	notification.IsRead = true
	notification.ReadAt = &now
	if err := s.db.Save(&notification).Error; err != nil {
		return nil, apperror.NewInternalError("failed to mark notification read", err)
	}
	return &notification, nil
}
