package models

import (
	"time"
)

type NotificationType string

const (
	NotificationOrder   NotificationType = "order"
	NotificationChat    NotificationType = "chat"
	NotificationPrice   NotificationType = "price"
	NotificationSystem  NotificationType = "system"
	NotificationWeather NotificationType = "weather"
)

func IsValidNotificationType(n NotificationType) bool {
	switch n {
	case NotificationOrder, NotificationChat, NotificationPrice, NotificationSystem, NotificationWeather:
		return true
	}
	return false
}

type Notification struct {
	ID        uint             `gorm:"primarykey" json:"id"`
	UserID    uint             `gorm:"not null;index" json:"user_id"`
	Type      NotificationType `gorm:"type:varchar(20);not null" json:"type"`
	Title     string           `gorm:"type:varchar(255);not null" json:"title"`
	Message   string           `gorm:"type:text;not null" json:"message"`
	IsRead    bool             `gorm:"default:false;index" json:"is_read"`
	Data      string           `gorm:"type:text" json:"data,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	ReadAt    *time.Time       `json:"read_at,omitempty"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Notification) TableName() string {
	return "notifications"
}
