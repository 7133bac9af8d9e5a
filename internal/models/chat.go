package models

import (
	"time"
)

type MessageType string

const (
	MessageText  MessageType = "text"
	MessageImage MessageType = "image"
	MessageFile  MessageType = "file"
)

// ChatMessage is one stored direct message. Delivery transport is out of scope;
// clients poll the conversation endpoint.
type ChatMessage struct {
	ID          uint        `gorm:"primarykey" json:"id"`
	SenderID    uint        `gorm:"not null;index" json:"sender_id"`
	ReceiverID  uint        `gorm:"not null;index" json:"receiver_id"`
	Message     string      `gorm:"type:text;not null" json:"message"`
	MessageType MessageType `gorm:"type:varchar(10);not null;default:'text'" json:"message_type"`
	IsRead      bool        `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`

	Sender   User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"receiver,omitempty"`
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
