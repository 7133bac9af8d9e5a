package models

import (
	"time"
)

type ForumCategory string

const (
	ForumCrop      ForumCategory = "crop"
	ForumEquipment ForumCategory = "equipment"
	ForumMarket    ForumCategory = "market"
	ForumGeneral   ForumCategory = "general"
)

func IsValidForumCategory(c ForumCategory) bool {
	switch c {
	case ForumCrop, ForumEquipment, ForumMarket, ForumGeneral:
		return true
	}
	return false
}

type ForumPost struct {
	ID        uint          `gorm:"primarykey" json:"id"`
	UserID    uint          `gorm:"not null;index" json:"user_id"`
	Title     string        `gorm:"not null" json:"title"`
	Content   string        `gorm:"type:text;not null" json:"content"`
	Category  ForumCategory `gorm:"type:varchar(20);not null;index" json:"category"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`

	User    User         `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Replies []ForumReply `gorm:"foreignKey:PostID" json:"replies,omitempty"`
}

func (ForumPost) TableName() string {
	return "forum_posts"
}

type ForumReply struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (ForumReply) TableName() string {
	return "forum_replies"
}
