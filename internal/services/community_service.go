package services

import (
	"fmt"

	"gorm.io/gorm"

	"AgriLink/internal/apperror"
	"AgriLink/internal/models"
	"AgriLink/internal/validation"
)

// CommunityService covers chat messages and forum posts. Both are flat
// collections with foreign keys and no state machines.
type CommunityService struct {
	db            *gorm.DB
	notifications *NotificationService
}

func NewCommunityService(db *gorm.DB, notifications *NotificationService) *CommunityService {
	return &CommunityService{db: db, notifications: notifications}
}

type SendMessageRequest struct {
	SenderID    uint               `json:"sender_id" validate:"required"`
	ReceiverID  uint               `json:"receiver_id" validate:"required"`
	Message     string             `json:"message" validate:"required"`
	MessageType models.MessageType `json:"message_type,omitempty" validate:"omitempty,oneof=text image file"`
}

func (s *CommunityService) SendMessage(req SendMessageRequest) (*models.ChatMessage, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if req.SenderID == req.ReceiverID {
		return nil, apperror.NewValidationError("sender and receiver must differ")
	}

	var sender models.User
	if err := s.db.First(&sender, req.SenderID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("sender %d not found", req.SenderID))
		}
		return nil, apperror.NewInternalError("failed to load sender", err)
	}
	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", req.ReceiverID).Count(&count).Error; err != nil {
		return nil, apperror.NewInternalError("failed to check receiver", err)
	}
	if count == 0 {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("receiver %d not found", req.ReceiverID))
	}

	msg := models.ChatMessage{
		SenderID:    req.SenderID,
		ReceiverID:  req.ReceiverID,
		Message:     req.Message,
		MessageType: req.MessageType,
	}
	if msg.MessageType == "" {
		msg.MessageType = models.MessageText
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, apperror.NewInternalError("failed to store message", err)
	}

	s.notifications.NotifyChatMessage(req.ReceiverID, req.SenderID, sender.Name)
	return &msg, nil
}

// Conversation returns every message between the two users, oldest first.
func (s *CommunityService) Conversation(userA, userB uint) ([]models.ChatMessage, error) {
	var messages []models.ChatMessage
	err := s.db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userA, userB, userB, userA,
	).Order("created_at").Find(&messages).Error
	if err != nil {
		return nil, apperror.NewInternalError("failed to load conversation", err)
	}
	return messages, nil
}

func (s *CommunityService) MarkMessageRead(id uint) (*models.ChatMessage, error) {
	var msg models.ChatMessage
	if err := s.db.First(&msg, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("message %d not found", id))
		}
		return nil, apperror.NewInternalError("failed to load message", err)
	}
	if !msg.IsRead {
		if err := s.db.Model(&msg).UpdateColumn("is_read", true).Error; err != nil {
			return nil, apperror.NewInternalError("failed to mark message read", err)
		}
		msg.IsRead = true
	}
	return &msg, nil
}

type CreateForumPostRequest struct {
	UserID   uint                 `json:"user_id" validate:"required"`
	Title    string               `json:"title" validate:"required"`
	Content  string               `json:"content" validate:"required"`
	Category models.ForumCategory `json:"category" validate:"required,oneof=crop equipment market general"`
}

func (s *CommunityService) CreateForumPost(req CreateForumPostRequest) (*models.ForumPost, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireUser(req.UserID); err != nil {
		return nil, err
	}

	post := models.ForumPost{
		UserID:   req.UserID,
		Title:    req.Title,
		Content:  req.Content,
		Category: req.Category,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, apperror.NewInternalError("failed to create forum post", err)
	}
	return &post, nil
}

func (s *CommunityService) ForumPosts(category models.ForumCategory) ([]models.ForumPost, error) {
	// The category filter arrives as a raw query string.
	if category != "" && !models.IsValidForumCategory(category) {
		return nil, apperror.NewValidationError(fmt.Sprintf("unknown forum category %q", category))
	}

	q := s.db.Preload("User").Preload("Replies")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	var posts []models.ForumPost
	if err := q.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, apperror.NewInternalError("failed to list forum posts", err)
	}
	return posts, nil
}

type CreateForumReplyRequest struct {
	PostID  uint   `json:"post_id" validate:"required"`
	UserID  uint   `json:"user_id" validate:"required"`
	Content string `json:"content" validate:"required"`
}

func (s *CommunityService) CreateForumReply(req CreateForumReplyRequest) (*models.ForumReply, error) {
	if err := validation.Validate(req); err != nil {
		return nil, err
	}
	if err := s.requireUser(req.UserID); err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.Model(&models.ForumPost{}).Where("id = ?", req.PostID).Count(&count).Error; err != nil {
		return nil, apperror.NewInternalError("failed to check forum post", err)
	}
	if count == 0 {
		return nil, apperror.NewNotFoundError(fmt.Sprintf("forum post %d not found", req.PostID))
	}

	reply := models.ForumReply{
		PostID:  req.PostID,
		UserID:  req.UserID,
		Content: req.Content,
	}
	if err := s.db.Create(&reply).Error; err != nil {
		return nil, apperror.NewInternalError("failed to create forum reply", err)
	}
	return &reply, nil
}

func (s *CommunityService) requireUser(userID uint) error {
	var count int64
	if err := s.db.Model(&models.User{}).Where("id = ?", userID).Count(&count).Error; err != nil {
		return apperror.NewInternalError("failed to check user", err)
	}
	if count == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("user %d not found", userID))
	}
	return nil
}
