package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"AgriLink/internal/models"
	"AgriLink/internal/services"
)

// SendChatMessage stores a direct message between two users. Delivery is by
// polling; there is no real-time transport.
func SendChatMessage(c *fiber.Ctx) error {
	req := new(services.SendMessageRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	msg, err := communityService.SendMessage(*req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(msg)
}

// GetConversation returns every message between user_a and user_b, oldest
// first.
func GetConversation(c *fiber.Ctx) error {
	userA, errA := strconv.Atoi(c.Query("user_a"))
	userB, errB := strconv.Atoi(c.Query("user_b"))
	if errA != nil || errB != nil || userA <= 0 || userB <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_a and user_b query parameters are required",
		})
	}

	messages, err := communityService.Conversation(uint(userA), uint(userB))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(messages)
}

func MarkChatMessageRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid message id",
		})
	}

	msg, err := communityService.MarkMessageRead(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(msg)
}

func CreateForumPost(c *fiber.Ctx) error {
	req := new(services.CreateForumPostRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	post, err := communityService.CreateForumPost(*req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetForumPosts lists posts newest first, optionally filtered by category.
func GetForumPosts(c *fiber.Ctx) error {
	posts, err := communityService.ForumPosts(models.ForumCategory(c.Query("category")))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(posts)
}

func CreateForumReply(c *fiber.Ctx) error {
	postID, err := c.ParamsInt("id")
	if err != nil || postID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	req := new(services.CreateForumReplyRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	req.PostID = uint(postID)

	reply, err := communityService.CreateForumReply(*req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}
