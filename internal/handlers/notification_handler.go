package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
)

// GetNotifications lists a user's notifications, newest first. Pass
// unread_only=true to filter to unread.
func GetNotifications(c *fiber.Ctx) error {
	userID, err := strconv.Atoi(c.Query("user_id"))
	if err != nil || userID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "user_id query parameter is required",
		})
	}

	notifications, err := notificationService.ForUser(uint(userID), c.Query("unread_only") == "true")
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(notifications)
}

func MarkNotificationRead(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid notification id",
		})
	}

	notification, err := notificationService.MarkRead(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(notification)
}
