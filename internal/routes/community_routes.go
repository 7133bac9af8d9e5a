package routes

import (
	"github.com/gofiber/fiber/v2"

	"AgriLink/internal/handlers"
)

func SetupCommunityRoutes(app *fiber.App) {
	chats := app.Group("/api/chats")
	chats.Post("/", handlers.SendChatMessage)
	chats.Get("/", handlers.GetConversation)
	chats.Put("/:id/read", handlers.MarkChatMessageRead)

	forum := app.Group("/api/forum/posts")
	forum.Post("/", handlers.CreateForumPost)
	forum.Get("/", handlers.GetForumPosts)
	forum.Post("/:id/replies", handlers.CreateForumReply)

	notifications := app.Group("/api/notifications")
	notifications.Get("/", handlers.GetNotifications)
	notifications.Put("/:id/read", handlers.MarkNotificationRead)
}
