package routes

import (
	"github.com/gofiber/fiber/v2"

	"AgriLink/internal/handlers"
)

func SetupAdvisoryRoutes(app *fiber.App) {
	advisory := app.Group("/api/advisory")
	advisory.Post("/classify", handlers.ClassifyDisease)
	advisory.Post("/chat", handlers.AskAssistant)
	advisory.Get("/organic-guide", handlers.GetOrganicGuide)
}
