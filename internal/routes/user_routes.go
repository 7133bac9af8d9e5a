package routes

import (
	"github.com/gofiber/fiber/v2"

	"AgriLink/internal/handlers"
)

func SetupUserRoutes(app *fiber.App) {
	users := app.Group("/api/users")
	users.Post("/", handlers.CreateUser)
	users.Get("/", handlers.GetUsers)
	users.Get("/:id", handlers.GetUserByID)

	// Role profiles, one per user per role
	app.Post("/api/farmers", handlers.CreateFarmerProfile)
	app.Post("/api/buyers", handlers.CreateBuyerProfile)
	app.Post("/api/suppliers", handlers.CreateSupplierProfile)
}
