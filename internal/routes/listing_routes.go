package routes

import (
	"github.com/gofiber/fiber/v2"

	"AgriLink/internal/handlers"
)

func SetupListingRoutes(app *fiber.App) {
	crops := app.Group("/api/crop-listings")
	crops.Post("/", handlers.CreateCropListing)
	crops.Get("/", handlers.GetCropListings)
	crops.Get("/:id", handlers.GetCropListingByID)

	equipment := app.Group("/api/equipment-listings")
	equipment.Post("/", handlers.CreateEquipmentListing)

	// Proximity search must be registered before the :id route it would shadow
	equipment.Get("/nearby", handlers.GetNearbyEquipment)
	equipment.Get("/:id", handlers.GetEquipmentListingByID)
}
