package routes

import (
	"github.com/gofiber/fiber/v2"

	"AgriLink/internal/handlers"
)

func SetupOrderRoutes(app *fiber.App) {
	orders := app.Group("/api/orders")
	orders.Post("/", handlers.PlaceOrder)
	orders.Get("/", handlers.GetOrders)
	orders.Get("/:id", handlers.GetOrderByID)
	orders.Put("/:id/status", handlers.UpdateOrderStatus)
	orders.Get("/:orderId/payments", handlers.GetOrderPayments)

	equipmentOrders := app.Group("/api/equipment-orders")
	equipmentOrders.Post("/", handlers.PlaceEquipmentOrder)
	equipmentOrders.Put("/:id/status", handlers.UpdateEquipmentOrderStatus)
}
