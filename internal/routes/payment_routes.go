package routes

import (
	"github.com/gofiber/fiber/v2"

	"AgriLink/internal/handlers"
)

func SetupPaymentRoutes(app *fiber.App) {
	payments := app.Group("/api/payments")
	payments.Post("/", handlers.RecordPayment)

	// Consistency report, registered before :id
	payments.Get("/unsettled", handlers.GetUnsettledDelivered)

	payments.Post("/:id/settle", handlers.SettlePayment)
	payments.Post("/:id/fail", handlers.FailPayment)
	payments.Post("/:id/refund", handlers.RefundPayment)
	payments.Post("/:id/release-escrow", handlers.ReleaseEscrow)
}
