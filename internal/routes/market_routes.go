package routes

import (
	"github.com/gofiber/fiber/v2"

	"AgriLink/internal/handlers"
)

func SetupMarketRoutes(app *fiber.App) {
	prices := app.Group("/api/market-prices")
	prices.Post("/", handlers.CreateMarketPrice)
	prices.Get("/", handlers.GetMarketPrices)
	prices.Get("/live", handlers.GetLiveMarketPrices)
	prices.Post("/import", handlers.ImportMarketPrices)
}
