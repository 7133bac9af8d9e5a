package handlers

import (
	"github.com/gofiber/fiber/v2"

	"AgriLink/internal/services"
)

// CreateMarketPrice records a manually entered mandi quote.
func CreateMarketPrice(c *fiber.Ctx) error {
	req := new(services.CreateMarketPriceRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	price, err := mandiService.CreateMarketPrice(*req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(price)
}

// GetMarketPrices lists stored quotes, newest first. Optional filters:
// crop_name, mandi_location.
func GetMarketPrices(c *fiber.Ctx) error {
	prices, err := mandiService.MarketPrices(c.Query("crop_name"), c.Query("mandi_location"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(prices)
}

// GetLiveMarketPrices proxies the external mandi dataset. Query params:
// state (required), district, commodity, arrival_date (DD/MM/YYYY).
func GetLiveMarketPrices(c *fiber.Ctx) error {
	filters := services.MandiFilters{
		State:       c.Query("state"),
		District:    c.Query("district"),
		Commodity:   c.Query("commodity"),
		ArrivalDate: c.Query("arrival_date"),
	}

	resp, err := mandiService.FetchPrices(filters)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(resp)
}

// ImportMarketPrices fetches live quotes and snapshots their modal prices
// into the local collection.
func ImportMarketPrices(c *fiber.Ctx) error {
	filters := services.MandiFilters{
		State:       c.Query("state"),
		District:    c.Query("district"),
		Commodity:   c.Query("commodity"),
		ArrivalDate: c.Query("arrival_date"),
	}

	resp, err := mandiService.FetchPrices(filters)
	if err != nil {
		return fail(c, err)
	}
	imported, err := mandiService.ImportSnapshot(resp.Records)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"fetched":  len(resp.Records),
		"imported": imported,
	})
}
