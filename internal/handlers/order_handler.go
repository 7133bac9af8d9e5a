package handlers

import (
	"github.com/gofiber/fiber/v2"

	"AgriLink/internal/models"
	"AgriLink/internal/services"
)

// PlaceOrder creates a crop order and reserves the listing quantity in the
// same transaction.
func PlaceOrder(c *fiber.Ctx) error {
	req := new(services.PlaceOrderRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	order, err := orderService.PlaceOrder(*req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

func GetOrders(c *fiber.Ctx) error {
	orders, err := orderService.Orders()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}

func GetOrderByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order id",
		})
	}

	order, err := orderService.OrderByID(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// UpdateOrderStatus advances an order along the status graph. The target
// status comes from the ?status query parameter.
func UpdateOrderStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order id",
		})
	}
	target := models.OrderStatus(c.Query("status"))
	if target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status query parameter is required",
		})
	}

	order, err := orderService.AdvanceOrder(uint(id), target)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}

// PlaceEquipmentOrder creates a buy or rent order against an equipment
// listing. Rentals need start and end dates.
func PlaceEquipmentOrder(c *fiber.Ctx) error {
	req := new(services.PlaceEquipmentOrderRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	order, err := orderService.PlaceEquipmentOrder(*req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(order)
}

func UpdateEquipmentOrderStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order id",
		})
	}
	target := models.EquipmentOrderStatus(c.Query("status"))
	if target == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "status query parameter is required",
		})
	}

	order, err := orderService.AdvanceEquipmentOrder(uint(id), target)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(order)
}
