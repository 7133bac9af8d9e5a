package handlers

import (
	"github.com/gofiber/fiber/v2"

	"AgriLink/internal/services"
)

// CreateUser registers a user with a unique phone and optional unique email.
func CreateUser(c *fiber.Ctx) error {
	req := new(services.CreateUserRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	user, err := identityService.CreateUser(*req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// GetUsers lists every registered user.
func GetUsers(c *fiber.Ctx) error {
	users, err := identityService.Users()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(users)
}

func GetUserByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid user id",
		})
	}

	user, err := identityService.UserByID(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(user)
}

// CreateFarmerProfile attaches a farmer profile to a user with role "farmer".
func CreateFarmerProfile(c *fiber.Ctx) error {
	req := new(services.CreateFarmerRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	farmer, err := identityService.CreateFarmer(*req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(farmer)
}

func CreateBuyerProfile(c *fiber.Ctx) error {
	req := new(services.CreateBuyerRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	buyer, err := identityService.CreateBuyer(*req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(buyer)
}

func CreateSupplierProfile(c *fiber.Ctx) error {
	req := new(services.CreateSupplierRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	supplier, err := identityService.CreateSupplier(*req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(supplier)
}
