package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ClassifyDisease forwards the uploaded crop image to the external
// disease-inference endpoint and returns {class, confidence}. Upstream
// failures surface as labeled errors, never fabricated predictions.
func ClassifyDisease(c *fiber.Ctx) error {
	file, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "An image file is required",
		})
	}

	result, err := classifierService.Classify(file)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

type askRequest struct {
	Query string `json:"query"`
}

// AskAssistant answers a farming question through the chat-completion
// backend. When the backend fails the response carries fallback=true.
func AskAssistant(c *fiber.Ctx) error {
	req := new(askRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}
	if strings.TrimSpace(req.Query) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "query is required",
		})
	}

	answer := assistantService.Ask(c.Context(), req.Query)
	return c.JSON(answer)
}

// GetOrganicGuide returns location-specific organic farming principles, with
// a static fallback set when the model backend is unavailable.
func GetOrganicGuide(c *fiber.Ctx) error {
	location := c.Query("location")
	if strings.TrimSpace(location) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "location query parameter is required",
		})
	}

	guide := assistantService.OrganicGuideFor(c.Context(), location)
	return c.JSON(guide)
}
