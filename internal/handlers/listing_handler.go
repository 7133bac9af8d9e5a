package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"AgriLink/internal/models"
	"AgriLink/internal/services"
)

// CreateCropListing publishes a crop batch for an existing farmer. Price and
// quantity fields must match the declared sale_type.
func CreateCropListing(c *fiber.Ctx) error {
	req := new(services.CreateCropListingRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	listing, err := listingService.CreateCropListing(*req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// GetCropListings lists crop listings with the farmer profile populated
// inline. Optional filters: crop_name, sale_type, status, farmer_id, organic.
func GetCropListings(c *fiber.Ctx) error {
	filters := services.CropListingFilters{
		CropName: c.Query("crop_name"),
		SaleType: models.SaleType(c.Query("sale_type")),
		Status:   models.ListingStatus(c.Query("status")),
	}
	if farmerID, err := strconv.Atoi(c.Query("farmer_id", "0")); err == nil && farmerID > 0 {
		filters.FarmerID = uint(farmerID)
	}
	if organic := c.Query("organic"); organic != "" {
		v := organic == "true"
		filters.Organic = &v
	}

	listings, err := listingService.CropListings(filters)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listings)
}

func GetCropListingByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid listing id",
		})
	}

	listing, err := listingService.CropListingByID(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listing)
}

func GetEquipmentListingByID(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid listing id",
		})
	}

	listing, err := listingService.EquipmentListingByID(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(listing)
}

// CreateEquipmentListing publishes equipment for sale or rent at a lon/lat
// point and registers it in the proximity index.
func CreateEquipmentListing(c *fiber.Ctx) error {
	req := new(services.CreateEquipmentListingRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	listing, err := listingService.CreateEquipmentListing(*req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(listing)
}

// GetNearbyEquipment finds available equipment within radius meters of a
// point, closest first. Query params: lon, lat, radius.
func GetNearbyEquipment(c *fiber.Ctx) error {
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	radius, errRad := strconv.ParseFloat(c.Query("radius", "5000"), 64)
	if errLon != nil || errLat != nil || errRad != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "lon, lat and radius must be numbers",
		})
	}

	results, err := listingService.FindNearbyEquipment(lon, lat, radius)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(results)
}
