package handlers

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"AgriLink/internal/apperror"
	"AgriLink/internal/services"
)

var (
	identityService     *services.IdentityService
	listingService      *services.ListingService
	orderService        *services.OrderService
	paymentService      *services.PaymentService
	notificationService *services.NotificationService
	communityService    *services.CommunityService
	mandiService        *services.MandiService
	classifierService   *services.ClassifierService
	assistantService    *services.AssistantService
)

// InitServices wires every handler to its service and warms the equipment
// proximity index from persisted listings. Called once from main after the
// database connects and migrates.
func InitServices(db *gorm.DB) error {
	notificationService = services.NewNotificationService(db)
	identityService = services.NewIdentityService(db)
	listingService = services.NewListingService(db)
	orderService = services.NewOrderService(db, listingService, notificationService)
	paymentService = services.NewPaymentService(db, notificationService)
	communityService = services.NewCommunityService(db, notificationService)
	mandiService = services.NewMandiService(db)
	classifierService = services.NewClassifierService()
	assistantService = services.NewAssistantService()

	return listingService.LoadGeoIndex()
}

// fail serializes a domain error with its mapped HTTP status. Internal causes
// are logged server-side and never leak to the client.
func fail(c *fiber.Ctx, err error) error {
	appErr := apperror.FromError(err)
	if appErr.Internal != nil {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), appErr)
	}
	return c.Status(appErr.HTTPStatus).JSON(fiber.Map{"error": appErr.Message})
}
