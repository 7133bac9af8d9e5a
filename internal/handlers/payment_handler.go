package handlers

import (
	"github.com/gofiber/fiber/v2"

	"AgriLink/internal/models"
	"AgriLink/internal/services"
)

// RecordPayment creates a pending payment after verifying the amount against
// the order total.
func RecordPayment(c *fiber.Ctx) error {
	req := new(services.RecordPaymentRequest)
	if err := c.BodyParser(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	payment, err := paymentService.RecordPayment(*req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(payment)
}

func GetOrderPayments(c *fiber.Ctx) error {
	orderID, err := c.ParamsInt("orderId")
	if err != nil || orderID <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order id",
		})
	}

	payments, err := paymentService.PaymentsForOrder(uint(orderID))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(payments)
}

// SettlePayment captures a pending payment; the order payment state moves to
// escrow or paid depending on the method, in the same transaction.
func SettlePayment(c *fiber.Ctx) error {
	return paymentTransition(c, paymentService.Settle)
}

// FailPayment marks a pending payment failed without touching the order.
func FailPayment(c *fiber.Ctx) error {
	return paymentTransition(c, paymentService.Fail)
}

// RefundPayment reverses a completed payment and moves the order to refunded.
func RefundPayment(c *fiber.Ctx) error {
	return paymentTransition(c, paymentService.Refund)
}

// ReleaseEscrow pays out escrowed funds after delivery confirmation.
func ReleaseEscrow(c *fiber.Ctx) error {
	return paymentTransition(c, paymentService.ReleaseEscrow)
}

func paymentTransition(c *fiber.Ctx, op func(uint) (*models.Payment, error)) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid payment id",
		})
	}

	payment, err := op(uint(id))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(payment)
}

// GetUnsettledDelivered reports delivered orders whose payment is still
// pending. A consistency check, not a constraint.
func GetUnsettledDelivered(c *fiber.Ctx) error {
	orders, err := paymentService.UnsettledDelivered()
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(orders)
}
