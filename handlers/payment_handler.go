package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/jkamau254/dukapay/database"
	"github.com/jkamau254/dukapay/models"
	"github.com/jkamau254/dukapay/payments"
)

var (
	paymentStore     payments.Store
	paymentGateway   payments.PaymentGateway
	paymentProcessor *payments.Processor
)

// InitPayments wires the payment core into the handlers. Called once from
// main with the real store and gateway; tests swap in an in-memory store
// and a stub gateway.
func InitPayments(store payments.Store, gateway payments.PaymentGateway) {
	paymentStore = store
	paymentGateway = gateway
	paymentProcessor = payments.NewProcessor(store)
}

type InitiatePaymentRequest struct {
	ProductID   string `json:"product_id" validate:"required,uuid"`
	PhoneNumber string `json:"phone_number" validate:"required"`
}

// InitiatePayment fires the STK push and, only once the provider accepts
// the request for asynchronous processing, creates the pending payment
// record the callback will later be matched against.
func InitiatePayment(c *fiber.Ctx) error {
	var req InitiatePaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var product models.Product
	if err := database.DB.First(&product, "id = ?", req.ProductID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	phone, err := payments.SanitizePhoneNumber(req.PhoneNumber)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	reference := fmt.Sprintf("PROD-%s", product.ID)
	_, err = paymentGateway.RequestPayment(phone, product.Price, reference)
	if err != nil {
		if errors.Is(err, payments.ErrGatewayUnavailable) {
			log.Printf("🔥 Gateway unavailable for %s: %v", reference, err)
			return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Payment gateway unavailable, please try again"})
		}
		if errors.Is(err, payments.ErrProviderRejected) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	payment, err := paymentStore.Create(product.ID, product.Price, phone)
	if err != nil {
		log.Printf("🔥 CRITICAL: STK push sent but failed to create payment record for %s: %v", reference, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record payment"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"payment_id": payment.ID,
		"message":    "Payment initiated, check your phone to complete",
	})
}

// HandlePaymentWebhook receives the provider's stkCallback. The provider
// retries on anything but a success response, so every processed payload
// is acknowledged with 200 — including unmatched confirmations and
// replays. Only a structurally malformed body gets a 400.
func HandlePaymentWebhook(c *fiber.Ctx) error {
	ev, err := payments.ParseConfirmation(c.Body())
	if err != nil {
		log.Printf("Error processing callback: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"status": "error"})
	}

	_, err = paymentProcessor.Process(ev)
	switch {
	case err == nil:
	case errors.Is(err, payments.ErrNoMatch):
		log.Printf("Unmatched confirmation discarded (result code %d)", ev.ResultCode)
	case errors.Is(err, payments.ErrStaleTransition):
		log.Printf("Duplicate confirmation ignored (result code %d)", ev.ResultCode)
	default:
		// Still acknowledged: a retry of an already-processed event must
		// never amplify a transient failure into a retry storm.
		log.Printf("🔥 Error applying confirmation: %v", err)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "success"})
}

// ListPayments returns the payment history for products the caller owns.
func ListPayments(c *fiber.Ctx) error {
	userID, err := userIDFromToken(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var history []models.Payment
	err = database.DB.
		Joins("JOIN products ON products.id = payments.product_id").
		Where("products.owner_id = ?", userID).
		Order("payments.created_at DESC").
		Find(&history).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list payments"})
	}

	return c.JSON(history)
}
