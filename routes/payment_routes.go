package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jkamau254/dukapay/handlers"
	"github.com/jkamau254/dukapay/middleware"
)

func PaymentRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	// the provider calls this unauthenticated
	api.Post("/payments/webhook", handlers.HandlePaymentWebhook)

	protected := api.Group("/payments", middleware.Protected())
	protected.Post("/initiate", handlers.InitiatePayment)
	protected.Get("/", handlers.ListPayments)
}
