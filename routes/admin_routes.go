package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jkamau254/dukapay/handlers"
	"github.com/jkamau254/dukapay/middleware"
)

func AdminRoutes(app *fiber.App) {
	admin := app.Group("/api/v1/admin", middleware.Protected(), middleware.AdminRequired())

	admin.Get("/payments", handlers.ListAllPayments)
	admin.Get("/users", handlers.ListUsers)
}
