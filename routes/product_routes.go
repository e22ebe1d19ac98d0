package routes

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jkamau254/dukapay/handlers"
	"github.com/jkamau254/dukapay/middleware"
)

func ProductRoutes(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Get("/products", handlers.ListProducts)

	mine := api.Group("/my/products", middleware.Protected())
	mine.Get("/", handlers.ListMyProducts)
	mine.Post("/", handlers.CreateProduct)
	mine.Put("/:productId", handlers.UpdateProduct)
	mine.Delete("/:productId", handlers.DeleteProduct)
}
