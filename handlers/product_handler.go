package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jkamau254/dukapay/database"
	"github.com/jkamau254/dukapay/models"
	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	// Decimal string, e.g. "500.00". Parsed with shopspring/decimal so
	// prices never round through a float.
	Price string `json:"price" validate:"required"`
}

func CreateProduct(c *fiber.Ctx) error {
	userID, err := userIDFromToken(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() || price.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must be a positive decimal"})
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
		Price:       price,
		OwnerID:     uuid.MustParse(userID),
	}
	if err := database.DB.Create(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create product"})
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

func UpdateProduct(c *fiber.Ctx) error {
	userID, err := userIDFromToken(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	productID := c.Params("productId")
	var product models.Product
	if err := database.DB.First(&product, "id = ? AND owner_id = ?", productID, userID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	var req ProductRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cannot parse JSON"})
	}
	if err := validate.Struct(req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	price, err := decimal.NewFromString(req.Price)
	if err != nil || price.IsNegative() || price.IsZero() {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must be a positive decimal"})
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Price = price
	if err := database.DB.Save(&product).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update product"})
	}

	return c.JSON(product)
}

func DeleteProduct(c *fiber.Ctx) error {
	userID, err := userIDFromToken(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	productID := c.Params("productId")
	result := database.DB.Where("id = ? AND owner_id = ?", productID, userID).Delete(&models.Product{})
	if result.Error != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete product"})
	}
	if result.RowsAffected == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func ListProducts(c *fiber.Ctx) error {
	var products []models.Product
	if err := database.DB.Order("created_at DESC").Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list products"})
	}
	return c.JSON(products)
}

func ListMyProducts(c *fiber.Ctx) error {
	userID, err := userIDFromToken(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var products []models.Product
	if err := database.DB.Where("owner_id = ?", userID).Order("created_at DESC").Find(&products).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list products"})
	}
	return c.JSON(products)
}
