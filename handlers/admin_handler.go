package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jkamau254/dukapay/database"
	"github.com/jkamau254/dukapay/models"
)

// ListAllPayments is the admin reconciliation view: every payment attempt
// across all sellers, newest first.
func ListAllPayments(c *fiber.Ctx) error {
	var history []models.Payment
	if err := database.DB.Order("created_at DESC").Find(&history).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list payments"})
	}
	return c.JSON(history)
}

func ListUsers(c *fiber.Ctx) error {
	var users []models.User
	if err := database.DB.Order("created_at DESC").Find(&users).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list users"})
	}
	return c.JSON(users)
}
