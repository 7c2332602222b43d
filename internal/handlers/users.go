package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/safir2310/ayamgepreksambalijo26/internal/models"
)

// UserUpdateRequest defines the admin update surface. Pointers keep
// omitted fields untouched.
type UserUpdateRequest struct {
	Email   *string `json:"email"`
	Phone   *string `json:"phone"`
	Address *string `json:"address"`
	Points  *int    `json:"points"`
}

// GetUsers handles fetching all users
func GetUsers(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var users []models.User
		if err := db.Order("created_at desc").Find(&users).Error; err != nil {
			log.Printf("Error fetching users: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch users"})
		}
		return c.JSON(fiber.Map{"users": users})
	}
}

// UpdateUser handles an admin update of a user's contact details,
// address or point balance
func UpdateUser(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
		}

		var req UserUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		var user models.User
		if err := db.First(&user, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch user"})
		}

		if req.Email != nil {
			user.Email = *req.Email
		}
		if req.Phone != nil {
			user.Phone = *req.Phone
		}
		if req.Address != nil {
			user.Address = *req.Address
		}
		if req.Points != nil {
			if *req.Points < 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Points must not be negative"})
			}
			user.Points = *req.Points
		}

		if err := db.Save(&user).Error; err != nil {
			if field := uniqueViolationField(err); field != "" {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": fmt.Sprintf("%s already exists", field)})
			}
			log.Printf("Error updating user: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update user"})
		}

		return c.JSON(fiber.Map{"message": "User updated successfully", "user": user})
	}
}

// DeleteUser handles deleting a user
func DeleteUser(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid user ID"})
		}

		result := db.Delete(&models.User{}, id)
		if result.Error != nil {
			log.Printf("Error deleting user: %v", result.Error)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete user"})
		}
		if result.RowsAffected == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}

		return c.JSON(fiber.Map{"message": "User deleted successfully"})
	}
}
