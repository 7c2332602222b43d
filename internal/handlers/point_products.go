package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/safir2310/ayamgepreksambalijo26/internal/models"
)

// PointProductRequest defines the structure for creating a point product
type PointProductRequest struct {
	Name           string `json:"name" validate:"required"`
	Description    string `json:"description"`
	Image          string `json:"image"`
	PointsRequired int    `json:"points_required" validate:"required,gt=0"`
	Stock          int    `json:"stock"`
}

// PointProductUpdateRequest uses pointers so omitted fields keep their value
type PointProductUpdateRequest struct {
	Name           *string `json:"name"`
	Description    *string `json:"description"`
	Image          *string `json:"image"`
	PointsRequired *int    `json:"points_required"`
	Stock          *int    `json:"stock"`
}

// GetPointProducts handles fetching the redeemable catalog
func GetPointProducts(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var pointProducts []models.PointProduct
		if err := db.Order("created_at desc").Find(&pointProducts).Error; err != nil {
			log.Printf("Error fetching point products: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch point products"})
		}
		return c.JSON(fiber.Map{"point_products": pointProducts})
	}
}

// CreatePointProduct handles creating a new point product
func CreatePointProduct(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req PointProductRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Point product name is required"})
		}
		if req.PointsRequired <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Points required must be positive"})
		}

		pointProduct := models.PointProduct{
			Name:           req.Name,
			Description:    req.Description,
			Image:          req.Image,
			PointsRequired: req.PointsRequired,
			Stock:          req.Stock,
		}
		if err := db.Create(&pointProduct).Error; err != nil {
			log.Printf("Error creating point product: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create point product"})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Point product created successfully", "point_product": pointProduct})
	}
}

// UpdatePointProduct handles a partial update of a point product
func UpdatePointProduct(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid point product ID"})
		}

		var req PointProductUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		var pointProduct models.PointProduct
		if err := db.First(&pointProduct, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Point product not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch point product"})
		}

		if req.Name != nil {
			pointProduct.Name = *req.Name
		}
		if req.Description != nil {
			pointProduct.Description = *req.Description
		}
		if req.Image != nil {
			pointProduct.Image = *req.Image
		}
		if req.PointsRequired != nil {
			if *req.PointsRequired <= 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Points required must be positive"})
			}
			pointProduct.PointsRequired = *req.PointsRequired
		}
		if req.Stock != nil {
			pointProduct.Stock = *req.Stock
		}

		if err := db.Save(&pointProduct).Error; err != nil {
			log.Printf("Error updating point product: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update point product"})
		}

		return c.JSON(fiber.Map{"message": "Point product updated successfully", "point_product": pointProduct})
	}
}

// DeletePointProduct handles deleting a point product
func DeletePointProduct(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid point product ID"})
		}

		result := db.Delete(&models.PointProduct{}, id)
		if result.Error != nil {
			log.Printf("Error deleting point product: %v", result.Error)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete point product"})
		}
		if result.RowsAffected == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Point product not found"})
		}

		return c.JSON(fiber.Map{"message": "Point product deleted successfully"})
	}
}
