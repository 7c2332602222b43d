package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/safir2310/ayamgepreksambalijo26/internal/models"
)

// ProductRequest defines the structure for creating a product
type ProductRequest struct {
	Name        string                 `json:"name" validate:"required"`
	Description string                 `json:"description"`
	Image       string                 `json:"image"`
	Price       int                    `json:"price" validate:"gte=0"`
	Discount    int                    `json:"discount"`
	Category    models.ProductCategory `json:"category" validate:"required,oneof=food drink"`
	Status      models.ProductStatus   `json:"status"`
	Stock       int                    `json:"stock"`
}

// ProductUpdateRequest uses pointers so omitted fields keep their value
type ProductUpdateRequest struct {
	Name        *string                 `json:"name"`
	Description *string                 `json:"description"`
	Image       *string                 `json:"image"`
	Price       *int                    `json:"price"`
	Discount    *int                    `json:"discount"`
	Category    *models.ProductCategory `json:"category"`
	Status      *models.ProductStatus   `json:"status"`
	Stock       *int                    `json:"stock"`
}

// GetProducts handles fetching the catalog, optionally filtered by
// category and status
func GetProducts(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := db.Order("created_at desc")
		if category := c.Query("category"); category != "" {
			q = q.Where("category = ?", category)
		}
		if status := c.Query("status"); status != "" {
			q = q.Where("status = ?", status)
		}

		var products []models.Product
		if err := q.Find(&products).Error; err != nil {
			log.Printf("Error fetching products: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch products"})
		}
		return c.JSON(fiber.Map{"products": products})
	}
}

// GetProduct handles fetching a single product by ID
func GetProduct(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch product"})
		}
		return c.JSON(fiber.Map{"product": product})
	}
}

// CreateProduct handles creating a new catalog product
func CreateProduct(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ProductRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Product name is required"})
		}
		if req.Category != models.CategoryFood && req.Category != models.CategoryDrink {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Category must be food or drink"})
		}
		if req.Price < 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must not be negative"})
		}
		if req.Status == "" {
			req.Status = models.StatusRegular
		}

		product := models.Product{
			Name:        req.Name,
			Description: req.Description,
			Image:       req.Image,
			Price:       req.Price,
			Discount:    req.Discount,
			Category:    req.Category,
			Status:      req.Status,
			Stock:       req.Stock,
		}
		if err := db.Create(&product).Error; err != nil {
			log.Printf("Error creating product: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create product"})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"message": "Product created successfully", "product": product})
	}
}

// UpdateProduct handles a partial update of a product
func UpdateProduct(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
		}

		var req ProductUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch product"})
		}

		if req.Name != nil {
			product.Name = *req.Name
		}
		if req.Description != nil {
			product.Description = *req.Description
		}
		if req.Image != nil {
			product.Image = *req.Image
		}
		if req.Price != nil {
			if *req.Price < 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must not be negative"})
			}
			product.Price = *req.Price
		}
		if req.Discount != nil {
			product.Discount = *req.Discount
		}
		if req.Category != nil {
			product.Category = *req.Category
		}
		if req.Status != nil {
			product.Status = *req.Status
		}
		if req.Stock != nil {
			product.Stock = *req.Stock
		}

		if err := db.Save(&product).Error; err != nil {
			log.Printf("Error updating product: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update product"})
		}

		return c.JSON(fiber.Map{"message": "Product updated successfully", "product": product})
	}
}

// DeleteProduct handles deleting a product
func DeleteProduct(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid product ID"})
		}

		result := db.Delete(&models.Product{}, id)
		if result.Error != nil {
			log.Printf("Error deleting product: %v", result.Error)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete product"})
		}
		if result.RowsAffected == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
		}

		return c.JSON(fiber.Map{"message": "Product deleted successfully"})
	}
}
