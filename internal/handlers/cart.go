package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/safir2310/ayamgepreksambalijo26/internal/middleware"
	"github.com/safir2310/ayamgepreksambalijo26/internal/models"
)

// CartItemRequest defines the structure for adding an item to the cart
type CartItemRequest struct {
	ProductID uint `json:"product_id" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,gt=0"`
}

// GetCart handles fetching the caller's cart with items and product data
func GetCart(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := middleware.GetUserFromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		var cart models.Cart
		if err := db.Preload("Items.Product").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No cart until the first add.
				return c.JSON(fiber.Map{"cart": nil})
			}
			log.Printf("Error fetching cart: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch cart"})
		}

		return c.JSON(fiber.Map{"cart": cart})
	}
}

// AddCartItem handles adding a product to the caller's cart. A line for
// the same product accumulates quantity instead of creating a duplicate.
func AddCartItem(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := middleware.GetUserFromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		var req CartItemRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.ProductID == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Product ID is required"})
		}
		if req.Quantity <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Quantity must be a positive integer"})
		}

		var product models.Product
		if err := db.First(&product, req.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Product not found"})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch product"})
		}

		var item models.CartItem
		created := false
		err = db.Transaction(func(tx *gorm.DB) error {
			// Lazily create the cart on first add.
			var cart models.Cart
			if err := tx.Where("user_id = ?", userID).First(&cart).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				cart = models.Cart{UserID: userID}
				if err := tx.Create(&cart).Error; err != nil {
					return err
				}
			}

			if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item).Error; err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				item = models.CartItem{
					CartID:    cart.ID,
					ProductID: req.ProductID,
					Quantity:  req.Quantity,
				}
				created = true
				return tx.Create(&item).Error
			}

			item.Quantity += req.Quantity
			return tx.Save(&item).Error
		})
		if err != nil {
			log.Printf("Error adding to cart: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to add to cart"})
		}

		item.Product = product
		if created {
			return c.Status(fiber.StatusCreated).JSON(fiber.Map{"item": item})
		}
		return c.JSON(fiber.Map{"item": item})
	}
}

// RemoveCartItem handles deleting a line item from the caller's cart
func RemoveCartItem(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := middleware.GetUserFromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		itemID := c.QueryInt("item_id")
		if itemID <= 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Item ID is required"})
		}

		var cart models.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cart item not found"})
		}

		result := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}, itemID)
		if result.Error != nil {
			log.Printf("Error removing cart item: %v", result.Error)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to remove cart item"})
		}
		if result.RowsAffected == 0 {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Cart item not found"})
		}

		return c.JSON(fiber.Map{"message": "Item removed from cart"})
	}
}
