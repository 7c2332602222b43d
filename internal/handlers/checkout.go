package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/safir2310/ayamgepreksambalijo26/internal/config"
	"github.com/safir2310/ayamgepreksambalijo26/internal/ledger"
	"github.com/safir2310/ayamgepreksambalijo26/internal/middleware"
	"github.com/safir2310/ayamgepreksambalijo26/internal/notify"
)

// CheckoutRequest carries the delivery address and the cart snapshot
type CheckoutRequest struct {
	Address string                `json:"address" validate:"required"`
	Items   []ledger.CheckoutItem `json:"items" validate:"required"`
}

// RedeemRequest carries the requested point-product lines
type RedeemRequest struct {
	Address string              `json:"address" validate:"required"`
	Items   []ledger.RedeemItem `json:"items" validate:"required"`
}

// Checkout turns the submitted cart into a waiting purchase transaction
// and returns the WhatsApp confirmation payload.
func Checkout(db *gorm.DB, cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := middleware.GetUserFromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		var req CheckoutRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.Address == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Address is required"})
		}
		if len(req.Items) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Cart is empty"})
		}
		for _, item := range req.Items {
			if item.Quantity <= 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Quantity must be a positive integer"})
			}
			if item.Price < 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Price must not be negative"})
			}
		}

		trx, user, err := ledger.Checkout(db, userID, req.Address, req.Items)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			log.Printf("Checkout error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during checkout"})
		}

		message := notify.PurchaseMessage(cfg.ShopName, trx, user, req.Items)
		return c.JSON(fiber.Map{
			"message":          "Order created successfully",
			"transaction":      trx,
			"transaction_id":   fmt.Sprintf("%04d", trx.TransactionNum),
			"whatsapp_url":     notify.WhatsAppURL(cfg.ShopPhone, message),
			"whatsapp_message": message,
		})
	}
}

// RedeemPoints exchanges loyalty points for point products, debiting the
// balance atomically with the transaction creation.
func RedeemPoints(db *gorm.DB, cfg config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, _, err := middleware.GetUserFromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		var req RedeemRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if req.Address == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Address is required"})
		}
		if len(req.Items) == 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No items to redeem"})
		}
		required := 0
		for _, item := range req.Items {
			if item.Quantity <= 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Quantity must be a positive integer"})
			}
			if item.PointsRequired <= 0 {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Points required must be positive"})
			}
			required += item.PointsRequired * item.Quantity
		}

		trx, user, err := ledger.Redeem(db, userID, req.Address, req.Items)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
			}
			if errors.Is(err, ledger.ErrInsufficientPoints) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": fmt.Sprintf("Insufficient points, %d required", required)})
			}
			log.Printf("Redeem error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "An error occurred during redemption"})
		}

		message := notify.RedeemMessage(cfg.ShopName, trx, user, req.Items)
		return c.JSON(fiber.Map{
			"message":          "Points redeemed successfully",
			"transaction":      trx,
			"transaction_id":   fmt.Sprintf("%04d", trx.TransactionNum),
			"whatsapp_url":     notify.WhatsAppURL(cfg.ShopPhone, message),
			"whatsapp_message": message,
		})
	}
}
