package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/safir2310/ayamgepreksambalijo26/internal/ledger"
	"github.com/safir2310/ayamgepreksambalijo26/internal/middleware"
	"github.com/safir2310/ayamgepreksambalijo26/internal/models"
)

// StatusUpdateRequest defines the body for a status transition
type StatusUpdateRequest struct {
	Status models.TransactionStatus `json:"status" validate:"required,oneof=waiting processing completed cancelled"`
}

var validStatuses = map[models.TransactionStatus]bool{
	models.StatusWaiting:    true,
	models.StatusProcessing: true,
	models.StatusCompleted:  true,
	models.StatusCancelled:  true,
}

// GetTransactions handles listing transactions, filtered by user and
// type. Non-admin callers only ever see their own rows.
func GetTransactions(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, role, err := middleware.GetUserFromContext(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
		}

		q := db.
			Preload("Items.Product").
			Preload("RedeemItems.PointProduct").
			Preload("User").
			Order("created_at desc")

		if role == models.RoleAdmin {
			if filter := c.QueryInt("user_id"); filter > 0 {
				q = q.Where("user_id = ?", filter)
			}
		} else {
			q = q.Where("user_id = ?", userID)
		}
		if trxType := c.Query("type"); trxType != "" {
			q = q.Where("type = ?", trxType)
		}

		var transactions []models.Transaction
		if err := q.Find(&transactions).Error; err != nil {
			log.Printf("Error fetching transactions: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to fetch transactions"})
		}

		return c.JSON(fiber.Map{"transactions": transactions})
	}
}

// UpdateTransactionStatus moves a transaction through the status graph.
// Completing a purchase credits the owner's points exactly once; the
// terminal states make a second completion impossible.
func UpdateTransactionStatus(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := c.ParamsInt("id")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid transaction ID"})
		}

		var req StatusUpdateRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
		}
		if !validStatuses[req.Status] {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid status"})
		}

		trx, err := ledger.UpdateStatus(db, uint(id), req.Status)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Transaction not found"})
			}
			if errors.Is(err, ledger.ErrInvalidTransition) {
				return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": "Invalid status transition"})
			}
			log.Printf("Error updating transaction status: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update transaction"})
		}

		return c.JSON(fiber.Map{"message": "Transaction status updated successfully", "transaction": trx})
	}
}
