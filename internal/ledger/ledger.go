// Package ledger holds the order and loyalty-point bookkeeping: receipt
// number allocation, checkout and redemption flows, and the transaction
// status machine. Every multi-row flow runs inside a single database
// transaction.
package ledger

import (
	"errors"
	"math/rand"

	"gorm.io/gorm"

	"github.com/safir2310/ayamgepreksambalijo26/internal/models"
)

var (
	ErrInsufficientPoints = errors.New("insufficient points")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrNumExhausted       = errors.New("no free receipt number after max attempts")
)

const (
	// Human-facing receipt and member numbers are 4 digits.
	numMin = 1000
	numMax = 9999

	maxAllocAttempts = 32

	// One loyalty point per 1000 rupiah spent.
	rupiahPerPoint = 1000
)

// PointsForTotal returns the points earned for a purchase total.
func PointsForTotal(total int) int {
	return total / rupiahPerPoint
}

// allocateNum draws random numbers in [min, max] until one is unused in
// the given column, giving up after the attempt budget.
func allocateNum(tx *gorm.DB, model interface{}, column string, min, max, attempts int) (int, error) {
	for i := 0; i < attempts; i++ {
		n := rand.Intn(max-min+1) + min
		var count int64
		if err := tx.Model(model).Where(column+" = ?", n).Count(&count).Error; err != nil {
			return 0, err
		}
		if count == 0 {
			return n, nil
		}
	}
	return 0, ErrNumExhausted
}

// AllocateTransactionNum picks an unused 4-digit receipt number.
func AllocateTransactionNum(tx *gorm.DB) (int, error) {
	return allocateNum(tx, &models.Transaction{}, "transaction_num", numMin, numMax, maxAllocAttempts)
}

// AllocateUserNum picks an unused 4-digit member number at registration.
func AllocateUserNum(tx *gorm.DB) (int, error) {
	return allocateNum(tx, &models.User{}, "user_num", numMin, numMax, maxAllocAttempts)
}

// transitions is the allowed status graph. Completed and cancelled are
// terminal, which is what makes the completion credit once-only.
var transitions = map[models.TransactionStatus][]models.TransactionStatus{
	models.StatusWaiting:    {models.StatusProcessing, models.StatusCancelled},
	models.StatusProcessing: {models.StatusCompleted, models.StatusCancelled},
	models.StatusCompleted:  {},
	models.StatusCancelled:  {},
}

// CanTransition reports whether a transaction may move from one status
// to another.
func CanTransition(from, to models.TransactionStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// CheckoutItem is a cart line as submitted at checkout. Price is the
// client-side snapshot that gets frozen into the transaction item.
type CheckoutItem struct {
	ProductID uint   `json:"product_id"`
	Name      string `json:"name"`
	Price     int    `json:"price"`
	Quantity  int    `json:"quantity"`
}

// RedeemItem is one requested point-product line.
type RedeemItem struct {
	PointProductID uint   `json:"point_product_id"`
	Name           string `json:"name"`
	PointsRequired int    `json:"points_required"`
	Quantity       int    `json:"quantity"`
}

// Checkout turns the submitted cart lines into a waiting purchase
// transaction, snapshots prices into its items and clears the user's
// cart, all in one database transaction. No points are credited here;
// accrual happens when the transaction completes.
func Checkout(db *gorm.DB, userID uint, address string, items []CheckoutItem) (*models.Transaction, *models.User, error) {
	var trx models.Transaction
	var user models.User

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		num, err := AllocateTransactionNum(tx)
		if err != nil {
			return err
		}

		total := 0
		for _, item := range items {
			total += item.Price * item.Quantity
		}

		trx = models.Transaction{
			TransactionNum: num,
			UserID:         user.ID,
			Type:           models.TypePurchase,
			Status:         models.StatusWaiting,
			Total:          total,
			PointsEarned:   PointsForTotal(total),
			Address:        address,
		}
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}

		for _, item := range items {
			line := models.TransactionItem{
				TransactionID: trx.ID,
				ProductID:     item.ProductID,
				Quantity:      item.Quantity,
				Price:         item.Price,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}

		// Empty the cart but keep the cart shell.
		var cart models.Cart
		if err := tx.Where("user_id = ?", user.ID).First(&cart).Error; err == nil {
			if err := tx.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &trx, &user, nil
}

// Redeem creates a waiting redeem transaction and debits the user's
// balance. The debit is a single conditional UPDATE, so two concurrent
// redemptions can never drive the balance negative.
func Redeem(db *gorm.DB, userID uint, address string, items []RedeemItem) (*models.Transaction, *models.User, error) {
	var trx models.Transaction
	var user models.User

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, userID).Error; err != nil {
			return err
		}

		required := 0
		for _, item := range items {
			required += item.PointsRequired * item.Quantity
		}

		res := tx.Model(&models.User{}).
			Where("id = ? AND points >= ?", user.ID, required).
			Update("points", gorm.Expr("points - ?", required))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrInsufficientPoints
		}

		num, err := AllocateTransactionNum(tx)
		if err != nil {
			return err
		}

		trx = models.Transaction{
			TransactionNum: num,
			UserID:         user.ID,
			Type:           models.TypeRedeem,
			Status:         models.StatusWaiting,
			Total:          0,
			PointsEarned:   -required,
			Address:        address,
		}
		if err := tx.Create(&trx).Error; err != nil {
			return err
		}

		for _, item := range items {
			line := models.PointRedemptionItem{
				TransactionID:  trx.ID,
				PointProductID: item.PointProductID,
				Quantity:       item.Quantity,
				Points:         item.PointsRequired,
			}
			if err := tx.Create(&line).Error; err != nil {
				return err
			}
		}

		// Re-read so callers see the post-debit balance.
		return tx.First(&user, user.ID).Error
	})
	if err != nil {
		return nil, nil, err
	}
	return &trx, &user, nil
}

// UpdateStatus moves a transaction through the status graph. Completing
// a purchase credits its PointsEarned to the owner in the same database
// transaction; redeem transactions were already debited at creation and
// never touch the balance again.
func UpdateStatus(db *gorm.DB, transactionID uint, to models.TransactionStatus) (*models.Transaction, error) {
	var trx models.Transaction

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&trx, transactionID).Error; err != nil {
			return err
		}

		if !CanTransition(trx.Status, to) {
			return ErrInvalidTransition
		}

		trx.Status = to
		if err := tx.Save(&trx).Error; err != nil {
			return err
		}

		if to == models.StatusCompleted && trx.Type == models.TypePurchase {
			if err := tx.Model(&models.User{}).
				Where("id = ?", trx.UserID).
				Update("points", gorm.Expr("points + ?", trx.PointsEarned)).Error; err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return &trx, nil
}
