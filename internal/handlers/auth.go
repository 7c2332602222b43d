package handlers

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/safir2310/ayamgepreksambalijo26/internal/ledger"
	"github.com/safir2310/ayamgepreksambalijo26/internal/middleware"
	"github.com/safir2310/ayamgepreksambalijo26/internal/models"
)

type AuthHandler struct {
	DB *gorm.DB
}

func NewAuthHandler(db *gorm.DB) *AuthHandler {
	return &AuthHandler{DB: db}
}

// RegisterRequest represents the request body for user registration
type RegisterRequest struct {
	Username         string      `json:"username" validate:"required"`
	Password         string      `json:"password" validate:"required,min=6"`
	Email            string      `json:"email" validate:"required,email"`
	Phone            string      `json:"phone" validate:"required"`
	Role             models.Role `json:"role" validate:"oneof=user admin"`
	Address          string      `json:"address"`
	DateOfBirth      string      `json:"date_of_birth"`
	VerificationCode string      `json:"verification_code"`
}

// Register creates a customer or admin account. Admin accounts must
// supply a 6-digit verification code matching the date of birth (ddmmyy).
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	if req.Username == "" || req.Password == "" || req.Email == "" || req.Phone == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username, password, email and phone are required"})
	}

	if req.Role == "" {
		req.Role = models.RoleUser
	}
	if req.Role != models.RoleUser && req.Role != models.RoleAdmin {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid role"})
	}

	var dob *time.Time
	if req.Role == models.RoleAdmin {
		if req.VerificationCode == "" || req.DateOfBirth == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Verification code and date of birth are required for admin"})
		}
		parsed, err := time.Parse("2006-01-02", req.DateOfBirth)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid date of birth format, use YYYY-MM-DD"})
		}
		expected := fmt.Sprintf("%02d%02d%02d", parsed.Day(), int(parsed.Month()), parsed.Year()%100)
		if req.VerificationCode != expected {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid verification code"})
		}
		dob = &parsed
	}

	// Pre-checks give tailored messages; the unique indexes still back
	// them up under concurrent registration.
	var existing models.User
	if err := h.DB.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Username already exists"})
	}
	if err := h.DB.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Email already exists"})
	}
	if err := h.DB.Where("phone = ?", req.Phone).First(&existing).Error; err == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": "Phone already exists"})
	}

	hashedPassword, err := middleware.HashPassword(req.Password)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error processing request"})
	}

	var user models.User
	err = h.DB.Transaction(func(tx *gorm.DB) error {
		num, err := ledger.AllocateUserNum(tx)
		if err != nil {
			return err
		}

		address := ""
		if req.Role == models.RoleUser {
			address = req.Address
		}

		user = models.User{
			UserNum:     num,
			Username:    req.Username,
			Password:    hashedPassword,
			Email:       req.Email,
			Phone:       req.Phone,
			Role:        req.Role,
			Address:     address,
			DateOfBirth: dob,
			Points:      0,
		}
		return tx.Create(&user).Error
	})
	if err != nil {
		if field := uniqueViolationField(err); field != "" {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": fmt.Sprintf("%s already exists", field)})
		}
		log.Printf("Error creating user: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error creating user"})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Registration successful",
		"user":    user,
	})
}

// Login handles user login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req models.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Username == "" || req.Password == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Username and password are required"})
	}

	var user models.User
	if err := h.DB.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
		}
		log.Printf("Database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	if err := middleware.CheckPassword(req.Password, user.Password); err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid credentials"})
	}

	token, err := middleware.GenerateJWT(user.ID, user.Role)
	if err != nil {
		log.Printf("Error generating JWT: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error generating authentication token"})
	}

	return c.JSON(models.LoginResponse{
		Token: token,
		Role:  user.Role,
		User:  user,
	})
}

// GetProfile returns the current user's profile
func (h *AuthHandler) GetProfile(c *fiber.Ctx) error {
	userID, _, err := middleware.GetUserFromContext(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	var user models.User
	if err := h.DB.First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		log.Printf("Database error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Internal server error"})
	}

	return c.JSON(user)
}
