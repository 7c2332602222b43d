package handlers

import (
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/safir2310/ayamgepreksambalijo26/internal/config"
	"github.com/safir2310/ayamgepreksambalijo26/internal/middleware"
	"github.com/safir2310/ayamgepreksambalijo26/internal/models"
)

// Register wires every API route onto the app.
func Register(app *fiber.App, db *gorm.DB, cfg config.Config) {
	authHandler := NewAuthHandler(db)
	adminOnly := middleware.RoleProtected(models.RoleAdmin)

	api := app.Group("/api/v1")

	// === PUBLIC ROUTES ===
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "Running", "message": "API Ready"})
	})
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Get("/products", GetProducts(db))
	api.Get("/products/:id", GetProduct(db))
	api.Get("/point-products", GetPointProducts(db))

	// === PROTECTED ROUTES (JWT) ===
	api.Use(middleware.JWTProtected())

	api.Get("/me", authHandler.GetProfile)

	api.Get("/cart", GetCart(db))
	api.Post("/cart", AddCartItem(db))
	api.Delete("/cart", RemoveCartItem(db))

	api.Post("/checkout", Checkout(db, cfg))
	api.Post("/redeem-points", RedeemPoints(db, cfg))

	api.Get("/transactions", GetTransactions(db))
	api.Put("/transactions/:id/status", adminOnly, UpdateTransactionStatus(db))

	// Catalog management
	api.Post("/products", adminOnly, CreateProduct(db))
	api.Put("/products/:id", adminOnly, UpdateProduct(db))
	api.Delete("/products/:id", adminOnly, DeleteProduct(db))
	api.Post("/point-products", adminOnly, CreatePointProduct(db))
	api.Put("/point-products/:id", adminOnly, UpdatePointProduct(db))
	api.Delete("/point-products/:id", adminOnly, DeletePointProduct(db))

	// User management
	admin := api.Group("/admin", adminOnly)
	admin.Get("/users", GetUsers(db))
	admin.Put("/users/:id", UpdateUser(db))
	admin.Delete("/users/:id", DeleteUser(db))
}
