package main

import (
	"log"

	"github.com/safir2310/ayamgepreksambalijo26/internal/config"
	"github.com/safir2310/ayamgepreksambalijo26/internal/database"
	"github.com/safir2310/ayamgepreksambalijo26/internal/handlers"
	"github.com/safir2310/ayamgepreksambalijo26/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	cfg := config.Load()

	middleware.SetJWTSecret(cfg.JWTSecret)
	database.Connect(cfg)

	app := fiber.New()

	app.Use(middleware.RequestID())
	app.Use(logger.New())
	app.Use(cors.New())

	handlers.Register(app, database.DB, cfg)

	log.Printf("Server running on port :%s", cfg.Port)
	log.Fatal(app.Listen(":" + cfg.Port))
}
