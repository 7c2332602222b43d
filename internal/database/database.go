package database

import (
	"fmt"
	"log"

	"github.com/safir2310/ayamgepreksambalijo26/internal/config"
	"github.com/safir2310/ayamgepreksambalijo26/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Connect opens the Postgres connection and stores the handle in DB.
func Connect(cfg config.Config) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort, cfg.DBSSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Info),
	})
	if err != nil {
		log.Fatal("Failed to connect to database. \nError: ", err)
	}

	log.Println("Database connection successful")
	DB = db
}

// Migrate runs the schema migration for every model.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.PointProduct{},
		&models.Cart{},
		&models.CartItem{},
		&models.Transaction{},
		&models.TransactionItem{},
		&models.PointRedemptionItem{},
	)
}
