package main

import (
	"log"

	"github.com/safir2310/ayamgepreksambalijo26/internal/config"
	"github.com/safir2310/ayamgepreksambalijo26/internal/database"
)

func main() {
	cfg := config.Load()

	database.Connect(cfg)

	log.Println("Running schema migrations...")
	if err := database.Migrate(database.DB); err != nil {
		log.Fatal("Schema migration failed: ", err)
	}
	log.Println("Migrations completed successfully")
}
