package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/projethon/projethon/db"
	"github.com/projethon/projethon/internal/attachments"
	"github.com/projethon/projethon/internal/auth"
	"github.com/projethon/projethon/internal/router"
	"github.com/projethon/projethon/internal/types"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}

	if err := auth.InitJWTSecret(); err != nil {
		log.Fatalf("Failed to initialize token signing: %v", err)
	}

	auth.InitBcryptCost()

	// A transiently unreachable backend must not keep the service down:
	// outside development the process starts anyway and data endpoints
	// answer 503 until the database comes back.
	if err := connectAndMigrate(); err != nil {
		if types.IsDevelopment() {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		log.Printf("Starting without database: %v", err)
		db.DB = nil
	}

	sink, err := attachments.NewFromEnv()

	if err != nil {
		log.Fatalf("Failed to initialize attachment storage: %v", err)
	}

	r := router.NewRouter(sink)

	var port string

	if port = os.Getenv("PORT"); port == "" {
		port = "3000"
		log.Println("PORT not set, defaulting to 3000")
	}

	if err := r.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func connectAndMigrate() error {
	if err := db.ConnectDatabase(); err != nil {
		return err
	}
	return db.MigrateDatabase()
}
