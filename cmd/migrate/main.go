package main

import (
	"context"
	"log"
	"os"
	"time"

	"pdf-summarizer/internal/repository"

	"github.com/joho/godotenv"
)

// migrate applies the embedded schema migrations to DATABASE_URL and exits.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or could not be loaded: %v", err)
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := repository.OpenPostgres(ctx, dsn)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer db.Close()

	if err := repository.RunMigrations(ctx, db); err != nil {
		log.Printf("%v", err)
		return
	}
	log.Println("migrations applied")
}
