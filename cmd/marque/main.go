package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/ldrouet/marque/internal/app"
)

func main() {
	// Optional .env for local development; real deployments use the environment.
	_ = godotenv.Load()

	if err := app.New().Run(); err != nil {
		log.Fatalf("❌ marque failed to start: %v", err)
	}
}
