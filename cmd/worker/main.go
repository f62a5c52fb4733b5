package main

import (
	"log"

	"github.com/joho/godotenv"

	"medlink-backend/internal/config"
	"medlink-backend/pkg/logger"
)

func main() {
	// .env is for development; production uses real environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.App.Environment)

	Run(cfg)
}
