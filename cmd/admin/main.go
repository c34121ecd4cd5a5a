package main

import (
	"errors"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/AnshRaj112/studio-backend/internal/config"
	"github.com/AnshRaj112/studio-backend/internal/database"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	if err := database.InitPostgresTables(); err != nil {
		database.DisconnectPostgres()
		log.Fatal("Failed to initialize PostgreSQL tables:", err)
	}

	cli := commandLine{}
	err := cli.run(os.Args)
	database.DisconnectPostgres()
	if err != nil {
		if !errors.Is(err, errHelp) {
			log.Printf("error: %v", err)
		}
		os.Exit(1)
	}
}
