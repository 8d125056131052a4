package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"
	"github.com/voteguard/voteguard/internal/server"
	"github.com/voteguard/voteguard/internal/server/config"
)

func main() {

	// a missing .env is fine, the environment may be set externally
	_ = godotenv.Load()

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("%v", err)
	}

	app, err := server.NewApp(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}

	if err := app.Run(context.Background()); err != nil {
		log.Fatalf("%v", err)
	}
}
