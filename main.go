package main

import (
	"converge-backend/internal/config"
	"converge-backend/internal/server"

	"github.com/labstack/gommon/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	srv := server.New(cfg)
	if err := srv.Initialize(); err != nil {
		srv.Echo.Logger.Fatal(err)
	}

	if err := srv.Start(); err != nil {
		srv.Echo.Logger.Fatal(err)
	}
}
