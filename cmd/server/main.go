package main

import (
	"log"

	"contactbook/config"
	"contactbook/internal/api"
	"contactbook/internal/contact"
	"contactbook/internal/database"
	"contactbook/internal/user"
)

type App struct {
	Server *api.Server
}

func NewApp(server *api.Server) *App {
	return &App{Server: server}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.New(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Migrate(&user.User{}, &contact.Contact{}); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	app := InitializeApp(db, cfg)

	if err := app.Server.Run(); err != nil {
		log.Fatalf("Server stopped: %v", err)
	}
}
