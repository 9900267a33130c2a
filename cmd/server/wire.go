//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"contactbook/config"
	"contactbook/internal/api"
	"contactbook/internal/auth"
	"contactbook/internal/contact"
	"contactbook/internal/database"
	"contactbook/internal/email"
	"contactbook/internal/user"
)

var AppSet = wire.NewSet(user.Set, auth.Set, email.Set, contact.Set, api.NewServer, NewApp)

func InitializeApp(db *database.Database, cfg *config.Config) *App {
	wire.Build(AppSet)

	return &App{}
}
