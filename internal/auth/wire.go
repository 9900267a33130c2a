package auth

import (
	"github.com/google/wire"

	"contactbook/config"
)

// ProvideCodec builds the token codec from process configuration.
func ProvideCodec(cfg *config.Config) *Codec {
	return NewCodec([]byte(cfg.JWTSecret), cfg.AccessTokenTTL, cfg.RefreshTokenTTL, cfg.ConfirmTokenTTL)
}

// ProvideJSONHandler wires the REST handler with the configured base URL.
func ProvideJSONHandler(service *Service, confirmations *Confirmations, notifier ConfirmationNotifier, cfg *config.Config) *JSONHandler {
	return NewJSONHandler(service, confirmations, notifier, cfg.BaseURL)
}

var Set = wire.NewSet(
	ProvideCodec,
	NewService,
	NewConfirmations,
	ProvideJSONHandler,
	NewMiddleware,
)
