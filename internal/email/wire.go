package email

import (
	"github.com/google/wire"

	"contactbook/config"
	"contactbook/internal/auth"
)

func ProvideSender(cfg *config.Config) *Sender {
	return NewSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom, cfg.TemplateDir)
}

var Set = wire.NewSet(
	ProvideSender,
	wire.Bind(new(auth.ConfirmationNotifier), new(*Sender)),
)
