package services

import (
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"authprobe/internal/config"
)

type EmailService interface {
	SendEmail(to, subject, msg string) error
}

type emailService struct {
	from   string
	dialer *gomail.Dialer
}

// NewEmailService returns an SMTP sender, or a sender that only logs when no
// SMTP credentials are configured.
func NewEmailService(cfg config.SMTPConfig) EmailService {
	if cfg.Username == "" {
		log.Warn().Msg("SMTP_USERNAME not set, verification emails will only be logged")
		return logEmailService{}
	}
	return &emailService{
		from:   cfg.Username,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (e *emailService) SendEmail(to, subject, msg string) error {
	m := gomail.NewMessage()

	m.SetHeader("From", e.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", msg)

	return e.dialer.DialAndSend(m)
}

type logEmailService struct{}

func (logEmailService) SendEmail(to, subject, msg string) error {
	log.Info().Str("to", to).Str("subject", subject).Str("body", msg).Msg("Email not sent (no SMTP configured)")
	return nil
}
