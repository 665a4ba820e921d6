// File: /services/email_service.go
package services

import (
	"fmt"

	"fiesta-api/config"

	"gopkg.in/gomail.v2"
)

type EmailService struct {
	config *config.Config
	dialer *gomail.Dialer
}

func NewEmailService(cfg *config.Config) *EmailService {
	dialer := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword)

	return &EmailService{
		config: cfg,
		dialer: dialer,
	}
}

// SendReservationReceipt mails the creator a receipt for the units debited
// when their event was created. Best effort; the caller logs failures and
// never fails the creation over them.
func (es *EmailService) SendReservationReceipt(email, name, eventName string, amount int64) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("%s <%s>", es.config.FromName, es.config.FromEmail))
	m.SetHeader("To", email)
	m.SetHeader("Subject", fmt.Sprintf("Fiesta - Receipt for %s", eventName))
	m.SetBody("text/html", fmt.Sprintf(`
		<h2>Your event is live!</h2>
		<p>Hi %s,</p>
		<p><strong>%s</strong> has been published and <strong>%d</strong> units were reserved from your balance.</p>
		<p>Guests can see it in their feed right now.</p>
	`, name, eventName, amount))

	if err := es.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send receipt email: %w", err)
	}

	return nil
}
