package mailer

import (
	"github.com/tripatlas/destinations/pkg/logger"
)

// DevMailer prints emails to the logs instead of sending them.
type DevMailer struct{}

func NewDevMailer() *DevMailer {
	return &DevMailer{}
}

func (d *DevMailer) SendWelcomeEmail(toEmail, toName string) error {
	logger.Info("[DEV MAIL] Welcome Email",
		"to", toEmail,
		"name", toName,
	)
	return nil
}
