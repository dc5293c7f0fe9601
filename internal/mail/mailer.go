package mail

import (
	"fmt"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Mailer delivers one-time codes over SMTP.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	log    zerolog.Logger
}

// NewMailer creates a Mailer for the given SMTP account.
func NewMailer(host string, port int, username, password, from string, log zerolog.Logger) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
		log:    log,
	}
}

// SendOTP emails the verification code to the recipient.
func (m *Mailer) SendOTP(to, code string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", "OTP Verification")
	msg.SetBody("text/plain", fmt.Sprintf("Your OTP is %s. It will expire in 2 minutes.", code))

	if err := m.dialer.DialAndSend(msg); err != nil {
		m.log.Error().Err(err).Str("to", to).Msg("failed to send otp email")
		return err
	}

	m.log.Info().Str("to", to).Msg("otp email sent")
	return nil
}
