// file: service/mailer.go

package service

import (
	"fmt"
	"go-shop-api/config"

	"gopkg.in/gomail.v2"
)

// IMailer abstracts outbound email so the registration flow can be
// tested without an SMTP server.
type IMailer interface {
	SendOTP(to, name string, otp int, subject string) error
}

// SMTPMailer sends email through the configured SMTP relay.
type SMTPMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPMailer() *SMTPMailer {
	cfg := config.AppConfig.SMTP
	return &SMTPMailer{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

// SendOTP delivers the registration verification code.
func (m *SMTPMailer) SendOTP(to, name string, otp int, subject string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", otpEmailBody(name, otp))

	return m.dialer.DialAndSend(msg)
}

func otpEmailBody(name string, otp int) string {
	return fmt.Sprintf(`
  <div style="font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f6f9; padding: 40px;">
    <div style="background: #ffffff; border-radius: 16px; max-width: 600px; margin: 0 auto; padding: 40px; text-align: center;">
      <h1 style="color: #0b6efd; font-size: 28px; margin: 0;">GO SHOP</h1>
      <p style="color: #555; margin-top: 8px; font-size: 16px;">Verify your email to get started!</p>
      <p style="font-size: 18px; color: #333; margin-top: 30px;">Hi %s!</p>
      <p style="font-size: 16px; color: #555;">
        Use the verification code below to confirm your email address. It expires in <strong>10 minutes</strong>.
      </p>
      <div style="display: inline-block; background: #e6f0ff; padding: 18px 28px; border-radius: 12px; font-size: 32px; font-weight: bold; letter-spacing: 6px; color: #0b6efd;">
        %d
      </div>
      <p style="margin-top: 35px; font-size: 14px; color: #888;">
        If you did not request this code, you can safely ignore this email.
      </p>
    </div>
  </div>`, name, otp)
}
