// file: internals/helpers/mailer/mailer.go
package mailer

import (
	"context"
	"fmt"
	"log"
	"net/smtp"

	"izinku_backend/internals/configs"
)

// Mailer is the outbound mail boundary. Delivery is fire-and-forget from the
// caller's perspective: an error means this one message, nothing more.
type Mailer interface {
	Send(ctx context.Context, to, subject, html string) error
}

// SMTPMailer sends over a plain SMTP relay (AUTH PLAIN).
type SMTPMailer struct {
	Host string
	Port string
	User string
	Pass string
	From string
}

func NewSMTPFromEnv() *SMTPMailer {
	return &SMTPMailer{
		Host: configs.GetEnv("SMTP_HOST"),
		Port: configs.GetEnv("SMTP_PORT", "587"),
		User: configs.GetEnv("SMTP_USER"),
		Pass: configs.GetEnv("SMTP_PASS"),
		From: configs.GetEnv("SMTP_FROM", "no-reply@izinku.app"),
	}
}

func (m *SMTPMailer) Send(ctx context.Context, to, subject, html string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	msg := fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.From, to, subject, html,
	)
	auth := smtp.PlainAuth("", m.User, m.Pass, m.Host)
	return smtp.SendMail(m.Host+":"+m.Port, auth, m.From, []string{to}, []byte(msg))
}

// LogMailer is the dev fallback when SMTP env is absent.
type LogMailer struct{}

func (LogMailer) Send(_ context.Context, to, subject, _ string) error {
	log.Printf("[MAIL][DEV] to=%s subject=%q (not sent)", to, subject)
	return nil
}

// FromEnv picks SMTP when configured, otherwise the log-only mailer.
func FromEnv() Mailer {
	if configs.GetEnv("SMTP_HOST") == "" {
		log.Println("⚠️ SMTP_HOST not set, outbound mail is log-only")
		return LogMailer{}
	}
	return NewSMTPFromEnv()
}
