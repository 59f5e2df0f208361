package email

import (
	"fmt"
	"net/smtp"
)

// Sender delivers plain text mail through a single SMTP account.
type Sender struct {
	host     string
	port     string
	from     string
	password string
}

// NewSender creates a Sender for the given SMTP account.
func NewSender(host, port, from, password string) *Sender {
	return &Sender{host: host, port: port, from: from, password: password}
}

// Configured reports whether the sender has enough settings to deliver mail.
func (s *Sender) Configured() bool {
	return s.host != "" && s.from != ""
}

// Send delivers a plain text email to a single recipient.
func (s *Sender) Send(to, subject, body string) error {
	if !s.Configured() {
		return fmt.Errorf("email: not configured")
	}

	auth := smtp.PlainAuth("", s.from, s.password, s.host)

	msg := []byte("From: " + s.from + "\r\n" +
		"To: " + to + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"\r\n" + body + "\r\n")

	if err := smtp.SendMail(s.host+":"+s.port, auth, s.from, []string{to}, msg); err != nil {
		return fmt.Errorf("failed to send email: %v", err)
	}
	return nil
}
