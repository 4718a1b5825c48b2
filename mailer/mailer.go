// Package mailer sends transactional email over SMTP: OTP codes and
// order confirmations. Order confirmation failures are the caller's
// problem to swallow; OTP failures are fatal to the request because
// the code is the whole point of the email.
package mailer

import (
	"fmt"
	"net/smtp"

	"github.com/webdeveloper-sudo/LeCheesePondicherry-sub000/models"
)

type Service struct {
	host     string
	port     string
	username string
	password string
	from     string
}

func NewService(host, port, username, password, from string) *Service {
	return &Service{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

// SendOTP mails a verification code. The subject names the purpose so
// a reset mail cannot be mistaken for a signup mail.
func (s *Service) SendOTP(to, purpose, code string) error {
	subject := "Your Le Cheese verification code"
	if purpose == models.OtpPurposeReset {
		subject = "Your Le Cheese password reset code"
	}
	return s.send(to, subject, BuildOTPBody(purpose, code))
}

// SendOrderConfirmation mails the purchase summary for a paid order.
func (s *Service) SendOrderConfirmation(to string, order *models.Order) error {
	subject := fmt.Sprintf("Order confirmed: %s", order.OrderID)
	return s.send(to, subject, BuildOrderConfirmationBody(order))
}

func (s *Service) send(to, subject, body string) error {
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		s.from, to, subject, body)
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	var auth smtp.Auth
	if s.username != "" {
		auth = smtp.PlainAuth("", s.username, s.password, s.host)
	}
	return smtp.SendMail(addr, auth, s.from, []string{to}, []byte(msg))
}
