// Package notify реалізує best-effort сповіщення: один email на подію
// життєвого циклу скарги, без повторів. Будь-яка помилка відправки
// логується та ковтається — вона ніколи не впливає на основну операцію.
package notify

import (
	gomail "gopkg.in/gomail.v2"
)

// Sender — вузький контракт відправки. Workflow бачить лише його.
type Sender interface {
	Send(to, subject, body string) error
}

// SMTPSender надсилає листи через SMTP (gomail).
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

func (s *SMTPSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	return s.dialer.DialAndSend(m)
}
