package notify

import (
	"fmt"
	"net/smtp"
	"strings"
)

type Message struct {
	To      []string
	Subject string
	Body    string
}

type Mailer interface {
	Send(m Message) error
}

// SMTPMailer sends plain-text UTF-8 mail. Auth-less on purpose: local
// relays and MailHog-style dev transports need none.
type SMTPMailer struct {
	Host string
	Port int
	From string
}

func NewSMTPMailer(host string, port int, from string) *SMTPMailer {
	return &SMTPMailer{Host: host, Port: port, From: from}
}

func (s *SMTPMailer) Send(m Message) error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	msg := "From: " + s.From + "\r\n" +
		"To: " + strings.Join(m.To, ", ") + "\r\n" +
		"Subject: " + m.Subject + "\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n" +
		m.Body
	return smtp.SendMail(addr, nil, s.From, m.To, []byte(msg))
}
