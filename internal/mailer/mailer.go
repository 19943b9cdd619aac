package mailer

import (
	"gopkg.in/gomail.v2"
)

// TaskSendEmail is the queue task name (and topic) for notification emails.
const TaskSendEmail = "notifications.send_email"

// EmailTask is the payload of a queued notification email.
type EmailTask struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Sender delivers a single email.
type Sender interface {
	Send(task EmailTask) error
}

// SMTPConfig holds SMTP connection settings.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPSender sends mail over SMTP via gomail.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSMTPSender creates an SMTPSender from config.
func NewSMTPSender(cfg SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) Send(task EmailTask) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", task.To)
	m.SetHeader("Subject", task.Subject)
	m.SetBody("text/plain", task.Body)
	return s.dialer.DialAndSend(m)
}
