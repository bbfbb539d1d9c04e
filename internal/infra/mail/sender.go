package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// EmailSender delivers rendered sequence emails over SMTP.
type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string

	From    string
	ReplyTo string
}

func NewEmailSender(host string, port int, user, password string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     "GRAVITAS INDEX <hello@gravitasindex.com>",
		ReplyTo:  "patrick@gravitasindex.com",
	}
}

// SendSequenceEmail renders the template for sequenceType and sends it.
// An unknown sequence type is an error, never a silent skip: the dispatch
// pipeline records it as a task failure.
func (s *EmailSender) SendSequenceEmail(to, name, sequenceType, downloadURL string) error {
	subject, body, err := Render(sequenceType, name, downloadURL)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("Reply-To", s.ReplyTo)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("sending %s email to %s: %w", sequenceType, to, err)
	}

	return nil
}
