package email

import (
	"bytes"
	"fmt"
	"html/template"
	"path/filepath"

	"gopkg.in/gomail.v2"
)

type Sender struct {
	dialer      *gomail.Dialer
	from        string
	templateDir string
}

func NewSender(host string, port int, username, password, from, templateDir string) *Sender {
	dialer := gomail.NewDialer(host, port, username, password)
	return &Sender{
		dialer:      dialer,
		from:        from,
		templateDir: templateDir,
	}
}

func (s *Sender) sendEmail(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	return s.dialer.DialAndSend(m)
}

// SendConfirmationEmail delivers the confirmation link for a new or
// still-unconfirmed account.
func (s *Sender) SendConfirmationEmail(to, username, link string) error {
	subject := "Confirm Your Email Address"
	body, err := s.parseTemplate("confirmation_email.html", map[string]string{
		"Username": username,
		"Link":     link,
	})
	if err != nil {
		return fmt.Errorf("failed to parse email template: %w", err)
	}
	return s.sendEmail(to, subject, body)
}

func (s *Sender) parseTemplate(templateFileName string, data interface{}) (string, error) {
	templatePath := filepath.Join(s.templateDir, templateFileName)
	t, err := template.ParseFiles(templatePath)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", templateFileName, err)
	}
	buf := new(bytes.Buffer)
	if err = t.Execute(buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", templateFileName, err)
	}
	return buf.String(), nil
}
