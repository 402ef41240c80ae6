// Package service holds the app-level services handlers and jobs depend on
package service

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"github.com/spf13/viper"
	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Mailer sends templated HTML mail over SMTP
type Mailer struct {
	dialer *gomail.Dialer
	from   string
	tmpl   *template.Template
}

func NewMailer() (*Mailer, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse mail templates, %w", err)
	}

	return &Mailer{
		dialer: gomail.NewDialer(
			viper.GetString("mail.host"),
			viper.GetInt("mail.port"),
			viper.GetString("mail.user"),
			viper.GetString("mail.password"),
		),
		from: viper.GetString("mail.sender"),
		tmpl: tmpl,
	}, nil
}

// Send renders the named template with data and mails it
func (m *Mailer) Send(to, subject, name string, data map[string]any) error {
	var body bytes.Buffer
	if err := m.tmpl.ExecuteTemplate(&body, name+".html", data); err != nil {
		return fmt.Errorf("failed to render mail template %s, %w", name, err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body.String())

	return m.dialer.DialAndSend(msg)
}
