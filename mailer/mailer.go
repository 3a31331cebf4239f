// Package mailer delivers account emails over SMTP, rendering bodies from
// the bundled templates. The log mailer stands in wherever no SMTP relay is
// configured, keeping local development free of mail infrastructure.
package mailer

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"net/http"
	"net/smtp"
	"time"

	"github.com/gofiber/template/django/v3"
	goerrors "github.com/goliatone/go-errors"

	auth "github.com/studiolane/campus-auth"
)

//go:embed templates/*.html
var templatesFS embed.FS

const verifyTemplate = "templates/verify-email"

// Config holds SMTP relay settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string

	// SendTimeout bounds a single delivery attempt. Zero means 10 seconds.
	SendTimeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.SendTimeout <= 0 {
		return 10 * time.Second
	}
	return c.SendTimeout
}

// SMTP delivers rendered messages through a single relay.
type SMTP struct {
	config Config
	engine *django.Engine
	send   func(addr string, a smtp.Auth, from string, to []string, msg []byte) error
}

var _ auth.Mailer = (*SMTP)(nil)

// NewSMTP creates an SMTP mailer. Template loading happens eagerly so a
// broken bundle fails at boot rather than on first send.
func NewSMTP(cfg Config) (*SMTP, error) {
	engine, err := loadTemplates()
	if err != nil {
		return nil, err
	}

	return &SMTP{
		config: cfg,
		engine: engine,
		send:   smtp.SendMail,
	}, nil
}

// Send implements auth.Mailer.
func (m *SMTP) Send(ctx context.Context, msg auth.Message) error {
	body, err := m.render(verifyTemplate, msg)
	if err != nil {
		return err
	}

	payload := buildPayload(m.config.From, msg.Recipient, msg.Subject, body)
	addr := fmt.Sprintf("%s:%d", m.config.Host, m.config.Port)

	var creds smtp.Auth
	if m.config.Username != "" {
		creds = smtp.PlainAuth("", m.config.Username, m.config.Password, m.config.Host)
	}

	ctx, cancel := context.WithTimeout(ctx, m.config.timeout())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- m.send(addr, creds, m.config.From, []string{msg.Recipient}, payload)
	}()

	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "mail delivery timed out")
	case err := <-done:
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "mail delivery failed")
		}
		return nil
	}
}

func (m *SMTP) render(template string, msg auth.Message) (string, error) {
	var buf bytes.Buffer
	err := m.engine.Render(&buf, template, map[string]any{
		"full_name": msg.FullName,
		"link":      msg.Link,
	})
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to render email template")
	}
	return buf.String(), nil
}

func loadTemplates() (*django.Engine, error) {
	engine := django.NewFileSystem(http.FS(templatesFS), ".html")
	if err := engine.Load(); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load email templates")
	}
	return engine, nil
}

func buildPayload(from, to, subject, body string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.Bytes()
}

// LogMailer writes the would-be email to the logger instead of sending it.
type LogMailer struct {
	Logger auth.Logger
}

var _ auth.Mailer = (*LogMailer)(nil)

// Send implements auth.Mailer.
func (m *LogMailer) Send(_ context.Context, msg auth.Message) error {
	if m.Logger != nil {
		m.Logger.Info("mail to=%s subject=%q link=%s", msg.Recipient, msg.Subject, msg.Link)
	}
	return nil
}
