package mailer

import (
	"context"
	"errors"
	"net/smtp"
	"strings"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/studiolane/campus-auth"
)

func newTestSMTP(t *testing.T, cfg Config) *SMTP {
	t.Helper()
	m, err := NewSMTP(cfg)
	require.NoError(t, err)
	return m
}

func TestSendRendersTemplateAndPayload(t *testing.T) {
	m := newTestSMTP(t, Config{
		Host: "smtp.example.com",
		Port: 587,
		From: "no-reply@example.com",
	})

	var (
		gotAddr    string
		gotAuth    smtp.Auth
		gotFrom    string
		gotTo      []string
		gotPayload []byte
	)
	m.send = func(addr string, a smtp.Auth, from string, to []string, msg []byte) error {
		gotAddr = addr
		gotAuth = a
		gotFrom = from
		gotTo = to
		gotPayload = msg
		return nil
	}

	err := m.Send(context.Background(), auth.Message{
		Recipient: "jane@example.com",
		Subject:   "Verify your email",
		FullName:  "Jane Doe",
		Link:      "https://campus.example.com/auth/verify-email?token=abc",
	})
	require.NoError(t, err)

	assert.Equal(t, "smtp.example.com:587", gotAddr)
	assert.Nil(t, gotAuth, "no credentials configured means anonymous relay")
	assert.Equal(t, "no-reply@example.com", gotFrom)
	assert.Equal(t, []string{"jane@example.com"}, gotTo)

	payload := string(gotPayload)
	assert.Contains(t, payload, "From: no-reply@example.com\r\n")
	assert.Contains(t, payload, "To: jane@example.com\r\n")
	assert.Contains(t, payload, "Subject: Verify your email\r\n")
	assert.Contains(t, payload, "Content-Type: text/html")
	assert.Contains(t, payload, "Jane Doe")
	assert.Contains(t, payload, "https://campus.example.com/auth/verify-email?token=abc")
}

func TestSendUsesPlainAuthWhenConfigured(t *testing.T) {
	m := newTestSMTP(t, Config{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "mailer",
		Password: "secret",
		From:     "no-reply@example.com",
	})

	var gotAuth smtp.Auth
	m.send = func(_ string, a smtp.Auth, _ string, _ []string, _ []byte) error {
		gotAuth = a
		return nil
	}

	require.NoError(t, m.Send(context.Background(), auth.Message{Recipient: "jane@example.com"}))
	assert.NotNil(t, gotAuth)
}

func TestSendWrapsRelayFailure(t *testing.T) {
	m := newTestSMTP(t, Config{Host: "smtp.example.com", Port: 587})
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		return errors.New("connection refused")
	}

	err := m.Send(context.Background(), auth.Message{Recipient: "jane@example.com"})
	require.Error(t, err)

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, goerrors.CategoryInternal, richErr.Category)
}

func TestSendTimesOut(t *testing.T) {
	m := newTestSMTP(t, Config{
		Host:        "smtp.example.com",
		Port:        587,
		SendTimeout: 10 * time.Millisecond,
	})
	m.send = func(string, smtp.Auth, string, []string, []byte) error {
		time.Sleep(time.Second)
		return nil
	}

	err := m.Send(context.Background(), auth.Message{Recipient: "jane@example.com"})
	require.Error(t, err)

	var richErr *goerrors.Error
	require.True(t, goerrors.As(err, &richErr))
	assert.Equal(t, goerrors.CategoryOperation, richErr.Category)
}

func TestLogMailerNeverFails(t *testing.T) {
	m := &LogMailer{}
	assert.NoError(t, m.Send(context.Background(), auth.Message{Recipient: "jane@example.com"}))
}

func TestBuildPayloadSeparatesHeadersFromBody(t *testing.T) {
	payload := string(buildPayload("a@example.com", "b@example.com", "Hello", "<p>hi</p>"))

	parts := strings.SplitN(payload, "\r\n\r\n", 2)
	require.Len(t, parts, 2)
	assert.Equal(t, "<p>hi</p>", parts[1])
}
