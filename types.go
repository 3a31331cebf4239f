package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Logger is the minimal logging surface the package needs. Pass your own
// implementation to integrate with the host application's logging.
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Error(format string, args ...any)
}

// Config carries the runtime options for the auth service and its token
// codec. Durations are expressed in minutes to keep environment wiring flat.
type Config struct {
	SigningKey             string
	SigningMethod          string
	Issuer                 string
	AccessTokenTTLMinutes  int
	VerificationTTLMinutes int
	VerificationBaseURL    string
	ContinueURL            string
}

// AccessTokenTTL returns the access token lifetime, defaulting to 30 minutes.
func (c Config) AccessTokenTTL() time.Duration {
	if c.AccessTokenTTLMinutes <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.AccessTokenTTLMinutes) * time.Minute
}

// VerificationTokenTTL returns the verification token lifetime. Zero means
// inherit the access token lifetime.
func (c Config) VerificationTokenTTL() time.Duration {
	if c.VerificationTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.VerificationTTLMinutes) * time.Minute
}

// Message is a rendered-to-be email handed to a Mailer.
type Message struct {
	Recipient string
	Subject   string
	FullName  string
	Link      string
}

// Mailer delivers account emails. Implementations decide transport; the
// service decides per call site whether a delivery failure is surfaced or
// only logged.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// DeliveryPolicy selects how a mail delivery failure is handled.
type DeliveryPolicy int

const (
	// DeliverBestEffort logs delivery failures and carries on.
	DeliverBestEffort DeliveryPolicy = iota
	// DeliverSurface propagates delivery failures to the caller.
	DeliverSurface
)

// UserStore is the narrow persistence surface the auth flows consume. The
// bun-backed Users repository satisfies it; tests substitute mocks.
type UserStore interface {
	ByID(ctx context.Context, id string) (*User, error)
	ByIDTx(ctx context.Context, tx bun.IDB, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
	SaveTx(ctx context.Context, tx bun.IDB, user *User) (*User, error)
}

// DashboardCreator provisions the per-user workspace created exactly once
// when an account turns verified. Creation runs inside the verification
// transaction so a failed provision rolls the status flip back with it.
type DashboardCreator interface {
	CreateForUserTx(ctx context.Context, tx bun.IDB, userID uuid.UUID) error
}

// DefaultLogger returns the stdout logger used when no Logger is configured.
func DefaultLogger() Logger {
	return defLogger{}
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] AUTH "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] AUTH "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] AUTH "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
