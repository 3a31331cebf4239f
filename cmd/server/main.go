package main

import (
	"context"
	"database/sql"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/caarlos0/env/v11"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"

	auth "github.com/studiolane/campus-auth"
	"github.com/studiolane/campus-auth/course"
	"github.com/studiolane/campus-auth/dashboard"
	"github.com/studiolane/campus-auth/mailer"
	"github.com/studiolane/campus-auth/server"
	"github.com/studiolane/campus-auth/social"
	"github.com/studiolane/campus-auth/social/google"
)

type config struct {
	Port           int      `env:"PORT" envDefault:"8080"`
	DatabaseDSN    string   `env:"DATABASE_DSN" envDefault:"file:campus.db?cache=shared&mode=rwc"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	SigningKey          string `env:"SIGNING_KEY"`
	SigningMethod       string `env:"SIGNING_METHOD" envDefault:"HS256"`
	Issuer              string `env:"TOKEN_ISSUER" envDefault:"campus-auth"`
	AccessTokenTTL      int    `env:"ACCESS_TOKEN_TTL_MINUTES" envDefault:"30"`
	VerificationTTL     int    `env:"VERIFICATION_TOKEN_TTL_MINUTES" envDefault:"60"`
	VerificationBaseURL string `env:"VERIFICATION_BASE_URL"`

	MailTransport string `env:"MAIL_TRANSPORT" envDefault:"smtp"`
	SMTPHost      string `env:"SMTP_HOST"`
	SMTPPort      int    `env:"SMTP_PORT" envDefault:"587"`
	SMTPUsername  string `env:"SMTP_USERNAME"`
	SMTPPassword  string `env:"SMTP_PASSWORD"`
	MailFrom      string `env:"MAIL_FROM"`

	GoogleClientID     string `env:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `env:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURI  string `env:"GOOGLE_REDIRECT_URI"`
}

func main() {
	cfg := config{}
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("failed to parse environment: %v", err)
	}

	if cfg.SigningKey == "" {
		log.Fatal("SIGNING_KEY is required")
	}
	if cfg.MailTransport == "smtp" && (cfg.SMTPHost == "" || cfg.MailFrom == "") {
		log.Fatal("SMTP_HOST and MAIL_FROM are required for the smtp mail transport, set MAIL_TRANSPORT=log to skip")
	}

	logger := log.New(os.Stdout, "", log.LstdFlags)
	appLogger := stdLogger{logger}

	sqldb, err := sql.Open(sqliteshim.ShimName, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())
	defer db.Close()

	ctx := context.Background()

	if err := auth.Migrate(ctx, db); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	courseRepo := course.NewRepository(db)
	if seeded, err := course.Seed(ctx, courseRepo); err != nil {
		log.Fatalf("failed to seed courses: %v", err)
	} else if seeded > 0 {
		appLogger.Info("seeded %d courses", seeded)
	}

	repo := auth.NewRepositoryManager(db)
	repo.MustValidate()

	dashboardRepo := dashboard.NewRepository(db)

	authConfig := auth.Config{
		SigningKey:             cfg.SigningKey,
		SigningMethod:          cfg.SigningMethod,
		Issuer:                 cfg.Issuer,
		AccessTokenTTLMinutes:  cfg.AccessTokenTTL,
		VerificationTTLMinutes: cfg.VerificationTTL,
		VerificationBaseURL:    cfg.VerificationBaseURL,
	}

	tokens := auth.NewTokenService(authConfig, appLogger)

	svc := auth.NewAuthService(repo, tokens, authConfig).
		WithLogger(appLogger).
		WithMailer(buildMailer(cfg, appLogger)).
		WithDashboardCreator(dashboardRepo)

	var provider social.Provider
	if cfg.GoogleClientID != "" {
		provider = google.New(google.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURI:  cfg.GoogleRedirectURI,
		})
	}

	srv := server.New(server.Config{
		Port:           cfg.Port,
		AllowedOrigins: cfg.AllowedOrigins,
	}, svc, provider, course.NewService(courseRepo), dashboardRepo, appLogger)

	errs := make(chan error, 1)
	go func() {
		errs <- srv.Listen()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stop:
		appLogger.Info("received %s, shutting down", sig)
		if err := srv.Shutdown(); err != nil {
			appLogger.Error("shutdown failed: %v", err)
		}
	case err := <-errs:
		if err != nil {
			log.Fatalf("server stopped: %v", err)
		}
	}
}

func buildMailer(cfg config, logger auth.Logger) auth.Mailer {
	if cfg.MailTransport == "log" {
		return &mailer.LogMailer{Logger: logger}
	}

	m, err := mailer.NewSMTP(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUsername,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
	if err != nil {
		log.Fatalf("failed to build mailer: %v", err)
	}

	return m
}

// stdLogger adapts the standard library logger to the auth.Logger surface.
type stdLogger struct {
	l *log.Logger
}

func (s stdLogger) Debug(format string, args ...any) {
	s.l.Printf("[DBG] "+format, args...)
}

func (s stdLogger) Info(format string, args ...any) {
	s.l.Printf("[INF] "+format, args...)
}

func (s stdLogger) Error(format string, args ...any) {
	s.l.Printf("[ERR] "+format, args...)
}
