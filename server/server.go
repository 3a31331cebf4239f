// Package server wires the HTTP boundary: routing, rate limits, CORS, and
// the translation of rich errors into JSON responses.
package server

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"

	auth "github.com/studiolane/campus-auth"
	"github.com/studiolane/campus-auth/course"
	"github.com/studiolane/campus-auth/dashboard"
	"github.com/studiolane/campus-auth/social"
)

// Config holds HTTP boundary options.
type Config struct {
	Port           int
	AllowedOrigins []string
	// DisableRateLimits turns the per-route limiters off, used in tests.
	DisableRateLimits bool
}

// Server owns the fiber app and its lifecycle.
type Server struct {
	app    *fiber.App
	config Config
	logger auth.Logger
}

// New builds the app and registers every route.
func New(
	cfg Config,
	svc *auth.AuthService,
	provider social.Provider,
	courses *course.Service,
	dashboards dashboard.Reader,
	logger auth.Logger,
) *Server {
	if logger == nil {
		logger = auth.DefaultLogger()
	}

	app := fiber.New(fiber.Config{
		AppName:      "campus-auth",
		ErrorHandler: NewErrorHandler(logger),
	})

	if len(cfg.AllowedOrigins) > 0 {
		app.Use(cors.New(cors.Config{
			AllowOrigins: strings.Join(cfg.AllowedOrigins, ","),
			AllowHeaders: "Origin, Content-Type, Accept, Authorization",
			AllowMethods: "GET, POST, PATCH, OPTIONS",
		}))
	}

	s := &Server{
		app:    app,
		config: cfg,
		logger: logger,
	}

	s.registerRoutes(svc, provider, courses, dashboards)

	return s
}

// App exposes the underlying fiber app, used by handler tests.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen starts serving and blocks until shutdown.
func (s *Server) Listen() error {
	return s.app.Listen(fmt.Sprintf(":%d", s.config.Port))
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown() error {
	return s.app.ShutdownWithTimeout(10 * time.Second)
}

func (s *Server) registerRoutes(
	svc *auth.AuthService,
	provider social.Provider,
	courses *course.Service,
	dashboards dashboard.Reader,
) {
	authController := NewAuthController(svc, provider, s.logger)
	courseController := NewCourseController(courses)
	dashboardController := NewDashboardController(dashboards)

	requireAuth := RequireAuth(svc)

	s.app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	authGroup := s.app.Group("/auth")
	authGroup.Post("/register", s.limit(3), authController.Register)
	authGroup.Get("/verify-email", s.limit(10), authController.VerifyEmail)
	authGroup.Post("/resend-verification-mail", s.limit(3), authController.ResendVerification)
	authGroup.Post("/login", s.limit(5), authController.Login)
	authGroup.Get("/profile", s.limit(30), requireAuth, authController.Profile)
	authGroup.Post("/logout", requireAuth, authController.Logout)
	authGroup.Patch("/onboarding-complete", requireAuth, authController.CompleteOnboarding)

	s.app.Post("/oauth/google", s.limit(5), authController.GoogleLogin)

	courseGroup := s.app.Group("/courses", s.limit(30))
	courseGroup.Get("/", courseController.List)
	courseGroup.Get("/category/:category", courseController.ListByCategory)
	courseGroup.Get("/:id", courseController.GetByID)

	s.app.Get("/dashboard/:userID", requireAuth, dashboardController.GetByOwner)
}

// limit builds a per-minute request limiter keyed by client IP.
func (s *Server) limit(perMinute int) fiber.Handler {
	if s.config.DisableRateLimits {
		return func(c *fiber.Ctx) error { return c.Next() }
	}

	return limiter.New(limiter.Config{
		Max:        perMinute,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"success": false,
				"error":   "too many requests",
			})
		},
	})
}
