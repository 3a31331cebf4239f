package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	auth "github.com/studiolane/campus-auth"
)

const (
	localsUser    = "auth_user"
	localsSession = "auth_session_id"
)

// RequireAuth resolves the Authorization bearer token to an account with a
// live session and stashes both in the request locals. Only the
// Authorization header is consulted.
func RequireAuth(svc *auth.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw := bearerToken(c.Get(fiber.HeaderAuthorization))
		if raw == "" {
			return auth.ErrUnauthenticated
		}

		user, sessionID, err := svc.Authenticate(c.Context(), raw)
		if err != nil {
			return err
		}

		c.Locals(localsUser, user)
		c.Locals(localsSession, sessionID)

		return c.Next()
	}
}

// CurrentUser returns the account stashed by RequireAuth.
func CurrentUser(c *fiber.Ctx) (*auth.User, bool) {
	user, ok := c.Locals(localsUser).(*auth.User)
	return user, ok && user != nil
}

// CurrentSessionID returns the session id stashed by RequireAuth.
func CurrentSessionID(c *fiber.Ctx) string {
	sessionID, _ := c.Locals(localsSession).(string)
	return sessionID
}

func bearerToken(header string) string {
	if header == "" {
		return ""
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}
