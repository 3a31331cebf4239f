package auth

import (
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the payload carried by every token this package issues.
//
// Verification tokens hold only the subject. Access tokens additionally
// carry the session id, which is what ties the token to a live registry
// entry and makes revocation possible without a blocklist.
type TokenClaims struct {
	jwt.RegisteredClaims
	SessionID string `json:"sid,omitempty"`
}

// UserID returns the subject claim.
func (c *TokenClaims) UserID() string {
	return c.Subject
}

// IsAccessToken reports whether the claims carry a session id.
func (c *TokenClaims) IsAccessToken() bool {
	return c.SessionID != ""
}
