// Package social defines the contract between the auth service and OAuth2
// identity providers used for one-shot code exchange logins.
package social

import (
	"context"
	"time"
)

// Provider is an OAuth2 identity provider the auth service can log users
// in through. The flow is client-driven: the frontend obtains the
// authorization code and the backend exchanges it server side.
type Provider interface {
	// Name returns the provider identifier (e.g., "google").
	Name() string

	// Exchange trades an authorization code for an access token.
	Exchange(ctx context.Context, code string) (*Token, error)

	// UserInfo fetches the user's profile using the access token.
	UserInfo(ctx context.Context, token *Token) (*Profile, error)
}

// Token represents an OAuth2 token response.
type Token struct {
	AccessToken string
	TokenType   string
	ExpiresAt   time.Time
	Scopes      []string
	Raw         map[string]any
}

// Profile represents normalized user information from a provider.
type Profile struct {
	ProviderUserID string
	Provider       string
	Email          string
	EmailVerified  bool
	Name           string
	GivenName      string
	FamilyName     string
	AvatarURL      string
	Raw            map[string]any
}
