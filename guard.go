package auth

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
)

// Authenticate resolves a raw bearer token to its account and session. A
// token that verifies but points at a removed or expired session entry is
// rejected: deleting the entry is how a session is revoked before the token
// itself expires.
func (s *AuthService) Authenticate(ctx context.Context, rawToken string) (*User, string, error) {
	claims, err := s.tokens.Validate(rawToken)
	if err != nil {
		return nil, "", err
	}

	if !claims.IsAccessToken() {
		return nil, "", ErrInvalidToken
	}

	user, err := s.users.ByID(ctx, claims.UserID())
	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account")
	}

	if !user.LiveSession(claims.SessionID, s.now()) {
		return nil, "", ErrSessionRevoked
	}

	return user, claims.SessionID, nil
}
