package auth

import (
	"context"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-repository-bun"
	"github.com/goliatone/hashid/pkg/hashid"
	"github.com/uptrace/bun"

	"github.com/studiolane/campus-auth/social"
)

// LoginWithProvider exchanges an authorization code with an OAuth provider
// and opens a session for the matching account, creating the account on
// first sight. The account's verified status follows the provider's
// email_verified flag; a verified account never drops back to unverified
// through this path. Accounts created here carry a sentinel password hash
// that can never match a credential login.
func (s *AuthService) LoginWithProvider(ctx context.Context, provider social.Provider, code string, device DeviceClass) (*LoginResult, error) {
	if provider == nil {
		return nil, goerrors.New("no oauth provider configured", goerrors.CategoryInternal)
	}

	token, err := provider.Exchange(ctx, code)
	if err != nil {
		s.logger.Error("%s code exchange failed: %v", provider.Name(), err)
		return nil, ErrOAuthExchangeFailed
	}

	profile, err := provider.UserInfo(ctx, token)
	if err != nil {
		s.logger.Error("%s userinfo fetch failed: %v", provider.Name(), err)
		return nil, ErrOAuthExchangeFailed
	}

	if profile == nil || profile.Email == "" || profile.ProviderUserID == "" {
		return nil, ErrIncompleteOAuthProfile
	}

	email := NormalizeEmail(profile.Email)
	fullName := NormalizeName(profile.Name)
	if fullName == "" {
		fullName = NormalizeName(profile.GivenName + " " + profile.FamilyName)
	}

	ctx, cancel := context.WithTimeout(ctx, time.Second*10)
	defer cancel()

	var userID string
	err = s.tx.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		user, err := s.users.GetByEmailTx(ctx, tx, email)
		if err != nil {
			if !repository.IsRecordNotFound(err) {
				return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to load account")
			}

			user = &User{
				FullName:     fullName,
				Email:        email,
				PasswordHash: OAuthPasswordSentinel,
				IsVerified:   profile.EmailVerified,
			}
			if id, err := hashid.NewUUID(email); err == nil {
				user.ID = id
			}

			if user, err = s.users.RegisterTx(ctx, tx, user); err != nil {
				return goerrors.Wrap(err, goerrors.CategoryConflict, "could not create user")
			}

			if user.IsVerified && s.dashboards != nil {
				if err := s.dashboards.CreateForUserTx(ctx, tx, user.ID); err != nil {
					return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to provision dashboard")
				}
			}

			userID = user.ID.String()
			return nil
		}

		if !user.IsVerified && profile.EmailVerified {
			user.IsVerified = true
			if s.dashboards != nil {
				if err := s.dashboards.CreateForUserTx(ctx, tx, user.ID); err != nil {
					return goerrors.Wrap(err, goerrors.CategoryInternal, "failed to provision dashboard")
				}
			}
			if _, err := s.users.SaveTx(ctx, tx, user); err != nil {
				return err
			}
		}

		userID = user.ID.String()
		return nil
	})

	if err != nil {
		var richErr *goerrors.Error
		if goerrors.As(err, &richErr) {
			return nil, richErr
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "oauth login transaction failed")
	}

	return s.openSession(ctx, userID, device)
}
