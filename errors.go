package auth

import (
	"github.com/goliatone/go-errors"
)

const (
	TextCodeDuplicateEmail     = "DUPLICATE_EMAIL"
	TextCodeInvalidCredentials = "INVALID_CREDENTIALS"
	TextCodeEmailNotVerified   = "EMAIL_NOT_VERIFIED"
	TextCodeInvalidToken       = "INVALID_TOKEN"
	TextCodeUserNotFound       = "USER_NOT_FOUND"
	TextCodeSessionRevoked     = "SESSION_REVOKED"
	TextCodeUnauthenticated    = "UNAUTHENTICATED"
	TextCodeIncompleteProfile  = "INCOMPLETE_OAUTH_PROFILE"
	TextCodeExchangeFailed     = "OAUTH_EXCHANGE_FAILED"
	TextCodeDeliveryFailed     = "EMAIL_DELIVERY_FAILED"
	TextCodeEmptyPassword      = "EMPTY_PASSWORD"
)

// ErrDuplicateEmail is returned when registering an email that already exists.
var ErrDuplicateEmail = errors.New("e-mail is already registered", errors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(errors.CodeConflict)

// ErrInvalidCredentials is returned on login when either the email is unknown
// or the password does not match. The message is identical for both cases so
// callers cannot tell which accounts exist.
var ErrInvalidCredentials = errors.New("invalid email or password", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(errors.CodeUnauthorized)

// ErrEmailNotVerified is returned when a password login hits an account that
// has not completed email verification.
var ErrEmailNotVerified = errors.New("email not verified, a new verification link has been sent", errors.CategoryAuthz).
	WithTextCode(TextCodeEmailNotVerified).
	WithCode(errors.CodeForbidden)

// ErrInvalidToken covers signature failures, malformed payloads, and expired
// tokens. The cases deliberately collapse into one kind.
var ErrInvalidToken = errors.New("invalid or expired token", errors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(errors.CodeUnauthorized)

// ErrUserNotFound is returned when a token subject or lookup email does not
// resolve to a stored user.
var ErrUserNotFound = errors.New("user not found", errors.CategoryNotFound).
	WithTextCode(TextCodeUserNotFound).
	WithCode(errors.CodeNotFound)

// ErrSessionRevoked is returned when an access token is cryptographically
// valid but its session entry is gone from the registry.
var ErrSessionRevoked = errors.New("session has been revoked", errors.CategoryAuth).
	WithTextCode(TextCodeSessionRevoked).
	WithCode(errors.CodeUnauthorized)

// ErrUnauthenticated is returned by operations that require a resolved user
// context when none is present.
var ErrUnauthenticated = errors.New("authentication required", errors.CategoryAuth).
	WithTextCode(TextCodeUnauthenticated).
	WithCode(errors.CodeUnauthorized)

// ErrIncompleteOAuthProfile is returned when the provider profile lacks an
// email or a subject id.
var ErrIncompleteOAuthProfile = errors.New("incomplete user info from provider", errors.CategoryBadInput).
	WithTextCode(TextCodeIncompleteProfile).
	WithCode(errors.CodeBadRequest)

// ErrOAuthExchangeFailed is returned when the authorization code exchange or
// the user-info fetch fails.
var ErrOAuthExchangeFailed = errors.New("failed to obtain access token from provider", errors.CategoryAuth).
	WithTextCode(TextCodeExchangeFailed).
	WithCode(errors.CodeUnauthorized)

// ErrEmailDeliveryFailed is surfaced only by ResendVerification; register and
// login swallow delivery failures by policy.
var ErrEmailDeliveryFailed = errors.New("failed to send verification email", errors.CategoryInternal).
	WithTextCode(TextCodeDeliveryFailed).
	WithCode(errors.CodeInternal)

// ErrNoEmptyString rejects empty plaintext before hashing.
var ErrNoEmptyString = errors.New("password must not be empty", errors.CategoryValidation).
	WithTextCode(TextCodeEmptyPassword).
	WithCode(errors.CodeBadRequest)
