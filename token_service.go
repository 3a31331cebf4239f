package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/goliatone/go-errors"
)

// TokenService signs and verifies the compact bearer tokens used across the
// auth flows. The signing key and method are process wide; rotating either
// invalidates every outstanding token, which is the accepted revocation story
// for verification tokens.
type TokenService struct {
	signingKey      []byte
	signingMethod   jwt.SigningMethod
	accessTTL       time.Duration
	verificationTTL time.Duration
	issuer          string
	logger          Logger
	now             func() time.Time
}

// NewTokenService creates a TokenService from the runtime configuration.
// Only HMAC methods are accepted; anything else falls back to HS256.
func NewTokenService(cfg Config, logger Logger) *TokenService {
	if logger == nil {
		logger = defLogger{}
	}

	method := jwt.GetSigningMethod(cfg.SigningMethod)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		if cfg.SigningMethod != "" {
			logger.Error("unsupported signing method %q, using HS256", cfg.SigningMethod)
		}
		method = jwt.SigningMethodHS256
	}

	verificationTTL := cfg.VerificationTokenTTL()
	if verificationTTL == 0 {
		verificationTTL = cfg.AccessTokenTTL()
	}

	return &TokenService{
		signingKey:      []byte(cfg.SigningKey),
		signingMethod:   method,
		accessTTL:       cfg.AccessTokenTTL(),
		verificationTTL: verificationTTL,
		issuer:          cfg.Issuer,
		logger:          logger,
		now:             time.Now,
	}
}

// WithClock overrides the time source, useful for expiry tests.
func (ts *TokenService) WithClock(clock func() time.Time) *TokenService {
	if clock != nil {
		ts.now = clock
	}
	return ts
}

// AccessTTL returns the configured access token lifetime.
func (ts *TokenService) AccessTTL() time.Duration {
	return ts.accessTTL
}

// IssueAccessToken signs a token bound to a single session entry. The
// returned expiry matches the session entry recorded in the registry.
func (ts *TokenService) IssueAccessToken(userID, sessionID string) (string, time.Time, error) {
	if sessionID == "" {
		return "", time.Time{}, errors.New("access token requires a session id", errors.CategoryInternal)
	}

	expiresAt := ts.now().Add(ts.accessTTL)
	token, err := ts.sign(&TokenClaims{
		RegisteredClaims: ts.registered(userID, expiresAt),
		SessionID:        sessionID,
	})
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// IssueVerificationToken signs a subject-only token authorizing the one-time
// unverified to verified transition.
func (ts *TokenService) IssueVerificationToken(userID string) (string, error) {
	expiresAt := ts.now().Add(ts.verificationTTL)
	return ts.sign(&TokenClaims{
		RegisteredClaims: ts.registered(userID, expiresAt),
	})
}

// Validate parses and verifies a raw token. Tampered, malformed, and expired
// tokens all collapse into ErrInvalidToken; the distinction is logged but not
// surfaced to callers.
func (ts *TokenService) Validate(raw string) (*TokenClaims, error) {
	parserOptions := make([]jwt.ParserOption, 0, 2)
	parserOptions = append(parserOptions, jwt.WithTimeFunc(ts.now))
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(raw, &TokenClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("token validate encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			ts.logger.Debug("token validation failed, token expired")
		} else {
			ts.logger.Debug("token validation failed: %v", err)
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*TokenClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		ts.logger.Error("token validate could not decode claims")
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (ts *TokenService) sign(claims *TokenClaims) (string, error) {
	token := jwt.NewWithClaims(ts.signingMethod, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", errors.Wrap(err, errors.CategoryInternal, "failed to sign token")
	}

	return signed, nil
}

func (ts *TokenService) registered(userID string, expiresAt time.Time) jwt.RegisteredClaims {
	now := ts.now()
	return jwt.RegisteredClaims{
		Issuer:    ts.issuer,
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}
}
