// Package auth implements the account subsystem for the campus platform:
// registration with email verification, credential and Google OAuth login,
// a per-user session registry with selective revocation, and onboarding
// state.
//
// The package is storage-backed by bun and issues HMAC signed JWTs. Two
// token shapes exist: verification tokens carry only a subject and
// authorize the one-time unverified to verified transition; access tokens
// additionally carry a session id and are only honored while the matching
// registry entry is live. Removing the entry revokes the session without
// waiting for token expiry.
package auth
