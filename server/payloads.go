package server

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// RegisterPayload holds values for account registration.
type RegisterPayload struct {
	FullName string `form:"full_name" json:"full_name"`
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FullName, validation.Required, validation.Length(1, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password, validation.Required, validation.Length(8, 100)),
	)
}

// LoginPayload holds values for credential login.
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// ResendPayload holds values for a verification mail resend.
type ResendPayload struct {
	Email string `form:"email" json:"email"`
}

// Validate will run validation rules
func (r ResendPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
	)
}

// LogoutPayload optionally names the session to revoke. The default is the
// session presented in the Authorization header; All revokes every session.
type LogoutPayload struct {
	SessionID string `form:"session_id" json:"session_id"`
	All       bool   `form:"all" json:"all"`
}

// OAuthPayload carries the provider authorization code.
type OAuthPayload struct {
	Code string `form:"code" json:"code"`
}

// Validate will run validation rules
func (r OAuthPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Code, validation.Required),
	)
}
