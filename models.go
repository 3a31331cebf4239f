package auth

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// DeviceClass is the coarse device bucket recorded on each session entry.
type DeviceClass string

const (
	DeviceMobile  DeviceClass = "mobile"
	DeviceTablet  DeviceClass = "tablet"
	DeviceDesktop DeviceClass = "desktop"
	DeviceUnknown DeviceClass = "unknown"
)

// SessionEntry is one live login recorded in a user's session registry.
// Entries are pruned lazily, an expired entry may linger until the next
// registry write.
type SessionEntry struct {
	ID        string      `json:"id"`
	ExpiresAt time.Time   `json:"expires_at"`
	Device    DeviceClass `json:"device"`
}

// User is the account record. The session registry is stored as a JSON
// array alongside the account fields so every registry mutation rides the
// same row update as the account change that caused it.
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID                     uuid.UUID      `bun:"id,pk,notnull" json:"id"`
	FullName               string         `bun:"full_name,notnull" json:"full_name"`
	Email                  string         `bun:"email,notnull,unique" json:"email"`
	PasswordHash           string         `bun:"password_hash,notnull" json:"-"`
	IsVerified             bool           `bun:"is_verified,notnull,default:false" json:"is_verified"`
	HasCompletedOnboarding bool           `bun:"has_completed_onboarding,notnull,default:false" json:"has_completed_onboarding"`
	Sessions               []SessionEntry `bun:"active_sessions,type:jsonb,nullzero" json:"-"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// Profile is the canonical outward projection of an account. It never
// carries credentials or the session registry.
type Profile struct {
	ID                     string `json:"id"`
	FullName               string `json:"full_name"`
	Email                  string `json:"email"`
	IsVerified             bool   `json:"is_verified"`
	HasCompletedOnboarding bool   `json:"has_completed_onboarding"`
}

// Profile projects the account into its public shape.
func (u *User) Profile() Profile {
	return Profile{
		ID:                     u.ID.String(),
		FullName:               u.FullName,
		Email:                  u.Email,
		IsVerified:             u.IsVerified,
		HasCompletedOnboarding: u.HasCompletedOnboarding,
	}
}
