// Package dashboard holds the per-user workspace provisioned when an
// account becomes verified. Every verified account owns exactly one.
package dashboard

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Dashboard struct {
	bun.BaseModel `bun:"table:dashboards,alias:d"`

	ID                uuid.UUID   `bun:"id,pk,notnull" json:"id"`
	UserID            uuid.UUID   `bun:"user_id,notnull,unique" json:"user_id"`
	EnrolledCourseIDs []uuid.UUID `bun:"enrolled_course_ids,type:jsonb,nullzero" json:"enrolled_course_ids"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}
