// Package course exposes the read-mostly course catalog.
package course

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	DefaultTutor       = "Olude"
	DefaultPrice       = 200000
	DefaultDuration    = "12 weeks"
	DefaultMaxStudents = 10
	DefaultLanguage    = "english"
)

type Course struct {
	bun.BaseModel `bun:"table:courses,alias:c"`

	ID          uuid.UUID `bun:"id,pk,notnull" json:"id"`
	Title       string    `bun:"title,notnull" json:"title"`
	Description string    `bun:"description" json:"description"`
	Category    string    `bun:"category,notnull" json:"category"`
	Tutor       string    `bun:"tutor,notnull" json:"tutor"`
	Price       int       `bun:"price,notnull" json:"price"`
	Duration    string    `bun:"duration,notnull" json:"duration"`
	MaxStudents int       `bun:"max_students,notnull" json:"max_students"`
	Language    string    `bun:"language,notnull" json:"language"`
	Available   bool      `bun:"available,notnull,default:true" json:"available"`

	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,notnull,default:current_timestamp" json:"updated_at"`
}

// ApplyDefaults fills unset catalog fields with house defaults.
func (c *Course) ApplyDefaults() {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Tutor == "" {
		c.Tutor = DefaultTutor
	}
	if c.Price == 0 {
		c.Price = DefaultPrice
	}
	if c.Duration == "" {
		c.Duration = DefaultDuration
	}
	if c.MaxStudents == 0 {
		c.MaxStudents = DefaultMaxStudents
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	// The fixture format has no unavailable state; courses are unlisted
	// through updates after creation.
	c.Available = true
}
