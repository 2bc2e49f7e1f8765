package model

import (
	"time"

	"github.com/google/uuid"
)

type Caregiver struct {
	ID              uuid.UUID `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	Type            *string   `db:"type" json:"type"`
	Specialization  *string   `db:"specialization" json:"specialization"`
	Rating          float64   `db:"rating" json:"rating"`
	ExperienceYears int       `db:"experience_years" json:"experience_years"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	IsVerified      bool      `db:"is_verified" json:"is_verified"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
