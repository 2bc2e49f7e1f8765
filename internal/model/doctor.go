package model

import (
	"time"

	"github.com/google/uuid"
)

type Doctor struct {
	ID             uuid.UUID `db:"id" json:"id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	Bio            *string   `db:"bio" json:"bio,omitempty"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// DoctorProfile is what the settings page reads and writes.
type DoctorProfile struct {
	DoctorID       uuid.UUID `db:"doctor_id" json:"doctor_id"`
	UserID         uuid.UUID `db:"user_id" json:"user_id"`
	Name           string    `db:"name" json:"name"`
	Email          string    `db:"email" json:"email"`
	Phone          *string   `db:"phone" json:"phone,omitempty"`
	Specialization *string   `db:"specialization" json:"specialization,omitempty"`
	Bio            *string   `db:"bio" json:"bio,omitempty"`
}

type UpdateProfileInput struct {
	Name           *string `json:"name" validate:"omitempty,min=1,max=200"`
	Phone          *string `json:"phone" validate:"omitempty,max=32"`
	Specialization *string `json:"specialization" validate:"omitempty,max=200"`
	Bio            *string `json:"bio" validate:"omitempty,max=2000"`
}
