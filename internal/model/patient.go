package model

import (
	"time"

	"github.com/google/uuid"
)

// Patient carries demographics plus the identity shared with the account system.
type Patient struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	UserID     uuid.UUID  `db:"user_id" json:"user_id"`
	DOB        *time.Time `db:"dob" json:"dob,omitempty"`
	Gender     *string    `db:"gender" json:"gender,omitempty"`
	BloodGroup *string    `db:"blood_group" json:"blood_group,omitempty"`
	Name       string     `db:"name" json:"name"`
	Email      string     `db:"email" json:"email"`
	Phone      *string    `db:"phone" json:"phone,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

type PatientFilters struct {
	Search string
	Limit  int
}
