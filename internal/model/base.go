package model

import (
	"github.com/google/uuid"
)

// Identity is the resolved caller for a request. Demo identities may only
// read. A demo identity without Sandbox is the first-doctor fallback used
// when no sandbox doctor is configured.
type Identity struct {
	UserID   *uuid.UUID `json:"user_id,omitempty"`
	DoctorID *uuid.UUID `json:"doctor_id,omitempty"`
	Demo     bool       `json:"demo"`
	Sandbox  bool       `json:"-"`
}

// ListScope returns the doctor that list queries are limited to. The
// first-doctor fallback lists across all doctors, so it returns nil.
func (i Identity) ListScope() *uuid.UUID {
	if i.Demo && !i.Sandbox {
		return nil
	}
	return i.DoctorID
}

// Owns reports whether the identity may see records of doctorID.
func (i Identity) Owns(doctorID uuid.UUID) bool {
	scope := i.ListScope()
	return (scope == nil && i.Demo) || (scope != nil && *scope == doctorID)
}

// Pagination represents common pagination parameters
type Pagination struct {
	Limit int `json:"limit" form:"limit"`
}
