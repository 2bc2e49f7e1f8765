package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed AppointmentStatus = "confirmed"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusScheduled, AppointmentStatusConfirmed, AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

// Terminal reports whether no further lifecycle step is expected.
func (s AppointmentStatus) Terminal() bool {
	return s == AppointmentStatusCancelled || s == AppointmentStatusCompleted
}

type AppointmentMode string

const (
	AppointmentModeOnline   AppointmentMode = "Online"
	AppointmentModeInPerson AppointmentMode = "In-Person"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
)

const (
	// ConsultationDuration is fixed for every appointment.
	ConsultationDuration = 30 * time.Minute
	// DefaultConsultationFee is attached to every new appointment.
	DefaultConsultationFee = 500.0
)

// allowedTransitions lists, per status, the statuses a direct mutation may move to.
var allowedTransitions = map[AppointmentStatus][]AppointmentStatus{
	AppointmentStatusScheduled: {AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusConfirmed: {AppointmentStatusConfirmed, AppointmentStatusCompleted, AppointmentStatusCancelled},
	AppointmentStatusCancelled: {AppointmentStatusCancelled},
	AppointmentStatusCompleted: {},
}

// CanTransition reports whether from -> to is in the transition table.
func CanTransition(from, to AppointmentStatus) bool {
	for _, s := range allowedTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

type Appointment struct {
	ID            uuid.UUID         `db:"id" json:"id"`
	DoctorID      uuid.UUID         `db:"doctor_id" json:"doctor_id"`
	PatientID     uuid.UUID         `db:"patient_id" json:"patient_id"`
	StartTime     time.Time         `db:"start_time" json:"start_time"`
	EndTime       time.Time         `db:"end_time" json:"end_time"`
	ScheduledDate *string           `db:"scheduled_date" json:"scheduled_date,omitempty"`
	ScheduledTime *string           `db:"scheduled_time" json:"scheduled_time,omitempty"`
	Status        AppointmentStatus `db:"status" json:"status"`
	Mode          AppointmentMode   `db:"mode" json:"mode"`
	MeetLink      *string           `db:"meet_link" json:"meet_link,omitempty"`
	PaymentStatus PaymentStatus     `db:"payment_status" json:"payment_status"`
	PaymentAmount float64           `db:"payment_amount" json:"payment_amount"`
	Notes         *string           `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time         `db:"updated_at" json:"updated_at"`
}

// AppointmentDetail is an appointment joined with its patient's identity
// and demographics.
type AppointmentDetail struct {
	Appointment
	PatientName       *string    `db:"patient_name" json:"patient_name,omitempty"`
	PatientEmail      *string    `db:"patient_email" json:"patient_email,omitempty"`
	PatientPhone      *string    `db:"patient_phone" json:"patient_phone,omitempty"`
	PatientDOB        *time.Time `db:"patient_dob" json:"patient_dob,omitempty"`
	PatientGender     *string    `db:"patient_gender" json:"patient_gender,omitempty"`
	PatientBloodGroup *string    `db:"patient_blood_group" json:"patient_blood_group,omitempty"`
}

// CreateAppointmentInput is the form submitted by the new-appointment page.
type CreateAppointmentInput struct {
	PatientID uuid.UUID       `json:"patient_id" validate:"required"`
	Date      string          `json:"date" validate:"required,isodate"`
	Time      string          `json:"time" validate:"required,clock"`
	Mode      AppointmentMode `json:"mode" validate:"required,oneof=Online In-Person"`
	MeetLink  string          `json:"meet_link" validate:"omitempty,url"`
}

type RescheduleInput struct {
	Date string `json:"date" validate:"required,isodate"`
	Time string `json:"time" validate:"required,clock"`
}

type UpdateNotesInput struct {
	Notes string `json:"notes" validate:"max=5000"`
}

// AppointmentFilters narrows a list query. A nil DoctorID means unscoped.
// StartBefore is exclusive.
type AppointmentFilters struct {
	DoctorID    *uuid.UUID
	Status      []AppointmentStatus
	StartFrom   *time.Time
	StartBefore *time.Time
	Limit       int
}

// ParseSlot combines a YYYY-MM-DD date and HH:MM time in loc into the
// start and end of a consultation slot.
func ParseSlot(date, clock string, loc *time.Location) (time.Time, time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+clock, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid date/time %q %q: %w", date, clock, err)
	}
	return start, start.Add(ConsultationDuration), nil
}
