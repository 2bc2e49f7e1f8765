package event

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentChannel is the broker channel carrying appointment lifecycle events.
const AppointmentChannel = "appointments"

type EventType string

const (
	AppointmentCreated     EventType = "appointment.created"
	AppointmentRescheduled EventType = "appointment.rescheduled"
	AppointmentCancelled   EventType = "appointment.cancelled"
	AppointmentCompleted   EventType = "appointment.completed"
)

// AppointmentEvent is the wire payload published after a successful mutation.
type AppointmentEvent struct {
	ID            uuid.UUID `json:"id"`
	Type          EventType `json:"type"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	DoctorID      uuid.UUID `json:"doctor_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	Status        string    `json:"status"`
	Mode          string    `json:"mode"`
	MeetLink      string    `json:"meet_link,omitempty"`
	StartTime     time.Time `json:"start_time"`
	EndTime       time.Time `json:"end_time"`
	OccurredAt    time.Time `json:"occurred_at"`
}
