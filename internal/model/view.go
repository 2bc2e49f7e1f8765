package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	DisplayDateLayout  = "Jan 2, 2006"
	DisplayTimeLayout  = "15:04"
	UnknownPatientName = "Unknown Patient"
)

// AppointmentView is an appointment row prepared for the list and detail pages.
type AppointmentView struct {
	ID           uuid.UUID         `json:"id"`
	PatientID    uuid.UUID         `json:"patient_id"`
	PatientName  string            `json:"patient_name"`
	PatientEmail string            `json:"patient_email,omitempty"`
	PatientPhone string            `json:"patient_phone,omitempty"`
	Date         string            `json:"date"`
	Time         string            `json:"time"`
	Duration     string            `json:"duration"`
	Type         AppointmentMode   `json:"type"`
	Status       AppointmentStatus `json:"status"`
	Link         string            `json:"link,omitempty"`
	Payment      PaymentStatus     `json:"payment_status"`
	Amount       float64           `json:"payment_amount"`
	Notes        string            `json:"notes,omitempty"`
}

// FormatAppointment maps a joined appointment row to its display fields.
// Date and time are rendered in loc, the zone appointments are booked in.
// A nil loc keeps the start time's own location.
func FormatAppointment(d AppointmentDetail, loc *time.Location) AppointmentView {
	start := d.StartTime
	if loc != nil {
		start = start.In(loc)
	}
	v := AppointmentView{
		ID:          d.ID,
		PatientID:   d.PatientID,
		PatientName: UnknownPatientName,
		Date:        start.Format(DisplayDateLayout),
		Time:        start.Format(DisplayTimeLayout),
		Duration:    durationLabel(d.Appointment),
		Type:        d.Mode,
		Status:      d.Status,
		Payment:     d.PaymentStatus,
		Amount:      d.PaymentAmount,
	}
	if d.PatientName != nil && strings.TrimSpace(*d.PatientName) != "" {
		v.PatientName = *d.PatientName
	}
	if d.PatientEmail != nil {
		v.PatientEmail = *d.PatientEmail
	}
	if d.PatientPhone != nil {
		v.PatientPhone = *d.PatientPhone
	}
	if v.Type == "" {
		v.Type = AppointmentModeOnline
	}
	if v.Status == "" {
		v.Status = AppointmentStatusScheduled
	}
	if d.MeetLink != nil && v.Type == AppointmentModeOnline {
		v.Link = *d.MeetLink
	}
	if d.Notes != nil {
		v.Notes = *d.Notes
	}
	return v
}

func FormatAppointments(rows []AppointmentDetail, loc *time.Location) []AppointmentView {
	views := make([]AppointmentView, 0, len(rows))
	for _, r := range rows {
		views = append(views, FormatAppointment(r, loc))
	}
	return views
}

func durationLabel(a Appointment) string {
	if a.StartTime.IsZero() || !a.EndTime.After(a.StartTime) {
		return fmt.Sprintf("%d min", int(ConsultationDuration.Minutes()))
	}
	return fmt.Sprintf("%d min", int(a.EndTime.Sub(a.StartTime).Minutes()))
}

type AppointmentTab string

const (
	TabAll       AppointmentTab = "all"
	TabUpcoming  AppointmentTab = "upcoming"
	TabCompleted AppointmentTab = "completed"
	TabCancelled AppointmentTab = "cancelled"
)

// Matches reports whether a status belongs on the given list tab.
func (t AppointmentTab) Matches(s AppointmentStatus) bool {
	switch t {
	case TabUpcoming:
		return s == AppointmentStatusScheduled || s == AppointmentStatusConfirmed
	case TabCompleted:
		return s == AppointmentStatusCompleted
	case TabCancelled:
		return s == AppointmentStatusCancelled
	default:
		return true
	}
}

// FilterViews keeps views on tab whose patient name contains search,
// case-insensitively. An empty search matches everything.
func FilterViews(views []AppointmentView, tab AppointmentTab, search string) []AppointmentView {
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]AppointmentView, 0, len(views))
	for _, v := range views {
		if !tab.Matches(v.Status) {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(v.PatientName), search) {
			continue
		}
		out = append(out, v)
	}
	return out
}
