package model

import "github.com/google/uuid"

type DashboardStats struct {
	Patients     int     `db:"patients" json:"patients"`
	Appointments int     `db:"appointments" json:"appointments"`
	Earnings     float64 `db:"earnings" json:"earnings"`
}

// Summarize computes dashboard counters over rows already in memory:
// distinct patients, row count, and the sum of completed payments.
func Summarize(rows []Appointment) DashboardStats {
	patients := make(map[uuid.UUID]struct{}, len(rows))
	var stats DashboardStats
	for _, a := range rows {
		patients[a.PatientID] = struct{}{}
		if a.Status == AppointmentStatusCompleted {
			stats.Earnings += a.PaymentAmount
		}
	}
	stats.Patients = len(patients)
	stats.Appointments = len(rows)
	return stats
}

type Dashboard struct {
	Stats    DashboardStats    `json:"stats"`
	Upcoming []AppointmentView `json:"upcoming"`
	Demo     bool              `json:"demo"`
}
