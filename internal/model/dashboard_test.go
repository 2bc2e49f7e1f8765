package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestSummarize(t *testing.T) {
	p1, p2 := uuid.New(), uuid.New()
	rows := []Appointment{
		{PatientID: p1, Status: AppointmentStatusCompleted, PaymentAmount: 500},
		{PatientID: p1, Status: AppointmentStatusCompleted, PaymentAmount: 750},
		{PatientID: p2, Status: AppointmentStatusCancelled, PaymentAmount: 500},
		{PatientID: p2, Status: AppointmentStatusScheduled, PaymentAmount: 500},
	}

	stats := Summarize(rows)
	assert.Equal(t, 2, stats.Patients)
	assert.Equal(t, 4, stats.Appointments)
	assert.Equal(t, 1250.0, stats.Earnings)
}

func TestSummarizeCountsEveryDistinctPatient(t *testing.T) {
	rows := make([]Appointment, 0, 101)
	for i := 0; i < 101; i++ {
		rows = append(rows, Appointment{PatientID: uuid.New(), Status: AppointmentStatusScheduled})
	}
	stats := Summarize(rows)
	assert.Equal(t, 101, stats.Patients)
	assert.Equal(t, 0.0, stats.Earnings)
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, DashboardStats{}, Summarize(nil))
}
