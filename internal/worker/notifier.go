package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/email"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/repository"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/event"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/metrics"
)

// Notifier emails patients about changes to their appointments.
type Notifier struct {
	patients repository.PatientRepository
	mailer   email.Service
	metrics  *metrics.Metrics
	loc      *time.Location
}

func NewNotifier(patients repository.PatientRepository, mailer email.Service, m *metrics.Metrics, loc *time.Location) *Notifier {
	if loc == nil {
		loc = time.UTC
	}
	return &Notifier{patients: patients, mailer: mailer, metrics: m, loc: loc}
}

// Handle processes one broker payload. Completed appointments and patients
// without an email address are skipped.
func (n *Notifier) Handle(ctx context.Context, payload []byte) error {
	var evt event.AppointmentEvent
	if err := json.Unmarshal(payload, &evt); err != nil {
		return fmt.Errorf("failed to decode appointment event: %w", err)
	}

	subject, ok := subjects[evt.Type]
	if !ok {
		return nil
	}

	patient, err := n.patients.Get(ctx, evt.PatientID)
	if err != nil {
		return fmt.Errorf("failed to load patient %s: %w", evt.PatientID, err)
	}
	if patient.Email == "" {
		log.Debug().Str("patient_id", patient.ID.String()).Msg("patient has no email, skipping notification")
		return nil
	}

	timer := prometheus.NewTimer(n.metrics.NotificationLatency)
	defer timer.ObserveDuration()

	if err := n.mailer.Send(ctx, patient.Email, subject, n.body(patient, &evt)); err != nil {
		n.metrics.NotificationsFailed.WithLabelValues(string(evt.Type)).Inc()
		return err
	}
	n.metrics.NotificationsSent.WithLabelValues(string(evt.Type)).Inc()

	log.Info().
		Str("event_type", string(evt.Type)).
		Str("appointment_id", evt.AppointmentID.String()).
		Msg("notification sent")
	return nil
}

var subjects = map[event.EventType]string{
	event.AppointmentCreated:     "Your appointment is booked",
	event.AppointmentRescheduled: "Your appointment has been rescheduled",
	event.AppointmentCancelled:   "Your appointment has been cancelled",
}

func (n *Notifier) body(p *model.Patient, evt *event.AppointmentEvent) string {
	name := p.Name
	if name == "" {
		name = "Patient"
	}
	start := evt.StartTime.In(n.loc)
	when := fmt.Sprintf("%s at %s", start.Format(model.DisplayDateLayout), start.Format(model.DisplayTimeLayout))

	switch evt.Type {
	case event.AppointmentCancelled:
		return fmt.Sprintf("Dear %s,\n\nYour appointment on %s has been cancelled.\n", name, when)
	case event.AppointmentRescheduled:
		return fmt.Sprintf("Dear %s,\n\nYour appointment has been moved to %s.%s\n", name, when, linkLine(evt))
	default:
		return fmt.Sprintf("Dear %s,\n\nYour %s appointment is booked for %s.%s\n", name, evt.Mode, when, linkLine(evt))
	}
}

func linkLine(evt *event.AppointmentEvent) string {
	if evt.MeetLink == "" {
		return ""
	}
	return "\nJoin online: " + evt.MeetLink
}
