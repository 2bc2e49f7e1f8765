package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/rs/zerolog/log"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/email"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/repository"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/metrics"
)

const reminderLabel = "appointment.reminder"

type ReminderConfig struct {
	// Lead is how far ahead of the start time the reminder goes out.
	Lead time.Duration
	// Interval is the sweep period, in whole minutes.
	Interval time.Duration
}

// Reminder emails patients ahead of scheduled and confirmed appointments.
// Consecutive sweeps cover adjacent windows, so each appointment is
// reminded at most once per process.
type Reminder struct {
	appointments repository.AppointmentRepository
	mailer       email.Service
	metrics      *metrics.Metrics
	loc          *time.Location
	cfg          ReminderConfig
	now          func() time.Time

	mu     sync.Mutex
	cursor time.Time
}

func NewReminder(appointments repository.AppointmentRepository, mailer email.Service, m *metrics.Metrics,
	loc *time.Location, cfg ReminderConfig) *Reminder {
	if loc == nil {
		loc = time.UTC
	}
	if cfg.Lead <= 0 {
		cfg.Lead = 24 * time.Hour
	}
	if cfg.Interval < time.Minute {
		cfg.Interval = 15 * time.Minute
	}
	return &Reminder{
		appointments: appointments,
		mailer:       mailer,
		metrics:      m,
		loc:          loc,
		cfg:          cfg,
		now:          time.Now,
	}
}

// Schedule runs Sweep every interval until the returned scheduler is stopped.
func (r *Reminder) Schedule(ctx context.Context) (*gocron.Scheduler, error) {
	s := gocron.NewScheduler(r.loc)
	_, err := s.Every(int(r.cfg.Interval / time.Minute)).Minutes().Do(func() {
		if _, err := r.Sweep(ctx); err != nil {
			log.Error().Err(err).Msg("appointment reminder sweep failed")
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule reminders: %w", err)
	}
	s.StartAsync()
	log.Info().Dur("interval", r.cfg.Interval).Dur("lead", r.cfg.Lead).Msg("appointment reminders scheduled")
	return s, nil
}

// Sweep reminds every appointment starting in the window after the previous
// sweep's window and returns how many emails were sent.
func (r *Reminder) Sweep(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	to := r.now().Add(r.cfg.Lead + r.cfg.Interval)
	from := r.cursor
	if from.IsZero() || from.After(to) {
		from = to.Add(-r.cfg.Interval)
	}

	rows, err := r.appointments.List(ctx, &model.AppointmentFilters{
		Status:      []model.AppointmentStatus{model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed},
		StartFrom:   &from,
		StartBefore: &to,
	})
	if err != nil {
		return 0, err
	}
	r.cursor = to

	sent := 0
	for _, row := range rows {
		if row.PatientEmail == nil || *row.PatientEmail == "" {
			continue
		}
		if err := r.mailer.Send(ctx, *row.PatientEmail, "Appointment reminder", r.body(row)); err != nil {
			r.metrics.NotificationsFailed.WithLabelValues(reminderLabel).Inc()
			log.Warn().Err(err).Str("appointment_id", row.ID.String()).Msg("failed to send reminder")
			continue
		}
		r.metrics.NotificationsSent.WithLabelValues(reminderLabel).Inc()
		sent++
	}
	return sent, nil
}

func (r *Reminder) body(row model.AppointmentDetail) string {
	view := model.FormatAppointment(row, r.loc)
	name := view.PatientName
	if name == model.UnknownPatientName {
		name = "Patient"
	}
	start := row.StartTime.In(r.loc)
	msg := fmt.Sprintf("Dear %s,\n\nThis is a reminder of your %s appointment on %s at %s.\n",
		name, view.Type, start.Format(model.DisplayDateLayout), start.Format(model.DisplayTimeLayout))
	if view.Link != "" {
		msg += "\nJoin online: " + view.Link + "\n"
	}
	return msg
}
