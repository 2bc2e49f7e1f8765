package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/repository"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/event"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/metrics"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/validator"
)

// FallbackListLimit caps the cross-doctor list served to demo visitors
// when no sandbox doctor is configured.
const FallbackListLimit = 20

var errDemoReadOnly = apperrors.Forbidden("demo mode is read-only")

type Config struct {
	// StrictTransitions rejects moves outside the transition table. When
	// false, reschedule and cancel overwrite any prior status.
	StrictTransitions bool
	Location          *time.Location
}

type Service struct {
	repo      repository.AppointmentRepository
	patients  repository.PatientRepository
	events    event.Emitter
	metrics   *metrics.Metrics
	validator validator.Validator
	cfg       Config
}

func NewService(repo repository.AppointmentRepository, patients repository.PatientRepository,
	events event.Emitter, m *metrics.Metrics, v validator.Validator, cfg Config) *Service {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &Service{
		repo:      repo,
		patients:  patients,
		events:    events,
		metrics:   m,
		validator: v,
		cfg:       cfg,
	}
}

func (s *Service) Create(ctx context.Context, id model.Identity, input *model.CreateAppointmentInput) (*model.AppointmentDetail, error) {
	if id.Demo || id.DoctorID == nil {
		return nil, errDemoReadOnly
	}
	if err := s.validator.Validate(input); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	start, end, err := model.ParseSlot(input.Date, input.Time, s.cfg.Location)
	if err != nil {
		return nil, apperrors.BadRequest("invalid appointment date or time", err)
	}

	if _, err := s.patients.Get(ctx, input.PatientID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.BadRequest("patient does not exist", err)
		}
		return nil, err
	}

	apt := &model.Appointment{
		DoctorID:      *id.DoctorID,
		PatientID:     input.PatientID,
		StartTime:     start,
		EndTime:       end,
		Status:        model.AppointmentStatusScheduled,
		Mode:          input.Mode,
		PaymentStatus: model.PaymentStatusPending,
		PaymentAmount: model.DefaultConsultationFee,
	}
	if link := strings.TrimSpace(input.MeetLink); link != "" && apt.Mode == model.AppointmentModeOnline {
		apt.MeetLink = &link
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, err
	}

	log.Info().
		Str("appointment_id", apt.ID.String()).
		Str("doctor_id", apt.DoctorID.String()).
		Msg("appointment created")
	s.emit(ctx, event.AppointmentCreated, apt)

	return s.repo.Get(ctx, apt.ID)
}

func (s *Service) Get(ctx context.Context, id model.Identity, appointmentID uuid.UUID) (*model.AppointmentDetail, error) {
	apt, err := s.repo.Get(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if !id.Owns(apt.DoctorID) {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return apt, nil
}

// List returns formatted appointments for the identity, narrowed to tab
// and to patient names containing search.
func (s *Service) List(ctx context.Context, id model.Identity, tab model.AppointmentTab, search string) ([]model.AppointmentView, error) {
	filters := &model.AppointmentFilters{DoctorID: id.ListScope()}
	if filters.DoctorID == nil {
		if !id.Demo {
			return nil, apperrors.Unauthorized(nil)
		}
		filters.Limit = FallbackListLimit
	}

	rows, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, err
	}
	return model.FilterViews(model.FormatAppointments(rows, s.cfg.Location), tab, search), nil
}

func (s *Service) Reschedule(ctx context.Context, id model.Identity, appointmentID uuid.UUID, input *model.RescheduleInput) (*model.AppointmentDetail, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}
	start, end, err := model.ParseSlot(input.Date, input.Time, s.cfg.Location)
	if err != nil {
		return nil, apperrors.BadRequest("invalid appointment date or time", err)
	}

	return s.transition(ctx, id, appointmentID, model.AppointmentStatusConfirmed, event.AppointmentRescheduled, func(a *model.Appointment) {
		date, clock := input.Date, input.Time
		a.StartTime = start
		a.EndTime = end
		a.ScheduledDate = &date
		a.ScheduledTime = &clock
	})
}

// Cancel is idempotent: cancelling a cancelled appointment succeeds
// without writing.
func (s *Service) Cancel(ctx context.Context, id model.Identity, appointmentID uuid.UUID) (*model.AppointmentDetail, error) {
	return s.transition(ctx, id, appointmentID, model.AppointmentStatusCancelled, event.AppointmentCancelled, nil)
}

func (s *Service) Complete(ctx context.Context, id model.Identity, appointmentID uuid.UUID) (*model.AppointmentDetail, error) {
	return s.transition(ctx, id, appointmentID, model.AppointmentStatusCompleted, event.AppointmentCompleted, func(a *model.Appointment) {
		a.PaymentStatus = model.PaymentStatusCompleted
	})
}

func (s *Service) UpdateNotes(ctx context.Context, id model.Identity, appointmentID uuid.UUID, input *model.UpdateNotesInput) (*model.AppointmentDetail, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	current, err := s.loadForWrite(ctx, id, appointmentID)
	if err != nil {
		return nil, err
	}

	apt := current.Appointment
	notes := input.Notes
	apt.Notes = &notes
	if err := s.repo.Update(ctx, &apt, current.Status); err != nil {
		return nil, err
	}
	current.Appointment = apt
	return current, nil
}

func (s *Service) loadForWrite(ctx context.Context, id model.Identity, appointmentID uuid.UUID) (*model.AppointmentDetail, error) {
	if id.Demo {
		return nil, errDemoReadOnly
	}
	if id.DoctorID == nil {
		return nil, apperrors.Unauthorized(nil)
	}
	return s.Get(ctx, id, appointmentID)
}

func (s *Service) allowed(from, to model.AppointmentStatus) bool {
	if !s.cfg.StrictTransitions && to != model.AppointmentStatusCompleted {
		return true
	}
	return model.CanTransition(from, to)
}

func (s *Service) transition(ctx context.Context, id model.Identity, appointmentID uuid.UUID,
	to model.AppointmentStatus, evtType event.EventType, apply func(*model.Appointment)) (*model.AppointmentDetail, error) {
	current, err := s.loadForWrite(ctx, id, appointmentID)
	if err != nil {
		return nil, err
	}

	from := current.Status
	if from == to && to == model.AppointmentStatusCancelled {
		return current, nil
	}
	if !s.allowed(from, to) {
		if s.metrics != nil {
			s.metrics.AppointmentRejected.WithLabelValues(string(from), string(to)).Inc()
		}
		return nil, apperrors.Conflict(fmt.Sprintf("cannot move appointment from %s to %s", from, to))
	}

	apt := current.Appointment
	apt.Status = to
	if apply != nil {
		apply(&apt)
	}
	if err := s.repo.Update(ctx, &apt, from); err != nil {
		return nil, err
	}

	if s.metrics != nil {
		s.metrics.AppointmentTransitions.WithLabelValues(string(from), string(to)).Inc()
	}
	log.Info().
		Str("appointment_id", apt.ID.String()).
		Str("from", string(from)).
		Str("to", string(to)).
		Msg("appointment status changed")
	s.emit(ctx, evtType, &apt)

	current.Appointment = apt
	return current, nil
}

func (s *Service) emit(ctx context.Context, evtType event.EventType, apt *model.Appointment) {
	if s.events == nil {
		return
	}
	evt := &event.AppointmentEvent{
		Type:          evtType,
		AppointmentID: apt.ID,
		DoctorID:      apt.DoctorID,
		PatientID:     apt.PatientID,
		Status:        string(apt.Status),
		Mode:          string(apt.Mode),
		StartTime:     apt.StartTime,
		EndTime:       apt.EndTime,
	}
	if apt.MeetLink != nil {
		evt.MeetLink = *apt.MeetLink
	}
	s.events.Emit(ctx, evt)
}
