package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/event"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/metrics"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/validator"
)

type fakeAppointmentRepo struct {
	rows      map[uuid.UUID]model.AppointmentDetail
	updates   int
	failWrite error
	lastList  *model.AppointmentFilters
}

func newFakeRepo() *fakeAppointmentRepo {
	return &fakeAppointmentRepo{rows: map[uuid.UUID]model.AppointmentDetail{}}
}

func (f *fakeAppointmentRepo) Create(_ context.Context, a *model.Appointment) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	a.ID = uuid.New()
	f.rows[a.ID] = model.AppointmentDetail{Appointment: *a}
	return nil
}

func (f *fakeAppointmentRepo) Get(_ context.Context, id uuid.UUID) (*model.AppointmentDetail, error) {
	d, ok := f.rows[id]
	if !ok {
		return nil, apperrors.NotFound("appointment", nil)
	}
	return &d, nil
}

func (f *fakeAppointmentRepo) Update(_ context.Context, a *model.Appointment, from model.AppointmentStatus) error {
	if f.failWrite != nil {
		return f.failWrite
	}
	d, ok := f.rows[a.ID]
	if !ok {
		return apperrors.NotFound("appointment", nil)
	}
	if d.Status != from {
		return apperrors.Conflict("appointment was modified concurrently")
	}
	d.Appointment = *a
	f.rows[a.ID] = d
	f.updates++
	return nil
}

func (f *fakeAppointmentRepo) List(_ context.Context, filters *model.AppointmentFilters) ([]model.AppointmentDetail, error) {
	f.lastList = filters
	out := []model.AppointmentDetail{}
	for _, d := range f.rows {
		if filters.DoctorID != nil && d.DoctorID != *filters.DoctorID {
			continue
		}
		out = append(out, d)
	}
	if filters.Limit > 0 && len(out) > filters.Limit {
		out = out[:filters.Limit]
	}
	return out, nil
}

func (f *fakeAppointmentRepo) Stats(context.Context, uuid.UUID) (*model.DashboardStats, error) {
	return &model.DashboardStats{}, nil
}

func (f *fakeAppointmentRepo) ListCompletedPayments(context.Context, uuid.UUID) ([]model.CompletedPayment, error) {
	return nil, nil
}

type fakePatientRepo struct {
	known map[uuid.UUID]bool
}

func (f *fakePatientRepo) Get(_ context.Context, id uuid.UUID) (*model.Patient, error) {
	if !f.known[id] {
		return nil, apperrors.NotFound("patient", nil)
	}
	return &model.Patient{ID: id}, nil
}

func (f *fakePatientRepo) List(context.Context, *model.PatientFilters) ([]model.Patient, error) {
	return nil, nil
}

type recordingEmitter struct {
	events []*event.AppointmentEvent
}

func (r *recordingEmitter) Emit(_ context.Context, evt *event.AppointmentEvent) {
	r.events = append(r.events, evt)
}

type fixture struct {
	svc      *Service
	repo     *fakeAppointmentRepo
	events   *recordingEmitter
	metrics  *metrics.Metrics
	doctorID uuid.UUID
	patient  uuid.UUID
	identity model.Identity
}

func newFixture(t *testing.T, strict bool) *fixture {
	t.Helper()
	doctorID, userID, patientID := uuid.New(), uuid.New(), uuid.New()
	f := &fixture{
		repo:     newFakeRepo(),
		events:   &recordingEmitter{},
		metrics:  metrics.New("test"),
		doctorID: doctorID,
		patient:  patientID,
		identity: model.Identity{UserID: &userID, DoctorID: &doctorID},
	}
	f.svc = NewService(f.repo, &fakePatientRepo{known: map[uuid.UUID]bool{patientID: true}},
		f.events, f.metrics, validator.New(), Config{StrictTransitions: strict})
	return f
}

func (f *fixture) seed(status model.AppointmentStatus) uuid.UUID {
	start := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	id := uuid.New()
	f.repo.rows[id] = model.AppointmentDetail{Appointment: model.Appointment{
		ID:            id,
		DoctorID:      f.doctorID,
		PatientID:     f.patient,
		StartTime:     start,
		EndTime:       start.Add(model.ConsultationDuration),
		Status:        status,
		Mode:          model.AppointmentModeOnline,
		PaymentStatus: model.PaymentStatusPending,
		PaymentAmount: model.DefaultConsultationFee,
	}}
	return id
}

func TestCreate(t *testing.T) {
	f := newFixture(t, true)

	got, err := f.svc.Create(context.Background(), f.identity, &model.CreateAppointmentInput{
		PatientID: f.patient,
		Date:      "2024-03-05",
		Time:      "10:30",
		Mode:      model.AppointmentModeOnline,
		MeetLink:  "https://meet.example.com/x",
	})
	require.NoError(t, err)

	assert.Equal(t, model.AppointmentStatusScheduled, got.Status)
	assert.Equal(t, model.PaymentStatusPending, got.PaymentStatus)
	assert.Equal(t, model.DefaultConsultationFee, got.PaymentAmount)
	assert.Equal(t, 30*time.Minute, got.EndTime.Sub(got.StartTime))
	assert.Equal(t, f.doctorID, got.DoctorID)
	require.NotNil(t, got.MeetLink)

	require.Len(t, f.events.events, 1)
	assert.Equal(t, event.AppointmentCreated, f.events.events[0].Type)
}

func TestCreateDropsMeetLinkForInPerson(t *testing.T) {
	f := newFixture(t, true)

	got, err := f.svc.Create(context.Background(), f.identity, &model.CreateAppointmentInput{
		PatientID: f.patient,
		Date:      "2024-03-05",
		Time:      "10:30",
		Mode:      model.AppointmentModeInPerson,
		MeetLink:  "https://meet.example.com/x",
	})
	require.NoError(t, err)
	assert.Nil(t, got.MeetLink)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t, true)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, f.identity, &model.CreateAppointmentInput{PatientID: f.patient, Date: "05/03/2024", Time: "10:30", Mode: model.AppointmentModeOnline})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	_, err = f.svc.Create(ctx, f.identity, &model.CreateAppointmentInput{PatientID: uuid.New(), Date: "2024-03-05", Time: "10:30", Mode: model.AppointmentModeOnline})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	demo := model.Identity{DoctorID: &f.doctorID, Demo: true, Sandbox: true}
	_, err = f.svc.Create(ctx, demo, &model.CreateAppointmentInput{PatientID: f.patient, Date: "2024-03-05", Time: "10:30", Mode: model.AppointmentModeOnline})
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	assert.Empty(t, f.repo.rows)
}

func TestReschedule(t *testing.T) {
	f := newFixture(t, true)
	id := f.seed(model.AppointmentStatusScheduled)

	got, err := f.svc.Reschedule(context.Background(), f.identity, id, &model.RescheduleInput{Date: "2024-04-01", Time: "16:15"})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, got.Status)
	assert.Equal(t, 16, got.StartTime.Hour())
	assert.Equal(t, 30*time.Minute, got.EndTime.Sub(got.StartTime))
	require.NotNil(t, got.ScheduledDate)
	assert.Equal(t, "2024-04-01", *got.ScheduledDate)

	got, err = f.svc.Reschedule(context.Background(), f.identity, id, &model.RescheduleInput{Date: "2024-04-02", Time: "09:00"})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, got.Status)

	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AppointmentTransitions.WithLabelValues("scheduled", "confirmed")))
	assert.Len(t, f.events.events, 2)
}

func TestRescheduleCancelledStrictRejected(t *testing.T) {
	f := newFixture(t, true)
	id := f.seed(model.AppointmentStatusCancelled)

	_, err := f.svc.Reschedule(context.Background(), f.identity, id, &model.RescheduleInput{Date: "2024-04-01", Time: "16:15"})
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, model.AppointmentStatusCancelled, f.repo.rows[id].Status)
	assert.Equal(t, 1.0, testutil.ToFloat64(f.metrics.AppointmentRejected.WithLabelValues("cancelled", "confirmed")))
	assert.Empty(t, f.events.events)
}

func TestRescheduleCancelledLegacyConfirms(t *testing.T) {
	f := newFixture(t, false)
	id := f.seed(model.AppointmentStatusCancelled)

	got, err := f.svc.Reschedule(context.Background(), f.identity, id, &model.RescheduleInput{Date: "2024-04-01", Time: "16:15"})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusConfirmed, got.Status)
}

func TestCancelIdempotent(t *testing.T) {
	f := newFixture(t, true)
	id := f.seed(model.AppointmentStatusConfirmed)

	got, err := f.svc.Cancel(context.Background(), f.identity, id)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, got.Status)

	got, err = f.svc.Cancel(context.Background(), f.identity, id)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, got.Status)
	assert.Equal(t, 1, f.repo.updates)
	assert.Len(t, f.events.events, 1)
}

func TestCancelCompleted(t *testing.T) {
	strict := newFixture(t, true)
	id := strict.seed(model.AppointmentStatusCompleted)
	_, err := strict.svc.Cancel(context.Background(), strict.identity, id)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))

	legacy := newFixture(t, false)
	id = legacy.seed(model.AppointmentStatusCompleted)
	got, err := legacy.svc.Cancel(context.Background(), legacy.identity, id)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, got.Status)
}

func TestComplete(t *testing.T) {
	f := newFixture(t, false)
	id := f.seed(model.AppointmentStatusConfirmed)

	got, err := f.svc.Complete(context.Background(), f.identity, id)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, got.Status)
	assert.Equal(t, model.PaymentStatusCompleted, got.PaymentStatus)

	cancelled := f.seed(model.AppointmentStatusCancelled)
	_, err = f.svc.Complete(context.Background(), f.identity, cancelled)
	assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
}

func TestMutationFailureLeavesState(t *testing.T) {
	f := newFixture(t, true)
	id := f.seed(model.AppointmentStatusScheduled)
	f.repo.failWrite = errors.New("store unavailable")

	_, err := f.svc.Cancel(context.Background(), f.identity, id)
	require.Error(t, err)
	assert.Equal(t, model.AppointmentStatusScheduled, f.repo.rows[id].Status)
	assert.Empty(t, f.events.events)
}

func TestMutationsScopedToDoctor(t *testing.T) {
	f := newFixture(t, true)
	id := f.seed(model.AppointmentStatusScheduled)

	other := uuid.New()
	_, err := f.svc.Cancel(context.Background(), model.Identity{DoctorID: &other}, id)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	_, err = f.svc.Cancel(context.Background(), model.Identity{DoctorID: &f.doctorID, Demo: true, Sandbox: true}, id)
	assert.True(t, apperrors.Is(err, apperrors.ErrForbidden))
	assert.Equal(t, model.AppointmentStatusScheduled, f.repo.rows[id].Status)
}

func TestUpdateNotes(t *testing.T) {
	f := newFixture(t, true)
	id := f.seed(model.AppointmentStatusCompleted)

	got, err := f.svc.UpdateNotes(context.Background(), f.identity, id, &model.UpdateNotesInput{Notes: "Follow up in two weeks"})
	require.NoError(t, err)
	require.NotNil(t, got.Notes)
	assert.Equal(t, "Follow up in two weeks", *got.Notes)
	assert.Equal(t, model.AppointmentStatusCompleted, got.Status)
}

func TestListFallbackIsUnscopedAndCapped(t *testing.T) {
	f := newFixture(t, true)
	for i := 0; i < 25; i++ {
		f.seed(model.AppointmentStatusScheduled)
	}

	views, err := f.svc.List(context.Background(), model.Identity{Demo: true}, model.TabAll, "")
	require.NoError(t, err)
	assert.Len(t, views, FallbackListLimit)
	assert.Nil(t, f.repo.lastList.DoctorID)
}

func TestListScopedByTab(t *testing.T) {
	f := newFixture(t, true)
	f.seed(model.AppointmentStatusScheduled)
	f.seed(model.AppointmentStatusCancelled)

	views, err := f.svc.List(context.Background(), f.identity, model.TabUpcoming, "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, model.AppointmentStatusScheduled, views[0].Status)
	assert.Equal(t, &f.doctorID, f.repo.lastList.DoctorID)
	assert.Zero(t, f.repo.lastList.Limit)
}

func TestListWithoutIdentity(t *testing.T) {
	f := newFixture(t, true)
	_, err := f.svc.List(context.Background(), model.Identity{}, model.TabAll, "")
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestListRendersInBookingZone(t *testing.T) {
	f := newFixture(t, true)
	f.svc.cfg.Location = time.FixedZone("IST", 5*60*60+30*60)

	created, err := f.svc.Create(context.Background(), f.identity, &model.CreateAppointmentInput{
		PatientID: f.patient,
		Date:      "2024-03-05",
		Time:      "10:00",
		Mode:      model.AppointmentModeInPerson,
	})
	require.NoError(t, err)

	// the store hands timestamps back in UTC
	row := f.repo.rows[created.ID]
	row.StartTime, row.EndTime = row.StartTime.UTC(), row.EndTime.UTC()
	f.repo.rows[created.ID] = row

	views, err := f.svc.List(context.Background(), f.identity, model.TabAll, "")
	require.NoError(t, err)
	require.Len(t, views, 1)
	assert.Equal(t, "Mar 5, 2024", views[0].Date)
	assert.Equal(t, "10:00", views[0].Time)
}
