package dashboard

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/repository"
)

const (
	// UpcomingLimit is how many upcoming appointments the dashboard shows.
	UpcomingLimit = 5
	// DemoSampleLimit caps the rows the first-doctor demo fallback counts.
	DemoSampleLimit = 100
)

type Service struct {
	appointments repository.AppointmentRepository
	loc          *time.Location
	now          func() time.Time
}

func NewService(appointments repository.AppointmentRepository, loc *time.Location) *Service {
	if loc == nil {
		loc = time.UTC
	}
	return &Service{appointments: appointments, loc: loc, now: time.Now}
}

// Get builds the dashboard for the identity's doctor. Signed-in and sandbox
// doctors get counters from a single aggregate query covering every
// appointment. The first-doctor demo fallback counts a capped sample of that
// doctor's rows instead.
func (s *Service) Get(ctx context.Context, id model.Identity) (*model.Dashboard, error) {
	dash := &model.Dashboard{Upcoming: []model.AppointmentView{}, Demo: id.Demo}
	if id.DoctorID == nil {
		return dash, nil
	}

	var err error
	if id.Demo && !id.Sandbox {
		dash.Stats, err = s.sampleStats(ctx, *id.DoctorID)
	} else {
		dash.Stats, err = s.aggregateStats(ctx, *id.DoctorID)
	}
	if err != nil {
		return nil, err
	}

	now := s.now()
	rows, err := s.appointments.List(ctx, &model.AppointmentFilters{
		DoctorID:  id.DoctorID,
		StartFrom: &now,
		Limit:     UpcomingLimit,
	})
	if err != nil {
		return nil, err
	}
	dash.Upcoming = model.FormatAppointments(rows, s.loc)
	return dash, nil
}

func (s *Service) aggregateStats(ctx context.Context, doctorID uuid.UUID) (model.DashboardStats, error) {
	stats, err := s.appointments.Stats(ctx, doctorID)
	if err != nil {
		return model.DashboardStats{}, err
	}
	return *stats, nil
}

func (s *Service) sampleStats(ctx context.Context, doctorID uuid.UUID) (model.DashboardStats, error) {
	rows, err := s.appointments.List(ctx, &model.AppointmentFilters{
		DoctorID: &doctorID,
		Limit:    DemoSampleLimit,
	})
	if err != nil {
		return model.DashboardStats{}, err
	}
	sample := make([]model.Appointment, 0, len(rows))
	for _, r := range rows {
		sample = append(sample, r.Appointment)
	}
	return model.Summarize(sample), nil
}
