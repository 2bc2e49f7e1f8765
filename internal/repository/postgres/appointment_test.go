package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
)

func TestAppointmentRepository_Create(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	start := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	appt := &model.Appointment{
		DoctorID:      uuid.New(),
		PatientID:     uuid.New(),
		StartTime:     start,
		EndTime:       start.Add(model.ConsultationDuration),
		Status:        model.AppointmentStatusScheduled,
		Mode:          model.AppointmentModeInPerson,
		PaymentStatus: model.PaymentStatusPending,
		PaymentAmount: model.DefaultConsultationFee,
	}

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(sqlmock.AnyArg(), appt.DoctorID, appt.PatientID, appt.StartTime, appt.EndTime,
			appt.Status, appt.Mode, appt.MeetLink, appt.PaymentStatus, appt.PaymentAmount,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), appt))
	assert.NotEqual(t, uuid.Nil, appt.ID)
	assert.False(t, appt.CreatedAt.IsZero())
}

func TestAppointmentRepository_GetNotFound(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery("FROM appointments a").WillReturnError(sql.ErrNoRows)

	_, err := repo.Get(context.Background(), uuid.New())
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestAppointmentRepository_Get(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	id := uuid.New()
	start := time.Date(2024, 3, 5, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"id", "start_time", "end_time", "status", "mode", "payment_amount", "patient_name"}).
		AddRow(id.String(), start, start.Add(30*time.Minute), "confirmed", "Online", 500.0, "Asha Rao")
	mock.ExpectQuery("WHERE a.id = \\$1").WithArgs(id).WillReturnRows(rows)

	got, err := repo.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, id, got.ID)
	assert.Equal(t, model.AppointmentStatusConfirmed, got.Status)
	require.NotNil(t, got.PatientName)
	assert.Equal(t, "Asha Rao", *got.PatientName)
}

func TestAppointmentRepository_Update(t *testing.T) {
	ctx := context.Background()
	appt := &model.Appointment{ID: uuid.New(), Status: model.AppointmentStatusCancelled}

	t.Run("applied", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE appointments").
			WillReturnResult(sqlmock.NewResult(0, 1))
		require.NoError(t, NewAppointmentRepository(db).Update(ctx, appt, model.AppointmentStatusScheduled))
	})

	t.Run("status changed underneath", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE appointments").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").WithArgs(appt.ID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

		err := NewAppointmentRepository(db).Update(ctx, appt, model.AppointmentStatusScheduled)
		assert.True(t, apperrors.Is(err, apperrors.ErrConflict))
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		mock.ExpectExec("UPDATE appointments").WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectQuery("SELECT EXISTS").WithArgs(appt.ID).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

		err := NewAppointmentRepository(db).Update(ctx, appt, model.AppointmentStatusScheduled)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}

func TestAppointmentRepository_ListFilters(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	doctorID := uuid.New()
	from := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`a.doctor_id = \$1 AND a.status = ANY\(\$2\) AND a.start_time >= \$3 ORDER BY a.start_time ASC LIMIT \$4`).
		WithArgs(doctorID, sqlmock.AnyArg(), from, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	got, err := repo.List(context.Background(), &model.AppointmentFilters{
		DoctorID:  &doctorID,
		Status:    []model.AppointmentStatus{model.AppointmentStatusScheduled, model.AppointmentStatusConfirmed},
		StartFrom: &from,
		Limit:     5,
	})
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestAppointmentRepository_ListUnscoped(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	mock.ExpectQuery(`WHERE 1 = 1 ORDER BY a.start_time ASC LIMIT \$1`).
		WithArgs(20).
		WillReturnRows(sqlmock.NewRows([]string{"id", "status"}).
			AddRow(uuid.NewString(), "scheduled").
			AddRow(uuid.NewString(), "cancelled"))

	got, err := repo.List(context.Background(), &model.AppointmentFilters{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestAppointmentRepository_ListWindow(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	from := time.Date(2024, 3, 6, 10, 0, 0, 0, time.UTC)
	to := from.Add(15 * time.Minute)
	mock.ExpectQuery(`a.start_time >= \$1 AND a.start_time < \$2 ORDER BY a.start_time ASC`).
		WithArgs(from, to).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.NewString()))

	got, err := repo.List(context.Background(), &model.AppointmentFilters{StartFrom: &from, StartBefore: &to})
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestAppointmentRepository_Stats(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	doctorID := uuid.New()
	mock.ExpectQuery(`COUNT\(DISTINCT patient_id\) AS patients,\s+COUNT\(\*\) AS appointments,\s+` +
		`COALESCE\(SUM\(payment_amount\) FILTER \(WHERE status = 'completed'\), 0\) AS earnings\s+` +
		`FROM appointments\s+WHERE doctor_id = \$1`).WithArgs(doctorID).
		WillReturnRows(sqlmock.NewRows([]string{"patients", "appointments", "earnings"}).AddRow(101, 140, 12500.0))

	stats, err := repo.Stats(context.Background(), doctorID)
	require.NoError(t, err)
	assert.Equal(t, 101, stats.Patients)
	assert.Equal(t, 140, stats.Appointments)
	assert.Equal(t, 12500.0, stats.Earnings)
}

func TestAppointmentRepository_ListCompletedPayments(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAppointmentRepository(db)

	doctorID := uuid.New()
	paid := time.Date(2024, 3, 5, 11, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`a.payment_status = 'completed'`).WithArgs(doctorID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "patient_name", "payment_amount", "updated_at"}).
			AddRow(uuid.NewString(), nil, 500.0, paid))

	got, err := repo.ListCompletedPayments(context.Background(), doctorID)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Nil(t, got[0].PatientName)
	assert.Equal(t, 500.0, got[0].Amount)
}
