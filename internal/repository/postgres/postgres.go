package postgres

import (
	"github.com/jmoiron/sqlx"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/repository"
)

type appointmentRepository struct {
	db *sqlx.DB
}

type patientRepository struct {
	db *sqlx.DB
}

type doctorRepository struct {
	BaseRepository
}

type userRepository struct {
	BaseRepository
}

type caregiverRepository struct {
	db *sqlx.DB
}

type financeRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func NewDoctorRepository(base BaseRepository) repository.DoctorRepository {
	return &doctorRepository{base}
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func NewCaregiverRepository(db *sqlx.DB) repository.CaregiverRepository {
	return &caregiverRepository{db: db}
}

func NewFinanceRepository(db *sqlx.DB) repository.FinanceRepository {
	return &financeRepository{db: db}
}
