package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
)

// All repository interfaces in one file
type (
	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.AppointmentDetail, error)
		// Update persists a mutation only if the row still carries the
		// status it was read with. A lost race yields a conflict error.
		Update(ctx context.Context, appointment *model.Appointment, from model.AppointmentStatus) error
		List(ctx context.Context, filters *model.AppointmentFilters) ([]model.AppointmentDetail, error)
		Stats(ctx context.Context, doctorID uuid.UUID) (*model.DashboardStats, error)
		ListCompletedPayments(ctx context.Context, doctorID uuid.UUID) ([]model.CompletedPayment, error)
	}

	PatientRepository interface {
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		List(ctx context.Context, filters *model.PatientFilters) ([]model.Patient, error)
	}

	DoctorRepository interface {
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
		// First returns the earliest registered doctor.
		First(ctx context.Context) (*model.Doctor, error)
		GetProfile(ctx context.Context, doctorID uuid.UUID) (*model.DoctorProfile, error)
		UpdateProfile(ctx context.Context, doctorID uuid.UUID, input *model.UpdateProfileInput) error
	}

	UserRepository interface {
		// CreateWithDoctor inserts the account and its linked doctor row atomically.
		CreateWithDoctor(ctx context.Context, user *model.User, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
	}

	CaregiverRepository interface {
		ListActiveVerified(ctx context.Context) ([]model.Caregiver, error)
	}

	FinanceRepository interface {
		ListByUser(ctx context.Context, userID uuid.UUID) ([]model.FinanceTransaction, error)
	}

	TokenRepository interface {
		Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
		IsRevoked(ctx context.Context, tokenID string) (bool, error)
	}
)
