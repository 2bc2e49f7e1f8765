package patient

import (
	"context"

	"github.com/google/uuid"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/repository"
)

type PatientService interface {
	GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error)
	ListPatients(ctx context.Context, filters *model.PatientFilters) ([]model.Patient, error)
}

type Service struct {
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetPatient(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListPatients(ctx context.Context, filters *model.PatientFilters) ([]model.Patient, error) {
	if filters == nil {
		filters = &model.PatientFilters{}
	}
	return s.repo.List(ctx, filters)
}
