package caregiver

import (
	"context"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/repository"
)

type Service struct {
	repo repository.CaregiverRepository
}

func NewService(repo repository.CaregiverRepository) *Service {
	return &Service{repo: repo}
}

// ListAvailable returns active, verified caregivers, best rated first.
func (s *Service) ListAvailable(ctx context.Context) ([]model.Caregiver, error) {
	caregivers, err := s.repo.ListActiveVerified(ctx)
	if err != nil {
		return nil, err
	}
	if caregivers == nil {
		caregivers = []model.Caregiver{}
	}
	return caregivers, nil
}
