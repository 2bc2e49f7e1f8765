package settings

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/repository"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/validator"
)

type Service struct {
	doctors   repository.DoctorRepository
	validator validator.Validator
}

func NewService(doctors repository.DoctorRepository, v validator.Validator) *Service {
	return &Service{doctors: doctors, validator: v}
}

func (s *Service) GetProfile(ctx context.Context, id model.Identity) (*model.DoctorProfile, error) {
	if id.DoctorID == nil {
		return nil, apperrors.NotFound("doctor", nil)
	}
	return s.doctors.GetProfile(ctx, *id.DoctorID)
}

func (s *Service) UpdateProfile(ctx context.Context, id model.Identity, input *model.UpdateProfileInput) (*model.DoctorProfile, error) {
	if id.Demo {
		return nil, apperrors.Forbidden("demo mode is read-only")
	}
	if id.DoctorID == nil {
		return nil, apperrors.NotFound("doctor", nil)
	}
	if err := s.validator.Validate(input); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	if err := s.doctors.UpdateProfile(ctx, *id.DoctorID, input); err != nil {
		return nil, err
	}
	log.Info().Str("doctor_id", id.DoctorID.String()).Msg("doctor profile updated")
	return s.doctors.GetProfile(ctx, *id.DoctorID)
}
