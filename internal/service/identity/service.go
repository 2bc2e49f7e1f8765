package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/repository"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
)

const (
	cacheTTL         = 5 * time.Minute
	cacheCleanup     = 10 * time.Minute
	firstDoctorCache = "first-doctor"
)

type DemoConfig struct {
	Enabled bool
	// SandboxDoctor pins demo visitors to one doctor's records. When nil,
	// demo falls back to the first registered doctor.
	SandboxDoctor *uuid.UUID
}

// Service resolves the doctor a request acts for.
type Service struct {
	doctors repository.DoctorRepository
	demo    DemoConfig
	cache   *cache.Cache
}

func NewService(doctors repository.DoctorRepository, demo DemoConfig) *Service {
	return &Service{
		doctors: doctors,
		demo:    demo,
		cache:   cache.New(cacheTTL, cacheCleanup),
	}
}

// Resolve maps an optional signed-in user to an Identity. Without a user,
// or for a user with no linked doctor, it returns a read-only demo identity
// when demo mode is enabled and an unauthorized error otherwise.
func (s *Service) Resolve(ctx context.Context, userID *uuid.UUID) (model.Identity, error) {
	if userID != nil {
		doctorID, err := s.doctorFor(ctx, *userID)
		if err == nil {
			return model.Identity{UserID: userID, DoctorID: &doctorID}, nil
		}
		if !apperrors.Is(err, apperrors.ErrNotFound) {
			return model.Identity{}, err
		}
		log.Debug().Str("user_id", userID.String()).Msg("no doctor linked to user")
	}

	if !s.demo.Enabled {
		return model.Identity{}, apperrors.Unauthorized(nil)
	}

	id := model.Identity{UserID: userID, Demo: true}
	if s.demo.SandboxDoctor != nil {
		sandbox := *s.demo.SandboxDoctor
		id.DoctorID = &sandbox
		id.Sandbox = true
		return id, nil
	}

	first, err := s.firstDoctor(ctx)
	switch {
	case err == nil:
		id.DoctorID = &first
	case !apperrors.Is(err, apperrors.ErrNotFound):
		return model.Identity{}, err
	}
	return id, nil
}

// Invalidate drops the cached doctor for a user.
func (s *Service) Invalidate(userID uuid.UUID) {
	s.cache.Delete(userID.String())
}

func (s *Service) doctorFor(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	key := userID.String()
	if v, ok := s.cache.Get(key); ok {
		return v.(uuid.UUID), nil
	}

	doctor, err := s.doctors.GetByUserID(ctx, userID)
	if err != nil {
		return uuid.Nil, err
	}
	s.cache.SetDefault(key, doctor.ID)
	return doctor.ID, nil
}

func (s *Service) firstDoctor(ctx context.Context) (uuid.UUID, error) {
	if v, ok := s.cache.Get(firstDoctorCache); ok {
		return v.(uuid.UUID), nil
	}

	doctor, err := s.doctors.First(ctx)
	if err != nil {
		return uuid.Nil, err
	}
	s.cache.SetDefault(firstDoctorCache, doctor.ID)
	return doctor.ID, nil
}
