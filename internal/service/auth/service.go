package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/internal/repository"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/auth"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/security"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/validator"
)

const tokenType = "Bearer"

var ErrTokenRevoked = errors.New("token revoked")

type Service struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	jwtSvc    auth.JWTService
	hasher    security.PasswordHasher
	validator validator.Validator
}

func NewService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository,
	jwtSvc auth.JWTService, hasher security.PasswordHasher, v validator.Validator) *Service {
	return &Service{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		jwtSvc:    jwtSvc,
		hasher:    hasher,
		validator: v,
	}
}

// SignUp creates the account and its doctor record, then signs the new
// user in.
func (s *Service) SignUp(ctx context.Context, req *model.SignUpRequest) (*model.TokenResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		if errors.Is(err, security.ErrPasswordTooShort) || errors.Is(err, security.ErrPasswordTooLong) {
			return nil, apperrors.BadRequest(err.Error(), err)
		}
		return nil, apperrors.Internal(err)
	}

	name := strings.TrimSpace(req.Name)
	first, last := model.SplitName(name)
	user := &model.User{
		Email:        req.Email,
		Name:         name,
		FirstName:    &first,
		LastName:     &last,
		PasswordHash: hash,
	}
	if err := s.userRepo.CreateWithDoctor(ctx, user, &model.Doctor{}); err != nil {
		return nil, err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("doctor account created")
	return s.issue(user)
}

func (s *Service) SignIn(ctx context.Context, req *model.SignInRequest) (*model.TokenResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, apperrors.BadRequest(err.Error(), err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
		}
		return nil, err
	}
	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		log.Debug().Str("user_id", user.ID.String()).Msg("sign-in rejected")
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}

	return s.issue(user)
}

// SignOut revokes the token until it would have expired anyway.
func (s *Service) SignOut(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	if err := s.tokenRepo.Revoke(ctx, claims.ID, ttl); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// ValidateToken checks the signature, expiry and revocation of a bearer token.
func (s *Service) ValidateToken(ctx context.Context, token string) (*auth.Claims, error) {
	claims, err := s.jwtSvc.ValidateToken(token)
	if err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	revoked, err := s.tokenRepo.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if revoked {
		return nil, apperrors.Unauthorized(ErrTokenRevoked)
	}
	return claims, nil
}

func (s *Service) CurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	return s.userRepo.Get(ctx, userID)
}

func (s *Service) issue(user *model.User) (*model.TokenResponse, error) {
	token, claims, err := s.jwtSvc.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   tokenType,
		ExpiresAt:   claims.ExpiresAt.Time,
		User:        user,
	}, nil
}
