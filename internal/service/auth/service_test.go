package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NextGenGk/ayursutra-docter-portal/internal/model"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/auth"
	apperrors "github.com/NextGenGk/ayursutra-docter-portal/pkg/errors"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/security"
	"github.com/NextGenGk/ayursutra-docter-portal/pkg/validator"
)

type fakeUsers struct {
	byEmail map[string]*model.User
	doctors int
}

func (f *fakeUsers) CreateWithDoctor(_ context.Context, user *model.User, doctor *model.Doctor) error {
	if _, ok := f.byEmail[user.Email]; ok {
		return apperrors.Conflict(model.ErrEmailTaken.Error())
	}
	user.ID = uuid.New()
	doctor.UserID = user.ID
	f.byEmail[user.Email] = user
	f.doctors++
	return nil
}

func (f *fakeUsers) Get(_ context.Context, id uuid.UUID) (*model.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.NotFound("user", nil)
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*model.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, apperrors.NotFound("user", nil)
	}
	return u, nil
}

type memoryTokens struct {
	revoked map[string]time.Duration
}

func (m *memoryTokens) Revoke(_ context.Context, id string, ttl time.Duration) error {
	m.revoked[id] = ttl
	return nil
}

func (m *memoryTokens) IsRevoked(_ context.Context, id string) (bool, error) {
	_, ok := m.revoked[id]
	return ok, nil
}

func newTestService() (*Service, *fakeUsers, *memoryTokens) {
	users := &fakeUsers{byEmail: map[string]*model.User{}}
	tokens := &memoryTokens{revoked: map[string]time.Duration{}}
	svc := NewService(users, tokens, auth.NewJWTService("secret", "doctor-portal", time.Hour),
		security.NewBcryptHasher(4), validator.New())
	return svc, users, tokens
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.SignUp(ctx, &model.SignUpRequest{Name: "Asha Rao", Email: "asha@example.com", Password: "ayurveda123"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, 1, users.doctors)
	assert.Equal(t, "Asha", *resp.User.FirstName)
	assert.Equal(t, "Rao", *resp.User.LastName)
	assert.NotEqual(t, "ayurveda123", resp.User.PasswordHash)

	resp, err = svc.SignIn(ctx, &model.SignInRequest{Email: "asha@example.com", Password: "ayurveda123"})
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, claims.UserID)
}

func TestSignInRejected(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, &model.SignUpRequest{Name: "Asha", Email: "asha@example.com", Password: "ayurveda123"})
	require.NoError(t, err)

	_, err = svc.SignIn(ctx, &model.SignInRequest{Email: "asha@example.com", Password: "wrong-password"})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))

	_, err = svc.SignIn(ctx, &model.SignInRequest{Email: "nobody@example.com", Password: "whatever1"})
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}

func TestSignUpValidation(t *testing.T) {
	svc, users, _ := newTestService()

	_, err := svc.SignUp(context.Background(), &model.SignUpRequest{Name: "Asha", Email: "not-an-email", Password: "ayurveda123"})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))

	_, err = svc.SignUp(context.Background(), &model.SignUpRequest{Name: "Asha", Email: "a@example.com", Password: "short"})
	assert.True(t, apperrors.Is(err, apperrors.ErrBadRequest))
	assert.Zero(t, users.doctors)
}

func TestSignOutRevokesToken(t *testing.T) {
	svc, _, tokens := newTestService()
	ctx := context.Background()

	resp, err := svc.SignUp(ctx, &model.SignUpRequest{Name: "Asha", Email: "asha@example.com", Password: "ayurveda123"})
	require.NoError(t, err)
	claims, err := svc.ValidateToken(ctx, resp.AccessToken)
	require.NoError(t, err)

	require.NoError(t, svc.SignOut(ctx, claims))
	assert.Contains(t, tokens.revoked, claims.ID)

	_, err = svc.ValidateToken(ctx, resp.AccessToken)
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestValidateTokenGarbage(t *testing.T) {
	svc, _, _ := newTestService()
	_, err := svc.ValidateToken(context.Background(), "not-a-jwt")
	assert.True(t, apperrors.Is(err, apperrors.ErrUnauthorized))
}
