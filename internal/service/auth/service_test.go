package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository/mocks"
	"github.com/jwalitptl/clinic-api/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

func newTestService(userRepo *mocks.UserRepository) *Service {
	hasher := security.NewBcryptHasher(4)
	jwtSvc := auth.NewJWTService(auth.Config{Secret: "test-secret", ExpiryHours: 1})
	return NewService(userRepo, hasher, jwtSvc)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc := newTestService(userRepo)

	userRepo.On("GetByEmail", mock.Anything, "a@b.com").Return(&model.User{}, nil)

	_, err := svc.Register(context.Background(), &model.RegisterUserRequest{
		FullName: "A", Email: "a@b.com", Password: "longenough",
	})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrConflict))
}

func TestRegister_DefaultsToUserRole(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc := newTestService(userRepo)

	userRepo.On("GetByEmail", mock.Anything, "a@b.com").Return(nil, nil)
	userRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	user, err := svc.Register(context.Background(), &model.RegisterUserRequest{
		FullName: "A", Email: "a@b.com", Password: "longenough",
	})
	require.NoError(t, err)
	assert.Equal(t, model.UserRoleUser, user.Role)
	assert.NotEqual(t, "longenough", user.PasswordHash)
}

func TestLogin_RoundTrip(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc := newTestService(userRepo)

	hasher := security.NewBcryptHasher(4)
	hash, err := hasher.Hash("longenough")
	require.NoError(t, err)

	stored := &model.User{Email: "a@b.com", PasswordHash: hash, Role: model.UserRoleAdmin}
	userRepo.On("GetByEmail", mock.Anything, "a@b.com").Return(stored, nil)

	resp, err := svc.Login(context.Background(), &model.LoginRequest{Email: "a@b.com", Password: "longenough"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)

	jwtSvc := auth.NewJWTService(auth.Config{Secret: "test-secret", ExpiryHours: 1})
	claims, err := jwtSvc.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, model.UserRoleAdmin, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc := newTestService(userRepo)

	hasher := security.NewBcryptHasher(4)
	hash, _ := hasher.Hash("rightpassword")
	userRepo.On("GetByEmail", mock.Anything, "a@b.com").Return(&model.User{PasswordHash: hash}, nil)

	_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "a@b.com", Password: "wrongpassword"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}

func TestLogin_UnknownEmail(t *testing.T) {
	userRepo := new(mocks.UserRepository)
	svc := newTestService(userRepo)

	userRepo.On("GetByEmail", mock.Anything, "missing@b.com").Return(nil, nil)

	_, err := svc.Login(context.Background(), &model.LoginRequest{Email: "missing@b.com", Password: "whatever1"})
	assert.True(t, apperrors.IsCode(err, apperrors.ErrUnauthorized))
}
