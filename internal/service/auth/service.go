package auth

import (
	"context"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	"github.com/jwalitptl/clinic-api/pkg/auth"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

// Service validates credentials and issues session tokens. Booking treats
// this as a collaborator; none of the appointment flow depends on it.
type Service struct {
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
	jwtSvc   auth.JWTService
}

func NewService(userRepo repository.UserRepository, hasher security.PasswordHasher, jwtSvc auth.JWTService) *Service {
	return &Service{userRepo: userRepo, hasher: hasher, jwtSvc: jwtSvc}
}

func (s *Service) Register(ctx context.Context, req *model.RegisterUserRequest) (*model.User, error) {
	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("user with this email already exists")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.InvalidInput("invalid password", err)
	}

	role := model.UserRole(req.Role)
	if role == "" {
		role = model.UserRoleUser
	}

	user := &model.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         role,
		Phone:        req.Phone,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.Internal(err)
	}
	return user, nil
}

func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if user == nil {
		return nil, apperrors.Unauthorized(nil)
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(err)
	}

	token, err := s.jwtSvc.GenerateToken(user)
	if err != nil {
		return nil, apperrors.Internal(err)
	}

	return &model.LoginResponse{Token: token, User: user}, nil
}
