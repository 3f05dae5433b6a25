package doctor

import (
	"context"

	"github.com/google/uuid"

	"github.com/jwalitptl/clinic-api/internal/model"
	"github.com/jwalitptl/clinic-api/internal/repository"
	apperrors "github.com/jwalitptl/clinic-api/pkg/errors"
	"github.com/jwalitptl/clinic-api/pkg/security"
)

const defaultLanguage = "af-somali"

type Service struct {
	repo     repository.DoctorRepository
	userRepo repository.UserRepository
	hasher   security.PasswordHasher
}

func NewService(repo repository.DoctorRepository, userRepo repository.UserRepository, hasher security.PasswordHasher) *Service {
	return &Service{repo: repo, userRepo: userRepo, hasher: hasher}
}

// CreateDoctor provisions the doctor's login account and the directory
// entry together. The account carries the doctor role and links back via
// Doctor.UserID.
func (s *Service) CreateDoctor(ctx context.Context, req *model.CreateDoctorRequest) (*model.Doctor, error) {
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

	user := &model.User{
		FullName:     req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         model.UserRoleDoctor,
		Image:        req.Image,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, apperrors.Internal(err)
	}

	status := model.DoctorStatus(req.Status)
	if status == "" {
		status = model.DoctorStatusActive
	}
	language := req.Language
	if language == "" {
		language = defaultLanguage
	}

	doctor := &model.Doctor{
		UserID:         user.ID,
		Name:           req.Name,
		Specialization: req.Specialization,
		Experience:     req.Experience,
		Phone:          req.Phone,
		Email:          req.Email,
		Image:          req.Image,
		Language:       language,
		Price:          model.ParsePrice(req.Price),
		Status:         status,
	}
	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, apperrors.Internal(err)
	}
	return doctor, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if doctor == nil {
		return nil, apperrors.NotFound("doctor")
	}
	return doctor, nil
}

func (s *Service) ListDoctors(ctx context.Context) ([]*model.Doctor, error) {
	doctors, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	return doctors, nil
}

// UpdateDoctor merges non-empty fields over the stored record.
func (s *Service) UpdateDoctor(ctx context.Context, id uuid.UUID, req *model.UpdateDoctorRequest) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if doctor == nil {
		return nil, apperrors.NotFound("doctor")
	}

	if req.Name != "" {
		doctor.Name = req.Name
	}
	if req.Specialization != "" {
		doctor.Specialization = req.Specialization
	}
	if req.Experience != 0 {
		doctor.Experience = req.Experience
	}
	if req.Phone != "" {
		doctor.Phone = req.Phone
	}
	if req.Email != "" {
		doctor.Email = req.Email
	}
	if req.Image != "" {
		doctor.Image = req.Image
	}
	if req.Language != "" {
		doctor.Language = req.Language
	}
	if req.Price != "" {
		doctor.Price = model.ParsePrice(req.Price)
	}
	if req.Status != "" {
		doctor.Status = model.DoctorStatus(req.Status)
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, apperrors.Internal(err)
	}
	return doctor, nil
}

// DeleteDoctor removes the directory entry only. Existing appointments keep
// their doctor_id and report joins fall back to "Unknown Doctor".
func (s *Service) DeleteDoctor(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == repository.ErrNotFound {
			return apperrors.NotFound("doctor")
		}
		return apperrors.Internal(err)
	}
	return nil
}
