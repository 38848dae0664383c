package services

import (
	"time"

	"prowork_backend/internal/auth"
	"prowork_backend/internal/config"
	"prowork_backend/internal/logger"
	"prowork_backend/internal/models"
	"prowork_backend/internal/repositories"
	"prowork_backend/internal/services/dto"
	"prowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

type AuthService interface {
	Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	userRepo    repositories.UserRepository
	profileRepo repositories.ProfileRepository
	cfg         *config.Config
}

func NewAuthService(
	userRepo repositories.UserRepository,
	profileRepo repositories.ProfileRepository,
	cfg *config.Config,
) AuthService {
	return &authService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		cfg:         cfg,
	}
}

func (s *authService) Register(db *gorm.DB, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(db, req.Email); err == nil {
		return nil, apperrors.ErrEmailAlreadyExists
	} else if err != gorm.ErrRecordNotFound {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "auth", "Failed to check email", 500)
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         req.Role,
		Status:       models.UserStatusActive,
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := s.userRepo.Create(tx, user); err != nil {
			return err
		}
		if user.Role == models.UserRoleProfessional {
			return s.profileRepo.Create(tx, &models.ProfessionalProfile{UserID: user.ID})
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "auth", "Failed to register user", 500)
	}

	logger.Info("user registered", "user_id", user.ID, "role", user.Role)

	return s.issueToken(user)
}

func (s *authService) Login(db *gorm.DB, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.userRepo.FindByEmail(db, req.Email)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "auth", "Failed to load user", 500)
	}

	if !auth.CheckPassword(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}
	if user.Status == models.UserStatusSuspended {
		return nil, apperrors.NewForbiddenError("auth", "Account is suspended")
	}

	return s.issueToken(user)
}

func (s *authService) issueToken(user *models.User) (*dto.AuthResponse, error) {
	ttl := time.Duration(s.cfg.JWT.TTL) * time.Minute
	token, err := auth.GenerateToken(user.ID, user.Role, s.cfg.JWT.Secret, ttl)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken: token,
		UserID:      user.ID,
		Role:        user.Role,
	}, nil
}
