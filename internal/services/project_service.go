package services

import (
	"prowork_backend/internal/models"
	"prowork_backend/internal/repositories"
	"prowork_backend/internal/services/dto"
	"prowork_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// ProjectService covers the thin project/proposal/service surface the
// job lifecycle builds on.
type ProjectService interface {
	CreateProject(db *gorm.DB, clientID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	CreateProposal(db *gorm.DB, professionalID string, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error)
	AcceptProposal(db *gorm.DB, proposalID, actorID string) (*dto.ProposalResponse, error)
	CreateService(db *gorm.DB, professionalID string, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error)
	GetProfile(db *gorm.DB, userID string) (*dto.ProfileResponse, error)
}

type projectService struct {
	projectRepo repositories.ProjectRepository
	profileRepo repositories.ProfileRepository
}

func NewProjectService(
	projectRepo repositories.ProjectRepository,
	profileRepo repositories.ProfileRepository,
) ProjectService {
	return &projectService{
		projectRepo: projectRepo,
		profileRepo: profileRepo,
	}
}

func (s *projectService) CreateProject(db *gorm.DB, clientID string, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	project := &models.Project{
		ClientID:    clientID,
		Title:       req.Title,
		Description: req.Description,
		Budget:      req.Budget,
		Currency:    currencyOrDefault(req.Currency),
		Status:      models.ProjectStatusOpen,
	}
	if err := s.projectRepo.CreateProject(db, project); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "project", "Failed to create project", 500)
	}
	return projectToResponse(project), nil
}

func (s *projectService) CreateProposal(db *gorm.DB, professionalID string, req *dto.CreateProposalRequest) (*dto.ProposalResponse, error) {
	project, err := s.projectRepo.FindProjectByID(db, req.ProjectID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProjectNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "project", "Failed to load project", 500)
	}
	if project.Status != models.ProjectStatusOpen {
		return nil, apperrors.NewBadRequestError("project", "Project is not open for proposals")
	}

	proposal := &models.Proposal{
		ProjectID:      req.ProjectID,
		ProfessionalID: professionalID,
		CoverLetter:    req.CoverLetter,
		Price:          req.Price,
		Currency:       currencyOrDefault(req.Currency),
		Status:         models.ProposalStatusPending,
	}
	if err := s.projectRepo.CreateProposal(db, proposal); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "project", "Failed to create proposal", 500)
	}
	return proposalToResponse(proposal), nil
}

func (s *projectService) AcceptProposal(db *gorm.DB, proposalID, actorID string) (*dto.ProposalResponse, error) {
	proposal, err := s.projectRepo.FindProposalByID(db, proposalID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.ErrProposalNotFound
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "project", "Failed to load proposal", 500)
	}

	project, err := s.projectRepo.FindProjectByID(db, proposal.ProjectID)
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "project", "Failed to load project", 500)
	}
	if project.ClientID != actorID {
		return nil, apperrors.NewForbiddenError("project", "Only the project owner may accept a proposal")
	}
	if proposal.Status != models.ProposalStatusPending {
		return nil, apperrors.NewBadRequestError("project", "Proposal is not pending")
	}

	if err := s.projectRepo.UpdateProposalStatus(db, proposalID, models.ProposalStatusAccepted); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "project", "Failed to accept proposal", 500)
	}
	proposal.Status = models.ProposalStatusAccepted

	return proposalToResponse(proposal), nil
}

func (s *projectService) CreateService(db *gorm.DB, professionalID string, req *dto.CreateServiceRequest) (*dto.ServiceResponse, error) {
	service := &models.Service{
		ProfessionalID: professionalID,
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		Currency:       currencyOrDefault(req.Currency),
		IsActive:       true,
	}
	if err := s.projectRepo.CreateService(db, service); err != nil {
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "project", "Failed to create service", 500)
	}
	return serviceToResponse(service), nil
}

func (s *projectService) GetProfile(db *gorm.DB, userID string) (*dto.ProfileResponse, error) {
	profile, err := s.profileRepo.FindByUserID(db, userID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, apperrors.NewNotFoundError("profile", "Professional profile not found")
		}
		return nil, apperrors.Wrap(err, apperrors.CodeDatabaseError, "profile", "Failed to load profile", 500)
	}

	return &dto.ProfileResponse{
		UserID:               profile.UserID,
		Title:                profile.Title,
		Bio:                  profile.Bio,
		City:                 profile.City,
		HourlyRate:           profile.HourlyRate,
		Rating:               profile.Rating,
		ReviewCount:          profile.ReviewCount,
		AvgResponseTimeHours: profile.AvgResponseTimeHours,
		IsAvailable:          profile.IsAvailable,
	}, nil
}

func currencyOrDefault(currency string) string {
	if currency == "" {
		return "USD"
	}
	return currency
}

func projectToResponse(p *models.Project) *dto.ProjectResponse {
	return &dto.ProjectResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		Title:       p.Title,
		Description: p.Description,
		Budget:      p.Budget,
		Currency:    p.Currency,
		Status:      p.Status,
		CreatedAt:   p.CreatedAt,
	}
}

func proposalToResponse(p *models.Proposal) *dto.ProposalResponse {
	return &dto.ProposalResponse{
		ID:             p.ID,
		ProjectID:      p.ProjectID,
		ProfessionalID: p.ProfessionalID,
		CoverLetter:    p.CoverLetter,
		Price:          p.Price,
		Currency:       p.Currency,
		Status:         p.Status,
		CreatedAt:      p.CreatedAt,
	}
}

func serviceToResponse(s *models.Service) *dto.ServiceResponse {
	return &dto.ServiceResponse{
		ID:             s.ID,
		ProfessionalID: s.ProfessionalID,
		Title:          s.Title,
		Description:    s.Description,
		Price:          s.Price,
		Currency:       s.Currency,
		IsActive:       s.IsActive,
		CreatedAt:      s.CreatedAt,
	}
}
