package repositories

import (
	"prowork_backend/internal/models"

	"gorm.io/gorm"
)

type ProjectRepository interface {
	CreateProject(db *gorm.DB, project *models.Project) error
	FindProjectByID(db *gorm.DB, id string) (*models.Project, error)
	UpdateProjectStatus(db *gorm.DB, projectID string, status models.ProjectStatus) error

	CreateProposal(db *gorm.DB, proposal *models.Proposal) error
	FindProposalByID(db *gorm.DB, id string) (*models.Proposal, error)
	UpdateProposalStatus(db *gorm.DB, proposalID string, status models.ProposalStatus) error

	CreateService(db *gorm.DB, service *models.Service) error
	FindServiceByID(db *gorm.DB, id string) (*models.Service, error)
}

type ProjectRepositoryImpl struct{}

func NewProjectRepository() ProjectRepository {
	return &ProjectRepositoryImpl{}
}

func (r *ProjectRepositoryImpl) CreateProject(db *gorm.DB, project *models.Project) error {
	return db.Create(project).Error
}

func (r *ProjectRepositoryImpl) FindProjectByID(db *gorm.DB, id string) (*models.Project, error) {
	var project models.Project
	if err := db.First(&project, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &project, nil
}

func (r *ProjectRepositoryImpl) UpdateProjectStatus(db *gorm.DB, projectID string, status models.ProjectStatus) error {
	return db.Model(&models.Project{}).Where("id = ?", projectID).
		Update("status", status).Error
}

func (r *ProjectRepositoryImpl) CreateProposal(db *gorm.DB, proposal *models.Proposal) error {
	return db.Create(proposal).Error
}

func (r *ProjectRepositoryImpl) FindProposalByID(db *gorm.DB, id string) (*models.Proposal, error) {
	var proposal models.Proposal
	if err := db.First(&proposal, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &proposal, nil
}

func (r *ProjectRepositoryImpl) UpdateProposalStatus(db *gorm.DB, proposalID string, status models.ProposalStatus) error {
	return db.Model(&models.Proposal{}).Where("id = ?", proposalID).
		Update("status", status).Error
}

func (r *ProjectRepositoryImpl) CreateService(db *gorm.DB, service *models.Service) error {
	return db.Create(service).Error
}

func (r *ProjectRepositoryImpl) FindServiceByID(db *gorm.DB, id string) (*models.Service, error) {
	var service models.Service
	if err := db.First(&service, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &service, nil
}
